package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/vendra/marketplace/models"
)

var ErrApplicationClosed = errors.New("application has already been reviewed")

// VendorApplicationStore manages the become-a-vendor flow. Approval grants
// the vendor role assignment in the same transaction so the applicant's next
// role refresh observes it atomically.
type VendorApplicationStore struct{ DB *gorm.DB }

func NewVendorApplicationStore(db *gorm.DB) *VendorApplicationStore {
	return &VendorApplicationStore{DB: db}
}

// Submit files a new application for identityID. An identity can have at most
// one open application.
func (s *VendorApplicationStore) Submit(ctx context.Context, identityID, shopName, description string) (*models.VendorApplication, error) {
	if strings.TrimSpace(shopName) == "" {
		return nil, gorm.ErrInvalidData
	}
	app := models.VendorApplication{
		ID:          models.MarketID(),
		IdentityID:  identityID,
		ShopName:    strings.TrimSpace(shopName),
		Description: description,
		Status:      models.ApplicationPending,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.VendorApplication{}).
			Where("identity_id = ? AND status = ?", identityID, models.ApplicationPending).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return gorm.ErrInvalidData
		}
		return tx.Create(&app).Error
	})
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// GetForIdentity returns the latest application for an identity, or nil.
func (s *VendorApplicationStore) GetForIdentity(ctx context.Context, identityID string) (*models.VendorApplication, error) {
	var app models.VendorApplication
	err := s.DB.WithContext(ctx).
		Where("identity_id = ?", identityID).
		Order("created_at DESC").First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return &app, nil
}

// ListPending returns open applications for the admin review queue.
func (s *VendorApplicationStore) ListPending(ctx context.Context) ([]models.VendorApplication, error) {
	var out []models.VendorApplication
	err := s.DB.WithContext(ctx).
		Where("status = ?", models.ApplicationPending).
		Order("created_at ASC").Find(&out).Error
	return out, err
}

// Approve marks the application approved and grants the vendor role row in
// one transaction.
func (s *VendorApplicationStore) Approve(ctx context.Context, applicationID, reviewerID, note string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		app, err := s.lockOpen(tx, applicationID)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.VendorApplication{}).Where("id = ?", applicationID).
			Updates(map[string]interface{}{
				"status":      models.ApplicationApproved,
				"reviewed_by": reviewerID,
				"review_note": note,
				"updated_at":  time.Now().UTC(),
			}).Error; err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.RoleAssignment{}).
			Where("identity_id = ? AND role = ?", app.IdentityID, models.RoleVendor).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		row := models.RoleAssignment{
			ID:         models.MarketID(),
			IdentityID: app.IdentityID,
			Role:       models.RoleVendor,
			AssignedAt: time.Now().UTC(),
		}
		return tx.Create(&row).Error
	})
}

// Reject closes the application without granting anything.
func (s *VendorApplicationStore) Reject(ctx context.Context, applicationID, reviewerID, note string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.lockOpen(tx, applicationID); err != nil {
			return err
		}
		return tx.Model(&models.VendorApplication{}).Where("id = ?", applicationID).
			Updates(map[string]interface{}{
				"status":      models.ApplicationRejected,
				"reviewed_by": reviewerID,
				"review_note": note,
				"updated_at":  time.Now().UTC(),
			}).Error
	})
}

func (s *VendorApplicationStore) lockOpen(tx *gorm.DB, applicationID string) (*models.VendorApplication, error) {
	var app models.VendorApplication
	if err := tx.Where("id = ?", applicationID).First(&app).Error; err != nil {
		return nil, err
	}
	if !app.Open() {
		return nil, ErrApplicationClosed
	}
	return &app, nil
}
