package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/vendra/marketplace/models"
)

var ErrCodeNotRedeemable = errors.New("invite code is invalid, expired or already used")

// InviteCodeStore manages single-use role-granting invite codes. Redemption
// consumes the code and inserts the role assignment in one transaction.
type InviteCodeStore struct{ DB *gorm.DB }

func NewInviteCodeStore(db *gorm.DB) *InviteCodeStore { return &InviteCodeStore{DB: db} }

// Create mints a new code granting role, optionally expiring at expiresAt.
func (s *InviteCodeStore) Create(ctx context.Context, createdBy string, role models.Role, expiresAt *time.Time) (*models.InviteCode, error) {
	if !role.Valid() {
		return nil, gorm.ErrInvalidData
	}
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	code := models.InviteCode{
		Code:      hex.EncodeToString(buf),
		Role:      role,
		CreatedBy: createdBy,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.DB.WithContext(ctx).Create(&code).Error; err != nil {
		return nil, err
	}
	return &code, nil
}

// Redeem consumes the code for identityID and grants the associated role.
func (s *InviteCodeStore) Redeem(ctx context.Context, code, identityID string) (models.Role, error) {
	var granted models.Role
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ic models.InviteCode
		if err := tx.Where("code = ?", code).First(&ic).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCodeNotRedeemable
			}
			return err
		}
		now := time.Now().UTC()
		if !ic.Redeemable(now) {
			return ErrCodeNotRedeemable
		}
		// Guard against concurrent redemption: the update predicate re-checks
		// unused state.
		res := tx.Exec(`UPDATE invite_codes SET redeemed_by = ?, redeemed_at = ? WHERE code = ? AND redeemed_by IS NULL`,
			identityID, now, code)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCodeNotRedeemable
		}
		var count int64
		if err := tx.Model(&models.RoleAssignment{}).
			Where("identity_id = ? AND role = ?", identityID, ic.Role).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			row := models.RoleAssignment{
				ID:         models.MarketID(),
				IdentityID: identityID,
				Role:       ic.Role,
				AssignedAt: now,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		granted = ic.Role
		return nil
	})
	if err != nil {
		return "", err
	}
	return granted, nil
}

// List returns all codes, newest first, for the admin console.
func (s *InviteCodeStore) List(ctx context.Context) ([]models.InviteCode, error) {
	var out []models.InviteCode
	err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}
