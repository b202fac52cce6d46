package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/vendra/marketplace/models"
)

// RoleAssignmentStore manages the role_assignments table consulted by the
// session/role resolution core. The client side only reads; writes happen
// through admin flows (invite redemption, vendor approval).
type RoleAssignmentStore struct{ DB *gorm.DB }

func NewRoleAssignmentStore(db *gorm.DB) *RoleAssignmentStore {
	return &RoleAssignmentStore{DB: db}
}

// ListForIdentity returns all assignment rows for an identity, in arbitrary
// order; callers reduce them with models.ResolveRole.
func (s *RoleAssignmentStore) ListForIdentity(ctx context.Context, identityID string) ([]models.RoleAssignment, error) {
	var rows []models.RoleAssignment
	err := s.DB.WithContext(ctx).Where("identity_id = ?", identityID).Find(&rows).Error
	return rows, err
}

// Assign inserts a role row for an identity; duplicate grants are skipped.
func (s *RoleAssignmentStore) Assign(ctx context.Context, identityID string, role models.Role) error {
	if !role.Valid() {
		return gorm.ErrInvalidData
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.RoleAssignment{}).
			Where("identity_id = ? AND role = ?", identityID, role).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		row := models.RoleAssignment{
			ID:         models.MarketID(),
			IdentityID: identityID,
			Role:       role,
			AssignedAt: time.Now().UTC(),
		}
		return tx.Create(&row).Error
	})
}

// Revoke removes a role row for an identity; missing rows are not an error.
func (s *RoleAssignmentStore) Revoke(ctx context.Context, identityID string, role models.Role) error {
	return s.DB.WithContext(ctx).
		Where("identity_id = ? AND role = ?", identityID, role).
		Delete(&models.RoleAssignment{}).Error
}
