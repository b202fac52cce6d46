package models

import "time"

// InviteCode grants a role (admin in practice) to whoever redeems it.
// Single-use; redemption records the redeemer and timestamp.
type InviteCode struct {
	Code       string     `gorm:"column:code;primaryKey" json:"code"`
	Role       Role       `gorm:"column:role" json:"role"`
	CreatedBy  string     `gorm:"column:created_by" json:"created_by"`
	RedeemedBy *string    `gorm:"column:redeemed_by" json:"redeemed_by,omitempty"`
	RedeemedAt *time.Time `gorm:"column:redeemed_at" json:"redeemed_at,omitempty"`
	ExpiresAt  *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"created_at"`
}

func (InviteCode) TableName() string { return "invite_codes" }

// Redeemable reports whether the code can still be used at the given instant.
func (c InviteCode) Redeemable(now time.Time) bool {
	if c.RedeemedBy != nil {
		return false
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return false
	}
	return true
}
