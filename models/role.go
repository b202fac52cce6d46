package models

import "time"

// Role is the single authoritative role used for routing decisions.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleVendor || r == RoleAdmin
}

// RoleAssignment links an identity to a role. An identity may carry multiple
// rows (legacy grants); ResolveRole picks the authoritative one.
type RoleAssignment struct {
	ID         string    `gorm:"column:id;primaryKey" json:"id"`
	IdentityID string    `gorm:"column:identity_id;index" json:"identity_id"`
	Role       Role      `gorm:"column:role" json:"role"`
	AssignedAt time.Time `gorm:"column:assigned_at" json:"assigned_at"`
}

func (RoleAssignment) TableName() string { return "role_assignments" }

// ResolveRole reduces a set of assignment rows to the authoritative role.
// Precedence is admin > vendor > customer regardless of row order; zero rows
// is treated the same as an explicit customer grant.
func ResolveRole(rows []RoleAssignment) Role {
	resolved := RoleCustomer
	for _, row := range rows {
		switch row.Role {
		case RoleAdmin:
			return RoleAdmin
		case RoleVendor:
			resolved = RoleVendor
		}
	}
	return resolved
}
