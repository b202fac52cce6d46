package models

import "time"

// Account is the credential row backing an Identity.
type Account struct {
	ID           string    `gorm:"column:id;primaryKey" json:"id"`
	Email        string    `gorm:"column:email;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password_hash" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Account) TableName() string { return "accounts" }

// Identity returns the identity view of the account.
func (a Account) Identity() Identity {
	return Identity{ID: a.ID, Email: a.Email, CreatedAt: a.CreatedAt}
}
