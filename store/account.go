package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vendra/marketplace/models"
)

// AccountStore provides credential operations for accounts.
type AccountStore struct{ DB *gorm.DB }

func NewAccountStore(db *gorm.DB) *AccountStore { return &AccountStore{DB: db} }

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
)

// Create registers a new account with a bcrypt-hashed password and returns it.
func (s *AccountStore) Create(ctx context.Context, email, password string) (*models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, gorm.ErrInvalidData
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	acc := models.Account{
		ID:           models.MarketID(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Account{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}
		return tx.Create(&acc).Error
	})
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// Authenticate checks email/password and returns the account on success.
// Unknown email and wrong password both map to ErrInvalidCredentials.
func (s *AccountStore) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var acc models.Account
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	} else if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &acc, nil
}

// GetByID fetches an account by identifier.
func (s *AccountStore) GetByID(ctx context.Context, id string) (*models.Account, error) {
	var acc models.Account
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&acc).Error; err != nil {
		return nil, err
	}
	return &acc, nil
}
