package store

import (
	"context"
	"errors"

	"github.com/vendra/marketplace/models"
)

// ErrSessionNotFound is returned when a token resolves to no live session.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists authenticated sessions keyed by token.
type SessionStore interface {
	Save(ctx context.Context, s models.Session) error
	Get(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
}

// CartStore persists session-scoped shopping carts.
type CartStore interface {
	Get(ctx context.Context, key string) (models.Cart, error)
	Save(ctx context.Context, key string, cart models.Cart) error
	Delete(ctx context.Context, key string) error
}
