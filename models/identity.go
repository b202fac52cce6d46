package models

import "time"

// Identity represents an authenticated principal. Issued-at/expiry metadata is
// owned by the session layer; this struct only observes it.
type Identity struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the persisted record for an authenticated identity. Token is the
// opaque value handed to the browser; the store keys sessions by its hash.
type Session struct {
	Token     string    `json:"token"`
	Identity  Identity  `json:"identity"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
