package auth

import (
	"context"

	"github.com/vendra/marketplace/models"
)

// Event is an auth-state change notification kind.
type Event string

const (
	EventSignedIn  Event = "SIGNED_IN"
	EventSignedOut Event = "SIGNED_OUT"
)

// Backend is the boundary to the service that owns identities, sessions and
// role assignments. GetSession returns (nil, nil) when no session exists.
// OnAuthStateChange registers a listener for asynchronous sign-in/sign-out
// events (other tab, token refresh, explicit call) and returns an unsubscribe
// function.
type Backend interface {
	SignInWithPassword(ctx context.Context, email, password string) (*models.Identity, error)
	SignUp(ctx context.Context, email, password string) (*models.Identity, error)
	SignOut(ctx context.Context) error
	GetSession(ctx context.Context) (*models.Identity, error)
	OnAuthStateChange(fn func(event Event, identity *models.Identity)) (unsubscribe func())
	RoleAssignments(ctx context.Context, identityID string) ([]models.RoleAssignment, error)
}
