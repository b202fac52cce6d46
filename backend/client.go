package backend

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vendra/marketplace/auth"
	"github.com/vendra/marketplace/models"
	"github.com/vendra/marketplace/store"
)

// Client implements auth.Backend on top of the marketplace's own stores:
// gorm-backed accounts and role assignments, plus a session store (Valkey in
// production, buntdb in-memory for dev). Session tokens are HS256 JWTs; the
// session store keeps the authoritative server-side record.
type Client struct {
	accounts *store.AccountStore
	roles    *store.RoleAssignmentStore
	sessions store.SessionStore
	secret   []byte
	ttl      time.Duration
	logger   *log.Logger

	mu        sync.Mutex
	current   *models.Session
	listeners map[int]func(auth.Event, *models.Identity)
	nextID    int
}

// Options groups the Client dependencies.
type Options struct {
	Accounts   *store.AccountStore
	Roles      *store.RoleAssignmentStore
	Sessions   store.SessionStore
	JWTSecret  []byte
	SessionTTL time.Duration
	Logger     *log.Logger
}

// New constructs a Client.
func New(opts Options) *Client {
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		accounts:  opts.Accounts,
		roles:     opts.Roles,
		sessions:  opts.Sessions,
		secret:    opts.JWTSecret,
		ttl:       ttl,
		logger:    logger,
		listeners: make(map[int]func(auth.Event, *models.Identity)),
	}
}

// SignInWithPassword checks credentials, persists a fresh session and emits a
// signed-in notification.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*models.Identity, error) {
	acc, err := c.accounts.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			return nil, &auth.AuthenticationError{Reason: "invalid credentials", Err: err}
		}
		return nil, fmt.Errorf("sign in: %w", err)
	}
	return c.openSession(ctx, acc.Identity())
}

// SignUp creates the account and signs it in. New accounts carry no role
// rows, so role resolution yields customer.
func (c *Client) SignUp(ctx context.Context, email, password string) (*models.Identity, error) {
	acc, err := c.accounts.Create(ctx, email, password)
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return nil, &auth.AuthenticationError{Reason: "email already registered", Err: err}
		}
		return nil, fmt.Errorf("sign up: %w", err)
	}
	return c.openSession(ctx, acc.Identity())
}

// SignOut destroys the current session and emits a signed-out notification.
// Safe to call with no session.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	sess := c.current
	c.current = nil
	c.mu.Unlock()
	if sess != nil {
		if err := c.sessions.Delete(ctx, sess.Token); err != nil {
			c.logger.Printf("backend: delete session: %v", err)
		}
	}
	c.emit(auth.EventSignedOut, nil)
	return nil
}

// GetSession returns the current identity, or (nil, nil) when signed out.
// The persisted record is re-checked so revocation elsewhere is honored.
func (c *Client) GetSession(ctx context.Context) (*models.Identity, error) {
	c.mu.Lock()
	sess := c.current
	c.mu.Unlock()
	if sess == nil {
		return nil, nil
	}
	stored, err := c.sessions.Get(ctx, sess.Token)
	if errors.Is(err, store.ErrSessionNotFound) {
		c.mu.Lock()
		c.current = nil
		c.mu.Unlock()
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	id := stored.Identity
	return &id, nil
}

// Restore adopts an existing session token (e.g. from a browser cookie) as
// the current session. Invalid or expired tokens leave the client signed out.
func (c *Client) Restore(ctx context.Context, token string) error {
	if _, err := c.verifyToken(token); err != nil {
		return err
	}
	sess, err := c.sessions.Get(ctx, token)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.current = sess
	c.mu.Unlock()
	return nil
}

// OnAuthStateChange registers fn for sign-in/sign-out notifications.
func (c *Client) OnAuthStateChange(fn func(auth.Event, *models.Identity)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// RoleAssignments reads the role rows for an identity.
func (c *Client) RoleAssignments(ctx context.Context, identityID string) ([]models.RoleAssignment, error) {
	return c.roles.ListForIdentity(ctx, identityID)
}

// Token returns the current session token, or "" when signed out.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return ""
	}
	return c.current.Token
}

func (c *Client) openSession(ctx context.Context, identity models.Identity) (*models.Identity, error) {
	now := time.Now().UTC()
	expires := now.Add(c.ttl)
	token, err := c.signToken(identity, now, expires)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	sess := models.Session{Token: token, Identity: identity, IssuedAt: now, ExpiresAt: expires}
	if err := c.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	c.mu.Lock()
	c.current = &sess
	c.mu.Unlock()
	c.emit(auth.EventSignedIn, &identity)
	return &identity, nil
}

func (c *Client) signToken(identity models.Identity, issued, expires time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":   identity.ID,
		"email": identity.Email,
		"iat":   issued.Unix(),
		"exp":   expires.Unix(),
		"jti":   models.MarketID(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

func (c *Client) verifyToken(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("invalid session token: %w", err)
	}
	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		return "", err
	}
	return sub, nil
}

// emit calls listeners outside the lock so a listener can call back into the
// client without deadlocking.
func (c *Client) emit(ev auth.Event, identity *models.Identity) {
	c.mu.Lock()
	fns := make([]func(auth.Event, *models.Identity), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn(ev, identity)
	}
}
