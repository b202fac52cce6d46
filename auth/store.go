package auth

import (
	"context"
	"log"
	"sync"

	"github.com/vendra/marketplace/models"
)

// Snapshot is the externally visible session/role state. Role is empty until
// a resolution has committed; consumers must not act on it while Resolving.
type Snapshot struct {
	Identity  *models.Identity
	Role      models.Role
	Resolving bool
}

// Authenticated reports whether an identity is present.
func (s Snapshot) Authenticated() bool { return s.Identity != nil }

// Store is the single source of truth for "who is the current user and what
// is their role". State is mutated only by its own transition handlers;
// consumers read snapshots and invoke the commands. Stale async results are
// discarded at apply-time via monotonic sequence numbers rather than by
// cancelling in-flight calls.
type Store struct {
	backend Backend
	logger  *log.Logger

	mu          sync.Mutex
	snap        Snapshot
	sessionSeq  uint64
	roleSeq     uint64
	subs        map[int]func(Snapshot)
	nextSubID   int
	unsubscribe func()
}

// NewStore constructs a Store in its initial state: no identity, no role,
// resolving until the bootstrap fetch settles. Call Start to begin.
func NewStore(backend Backend, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{
		backend: backend,
		logger:  logger,
		snap:    Snapshot{Resolving: true},
		subs:    make(map[int]func(Snapshot)),
	}
}

// Start subscribes to backend auth-state notifications and launches the
// bootstrap session fetch. Notifications arriving while the bootstrap fetch
// is still in flight win over its late result.
func (s *Store) Start(ctx context.Context) {
	unsub := s.backend.OnAuthStateChange(func(ev Event, id *models.Identity) {
		s.handleAuthEvent(ctx, ev, id)
	})
	s.mu.Lock()
	s.unsubscribe = unsub
	seq := s.sessionSeq
	s.mu.Unlock()
	go s.bootstrap(ctx, seq)
}

// Close unregisters the backend listener. The store itself lives for the
// process lifetime and is never reset.
func (s *Store) Close() {
	s.mu.Lock()
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// Snapshot returns the current state. The three fields are always from the
// same committed transition.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Subscribe registers fn to run after every committed transition, with the
// snapshot that transition produced. Returns an unsubscribe function.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// SignIn delegates the credential check to the backend. On failure the error
// propagates to the caller and no state changes; on success the backend's
// signed-in notification drives the identity transition and role resolution.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	if _, err := s.backend.SignInWithPassword(ctx, email, password); err != nil {
		return err
	}
	return nil
}

// SignUp delegates account creation to the backend. New accounts carry no
// role rows, so resolution yields customer.
func (s *Store) SignUp(ctx context.Context, email, password string) error {
	if _, err := s.backend.SignUp(ctx, email, password); err != nil {
		return err
	}
	return nil
}

// SignOut clears local state synchronously before the backend round trip so
// the snapshot reflects logged-out without waiting; the backend's async
// notification then confirms as a no-op.
func (s *Store) SignOut(ctx context.Context) error {
	s.mu.Lock()
	s.sessionSeq++
	s.roleSeq++
	changed, snap, subs := s.applyLocked(Snapshot{})
	s.mu.Unlock()
	if changed {
		notify(subs, snap)
	}
	return s.backend.SignOut(ctx)
}

// RefreshRole forces a fresh role resolution for the current identity,
// commits it if no newer request has superseded it, and returns the resolved
// role. A resolution failure defaults to customer rather than blocking; the
// error is returned alongside for the caller to log.
func (s *Store) RefreshRole(ctx context.Context) (models.Role, error) {
	s.mu.Lock()
	identity := s.snap.Identity
	if identity == nil {
		s.mu.Unlock()
		return "", ErrNotAuthenticated
	}
	s.roleSeq++
	roleSeq := s.roleSeq
	sessionSeq := s.sessionSeq
	changed, snap, subs := s.applyLocked(Snapshot{Identity: identity, Role: s.snap.Role, Resolving: true})
	s.mu.Unlock()
	if changed {
		notify(subs, snap)
	}
	role, err := s.queryRole(ctx, identity.ID)
	s.commitRole(identity, role, roleSeq, sessionSeq)
	return role, err
}

// bootstrap asks the backend for an existing session. A failed fetch is
// treated identically to no session: fail open to logged-out, never to a
// stuck loading state.
func (s *Store) bootstrap(ctx context.Context, seq uint64) {
	identity, err := s.backend.GetSession(ctx)
	if err != nil {
		s.logger.Printf("auth: session fetch failed, treating as signed out: %v", err)
		identity = nil
	}
	s.mu.Lock()
	if seq != s.sessionSeq {
		// A sign-in/sign-out event landed first; the bootstrap result is stale.
		s.mu.Unlock()
		return
	}
	if identity == nil {
		s.sessionSeq++
		changed, snap, subs := s.applyLocked(Snapshot{})
		s.mu.Unlock()
		if changed {
			notify(subs, snap)
		}
		return
	}
	s.sessionSeq++
	s.roleSeq++
	roleSeq := s.roleSeq
	sessionSeq := s.sessionSeq
	changed, snap, subs := s.applyLocked(Snapshot{Identity: identity, Resolving: true})
	s.mu.Unlock()
	if changed {
		notify(subs, snap)
	}
	go s.resolveRole(ctx, identity, roleSeq, sessionSeq)
}

// handleAuthEvent applies an asynchronous backend notification.
func (s *Store) handleAuthEvent(ctx context.Context, ev Event, identity *models.Identity) {
	s.mu.Lock()
	s.sessionSeq++
	s.roleSeq++
	switch ev {
	case EventSignedOut:
		changed, snap, subs := s.applyLocked(Snapshot{})
		s.mu.Unlock()
		if changed {
			notify(subs, snap)
		}
	case EventSignedIn:
		if identity == nil {
			s.mu.Unlock()
			return
		}
		roleSeq := s.roleSeq
		sessionSeq := s.sessionSeq
		changed, snap, subs := s.applyLocked(Snapshot{Identity: identity, Resolving: true})
		s.mu.Unlock()
		if changed {
			notify(subs, snap)
		}
		go s.resolveRole(ctx, identity, roleSeq, sessionSeq)
	default:
		s.mu.Unlock()
	}
}

// resolveRole runs the role query for identity and commits the result unless
// a newer session or role request has superseded it.
func (s *Store) resolveRole(ctx context.Context, identity *models.Identity, roleSeq, sessionSeq uint64) {
	role, err := s.queryRole(ctx, identity.ID)
	if err != nil {
		s.logger.Printf("auth: role resolution failed for %s, defaulting to customer: %v", identity.ID, err)
	}
	s.commitRole(identity, role, roleSeq, sessionSeq)
}

// queryRole fetches assignment rows and reduces them by precedence. On error
// the returned role is the customer default per the degraded-but-functional
// recovery rule.
func (s *Store) queryRole(ctx context.Context, identityID string) (models.Role, error) {
	rows, err := s.backend.RoleAssignments(ctx, identityID)
	if err != nil {
		return models.RoleCustomer, err
	}
	return models.ResolveRole(rows), nil
}

// commitRole applies a resolved role if it is still the latest request for
// the current identity. Superseded results are discarded without observable
// effect.
func (s *Store) commitRole(identity *models.Identity, role models.Role, roleSeq, sessionSeq uint64) {
	s.mu.Lock()
	if roleSeq != s.roleSeq || sessionSeq != s.sessionSeq {
		s.mu.Unlock()
		return
	}
	if s.snap.Identity == nil || s.snap.Identity.ID != identity.ID {
		s.mu.Unlock()
		return
	}
	changed, snap, subs := s.applyLocked(Snapshot{Identity: s.snap.Identity, Role: role, Resolving: false})
	s.mu.Unlock()
	if changed {
		notify(subs, snap)
	}
}

// applyLocked commits next as the current snapshot. Caller holds mu. Returns
// whether the state actually changed plus the data needed to notify after
// unlock, so subscribers never observe a partial update.
func (s *Store) applyLocked(next Snapshot) (bool, Snapshot, []func(Snapshot)) {
	if sameSnapshot(s.snap, next) {
		return false, next, nil
	}
	s.snap = next
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return true, next, subs
}

func sameSnapshot(a, b Snapshot) bool {
	if a.Resolving != b.Resolving || a.Role != b.Role {
		return false
	}
	switch {
	case a.Identity == nil && b.Identity == nil:
		return true
	case a.Identity == nil || b.Identity == nil:
		return false
	default:
		return a.Identity.ID == b.Identity.ID
	}
}

func notify(subs []func(Snapshot), snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}
