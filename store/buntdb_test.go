package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vendra/marketplace/models"
)

func newTestBuntStore(t *testing.T) *BuntStore {
	t.Helper()
	bs, err := NewBuntStore(time.Hour)
	if err != nil {
		t.Fatalf("open buntdb: %v", err)
	}
	t.Cleanup(func() { _ = bs.Close() })
	return bs
}

func TestBuntStore_SessionRoundTrip(t *testing.T) {
	bs := newTestBuntStore(t)
	ctx := context.Background()

	sess := models.Session{
		Token:     "tok-1",
		Identity:  models.Identity{ID: "acct-1", Email: "c@example.com"},
		IssuedAt:  time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	if err := bs.Save(ctx, sess); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := bs.Get(ctx, "tok-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Identity.ID != "acct-1" || got.Identity.Email != "c@example.com" {
		t.Fatalf("identity mangled: %+v", got.Identity)
	}

	if _, err := bs.Get(ctx, "unknown-token"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("unknown token should be ErrSessionNotFound, got %v", err)
	}
}

func TestBuntStore_DeleteIsIdempotent(t *testing.T) {
	bs := newTestBuntStore(t)
	ctx := context.Background()

	sess := models.Session{Token: "tok-1", Identity: models.Identity{ID: "acct-1"}, ExpiresAt: time.Now().Add(time.Hour)}
	if err := bs.Save(ctx, sess); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := bs.Delete(ctx, "tok-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := bs.Delete(ctx, "tok-1"); err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}
	if _, err := bs.Get(ctx, "tok-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("deleted session should be gone, got %v", err)
	}
}

func TestBuntStore_ExpiredSessionIsNotFound(t *testing.T) {
	bs := newTestBuntStore(t)
	ctx := context.Background()

	sess := models.Session{
		Token:     "tok-1",
		Identity:  models.Identity{ID: "acct-1"},
		IssuedAt:  time.Now().UTC().Add(-2 * time.Hour),
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}
	// Save skips straight to a past deadline; Get must treat it as gone.
	_ = bs.Save(ctx, sess)
	if _, err := bs.Get(ctx, "tok-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expired session should be ErrSessionNotFound, got %v", err)
	}
}

func TestBuntCartStore_RoundTrip(t *testing.T) {
	bs := newTestBuntStore(t)
	cs := NewBuntCartStore(bs)
	ctx := context.Background()

	cart, err := cs.Get(ctx, "acct-1")
	if err != nil {
		t.Fatalf("get empty: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("missing cart should be empty, got %+v", cart)
	}

	cart.Upsert(models.CartItem{ProductID: "p1", PriceCents: 500, Quantity: 2})
	if err := cs.Save(ctx, "acct-1", cart); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := cs.Get(ctx, "acct-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].Quantity != 2 {
		t.Fatalf("cart mangled: %+v", got)
	}

	if err := cs.Delete(ctx, "acct-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ = cs.Get(ctx, "acct-1")
	if len(got.Items) != 0 {
		t.Fatalf("deleted cart should be empty, got %+v", got)
	}
}
