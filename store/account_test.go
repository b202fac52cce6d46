package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestAccountStore_CreateAndAuthenticate(t *testing.T) {
	db := requireDB(t)
	s := NewAccountStore(db)
	ctx := context.Background()

	email := fmt.Sprintf("%s@example.com", uniqueTestID("create"))
	acc, err := s.Create(ctx, email, "p@ssw0rd")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer db.Exec(`DELETE FROM accounts WHERE id = ?`, acc.ID)

	if acc.Email != email {
		t.Fatalf("email = %q", acc.Email)
	}
	if acc.PasswordHash == "p@ssw0rd" || acc.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}

	got, err := s.Authenticate(ctx, email, "p@ssw0rd")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != acc.ID {
		t.Fatalf("authenticated wrong account: %s", got.ID)
	}

	if _, err := s.Authenticate(ctx, email, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password should be ErrInvalidCredentials, got %v", err)
	}
	if _, err := s.Authenticate(ctx, "nobody@example.com", "p@ssw0rd"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email should be ErrInvalidCredentials, got %v", err)
	}
}

func TestAccountStore_EmailNormalizedAndUnique(t *testing.T) {
	db := requireDB(t)
	s := NewAccountStore(db)
	ctx := context.Background()

	base := uniqueTestID("uniq")
	acc, err := s.Create(ctx, fmt.Sprintf("  %s@Example.COM ", base), "p@ssw0rd")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer db.Exec(`DELETE FROM accounts WHERE id = ?`, acc.ID)

	want := fmt.Sprintf("%s@example.com", base)
	if acc.Email != want {
		t.Fatalf("email should be lowercased and trimmed, got %q", acc.Email)
	}

	if _, err := s.Create(ctx, want, "another-pw"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate email should be ErrEmailTaken, got %v", err)
	}

	// Case-insensitive lookup on authenticate.
	if _, err := s.Authenticate(ctx, fmt.Sprintf("%s@EXAMPLE.com", base), "p@ssw0rd"); err != nil {
		t.Fatalf("authenticate with different case: %v", err)
	}
}
