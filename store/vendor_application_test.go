package store

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/vendra/marketplace/models"
)

func TestVendorApplicationStore_SubmitAndApprove(t *testing.T) {
	db := requireDB(t)
	apps := NewVendorApplicationStore(db)
	roles := NewRoleAssignmentStore(db)
	ctx := context.Background()

	identityID := uniqueTestID("applicant")
	reviewerID := uniqueTestID("reviewer")
	defer db.Exec(`DELETE FROM vendor_applications WHERE identity_id = ?`, identityID)
	defer db.Exec(`DELETE FROM role_assignments WHERE identity_id = ?`, identityID)

	app, err := apps.Submit(ctx, identityID, "  Maple Goods  ", "handmade things")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if app.ShopName != "Maple Goods" {
		t.Fatalf("shop name should be trimmed, got %q", app.ShopName)
	}
	if app.Status != models.ApplicationPending {
		t.Fatalf("new application must be pending, got %q", app.Status)
	}

	// A second open application for the same identity is refused.
	if _, err := apps.Submit(ctx, identityID, "Second Shop", ""); !errors.Is(err, gorm.ErrInvalidData) {
		t.Fatalf("second pending application should be refused, got %v", err)
	}

	if err := apps.Approve(ctx, app.ID, reviewerID, "looks good"); err != nil {
		t.Fatalf("approve: %v", err)
	}

	// Approval grants the vendor role in the same transaction.
	rows, err := roles.ListForIdentity(ctx, identityID)
	if err != nil {
		t.Fatalf("list roles: %v", err)
	}
	if got := models.ResolveRole(rows); got != models.RoleVendor {
		t.Fatalf("approval must grant vendor, resolved %q", got)
	}

	got, err := apps.GetForIdentity(ctx, identityID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Status != models.ApplicationApproved || got.ReviewedBy == nil || *got.ReviewedBy != reviewerID {
		t.Fatalf("application not updated: %+v", got)
	}

	// A settled application cannot be re-reviewed.
	if err := apps.Reject(ctx, app.ID, reviewerID, "changed my mind"); !errors.Is(err, ErrApplicationClosed) {
		t.Fatalf("re-review should be ErrApplicationClosed, got %v", err)
	}
}

func TestVendorApplicationStore_Reject(t *testing.T) {
	db := requireDB(t)
	apps := NewVendorApplicationStore(db)
	roles := NewRoleAssignmentStore(db)
	ctx := context.Background()

	identityID := uniqueTestID("rejectee")
	defer db.Exec(`DELETE FROM vendor_applications WHERE identity_id = ?`, identityID)

	app, err := apps.Submit(ctx, identityID, "No Luck Shop", "")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := apps.Reject(ctx, app.ID, uniqueTestID("reviewer"), "incomplete"); err != nil {
		t.Fatalf("reject: %v", err)
	}

	rows, _ := roles.ListForIdentity(ctx, identityID)
	if got := models.ResolveRole(rows); got != models.RoleCustomer {
		t.Fatalf("rejection must not grant anything, resolved %q", got)
	}

	// Rejection clears the way for a fresh application.
	if _, err := apps.Submit(ctx, identityID, "Try Again", ""); err != nil {
		t.Fatalf("resubmit after rejection: %v", err)
	}
}

func TestVendorApplicationStore_GetForIdentityMissing(t *testing.T) {
	db := requireDB(t)
	apps := NewVendorApplicationStore(db)
	app, err := apps.GetForIdentity(context.Background(), uniqueTestID("nobody"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if app != nil {
		t.Fatalf("expected nil for unknown identity, got %+v", app)
	}
}
