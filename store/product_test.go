package store

import (
	"context"
	"errors"
	"testing"

	"github.com/vendra/marketplace/models"
)

func TestProductStore_AdjustStock(t *testing.T) {
	db := requireDB(t)
	products := NewProductStore(db)
	ctx := context.Background()

	vendorID := uniqueTestID("vendor")
	defer db.Exec(`DELETE FROM products WHERE vendor_id = ?`, vendorID)

	p, err := products.Create(ctx, models.Product{
		VendorID:   vendorID,
		Name:       "Pine Stool",
		PriceCents: 1500,
		Stock:      2,
		Status:     models.ProductPublished,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	if err := products.AdjustStock(ctx, p.ID, -1); err != nil {
		t.Fatalf("adjust down: %v", err)
	}
	if err := products.AdjustStock(ctx, p.ID, -5); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("negative stock must be refused, got %v", err)
	}
	if err := products.AdjustStock(ctx, p.ID, 3); err != nil {
		t.Fatalf("restock: %v", err)
	}

	got, err := products.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if got.Stock != 4 {
		t.Fatalf("expected stock 4 after adjustments, got %d", got.Stock)
	}
}
