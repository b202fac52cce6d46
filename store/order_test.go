package store

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/vendra/marketplace/models"
)

func TestOrderStore_EmptyCartRefused(t *testing.T) {
	orders := NewOrderStore(nil)
	if _, err := orders.CreateFromCart(context.Background(), "cust", models.Cart{}, 1000); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestOrderStore_CheckoutAndVendorScope(t *testing.T) {
	db := requireDB(t)
	products := NewProductStore(db)
	orders := NewOrderStore(db)
	ctx := context.Background()

	vendorID := uniqueTestID("vendor")
	customerID := uniqueTestID("customer")
	defer db.Exec(`DELETE FROM orders WHERE customer_id = ?`, customerID)
	defer db.Exec(`DELETE FROM order_items WHERE order_id IN (SELECT id FROM orders WHERE customer_id = ?)`, customerID)
	defer db.Exec(`DELETE FROM products WHERE vendor_id = ?`, vendorID)

	p, err := products.Create(ctx, models.Product{
		VendorID:   vendorID,
		Name:       "Oak Shelf",
		PriceCents: 2000,
		Stock:      5,
		Status:     models.ProductPublished,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	cart := models.Cart{Items: []models.CartItem{{
		ProductID:  p.ID,
		VendorID:   vendorID,
		Name:       p.Name,
		PriceCents: p.PriceCents,
		Quantity:   2,
	}}}
	order, err := orders.CreateFromCart(ctx, customerID, cart, 1000)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if order.Status != models.OrderPlaced || order.SubtotalCents != 4000 || order.CommissionCents != 400 {
		t.Fatalf("unexpected order: %+v", order)
	}

	after, err := products.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if after.Stock != 3 {
		t.Fatalf("checkout must decrement stock, got %d", after.Stock)
	}

	items, err := orders.Items(ctx, order.ID)
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != 1 || items[0].ProductID != p.ID || items[0].Quantity != 2 {
		t.Fatalf("unexpected items: %+v", items)
	}

	// The customer sees only their own orders.
	if _, err := orders.GetForCustomer(ctx, customerID, order.ID); err != nil {
		t.Fatalf("get for customer: %v", err)
	}
	if _, err := orders.GetForCustomer(ctx, uniqueTestID("stranger"), order.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("another customer's order must read as not found, got %v", err)
	}

	// A vendor with no items in the order cannot move it.
	otherVendor := uniqueTestID("vendor")
	if err := orders.UpdateStatus(ctx, order.ID, otherVendor, models.OrderShipped); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("foreign vendor must not see the order, got %v", err)
	}
	got, err := orders.GetForCustomer(ctx, customerID, order.ID)
	if err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if got.Status != models.OrderPlaced {
		t.Fatalf("foreign vendor update must not change status, got %q", got.Status)
	}

	// The owning vendor ships it; illegal transitions are still refused.
	if err := orders.UpdateStatus(ctx, order.ID, vendorID, models.OrderShipped); err != nil {
		t.Fatalf("ship: %v", err)
	}
	if err := orders.UpdateStatus(ctx, order.ID, vendorID, models.OrderCancelled); !errors.Is(err, ErrBadTransition) {
		t.Fatalf("shipped orders cannot be cancelled, got %v", err)
	}

	vendorOrders, err := orders.ListForVendor(ctx, vendorID)
	if err != nil {
		t.Fatalf("list for vendor: %v", err)
	}
	found := false
	for _, o := range vendorOrders {
		if o.ID == order.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("vendor listing missing order %s", order.ID)
	}
}

func TestOrderStore_InsufficientStock(t *testing.T) {
	db := requireDB(t)
	products := NewProductStore(db)
	orders := NewOrderStore(db)
	ctx := context.Background()

	vendorID := uniqueTestID("vendor")
	customerID := uniqueTestID("customer")
	defer db.Exec(`DELETE FROM products WHERE vendor_id = ?`, vendorID)

	p, err := products.Create(ctx, models.Product{
		VendorID:   vendorID,
		Name:       "Last One",
		PriceCents: 500,
		Stock:      1,
		Status:     models.ProductPublished,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	cart := models.Cart{Items: []models.CartItem{{
		ProductID: p.ID, VendorID: vendorID, Name: p.Name, PriceCents: 500, Quantity: 2,
	}}}
	if _, err := orders.CreateFromCart(ctx, customerID, cart, 1000); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	after, err := products.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if after.Stock != 1 {
		t.Fatalf("failed checkout must leave stock untouched, got %d", after.Stock)
	}
}
