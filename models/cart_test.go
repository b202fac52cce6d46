package models

import "testing"

func TestCartUpsertAndRemove(t *testing.T) {
	var c Cart
	c.Upsert(CartItem{ProductID: "p1", PriceCents: 500, Quantity: 1})
	c.Upsert(CartItem{ProductID: "p2", PriceCents: 300, Quantity: 2})
	c.Upsert(CartItem{ProductID: "p1", PriceCents: 500, Quantity: 3})

	if len(c.Items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(c.Items))
	}
	if c.Items[0].Quantity != 4 {
		t.Fatalf("upsert should merge quantities, got %d", c.Items[0].Quantity)
	}

	c.Remove("p2")
	if len(c.Items) != 1 || c.Items[0].ProductID != "p1" {
		t.Fatalf("remove failed: %+v", c.Items)
	}
	c.Remove("missing") // no-op
	if len(c.Items) != 1 {
		t.Fatalf("removing an unknown line should be a no-op")
	}
}

func TestCartTotals(t *testing.T) {
	c := Cart{Items: []CartItem{
		{ProductID: "p1", PriceCents: 333, Quantity: 3}, // 999
		{ProductID: "p2", PriceCents: 1, Quantity: 1},   // 1
	}}
	tt := c.Totals(1000) // 10%
	if tt.SubtotalCents != 1000 {
		t.Fatalf("subtotal = %d", tt.SubtotalCents)
	}
	if tt.CommissionCents != 100 {
		t.Fatalf("commission = %d", tt.CommissionCents)
	}
	if tt.VendorNetCents != 900 {
		t.Fatalf("vendor net = %d", tt.VendorNetCents)
	}
}

func TestCartTotalsRoundsDown(t *testing.T) {
	c := Cart{Items: []CartItem{{ProductID: "p1", PriceCents: 999, Quantity: 1}}}
	tt := c.Totals(1000)
	if tt.CommissionCents != 99 {
		t.Fatalf("commission must round down, got %d", tt.CommissionCents)
	}
	if tt.VendorNetCents != 900 {
		t.Fatalf("vendor net = %d", tt.VendorNetCents)
	}
}

func TestCartTotalsEmpty(t *testing.T) {
	var c Cart
	tt := c.Totals(1000)
	if tt.SubtotalCents != 0 || tt.CommissionCents != 0 || tt.VendorNetCents != 0 {
		t.Fatalf("empty cart totals should all be zero: %+v", tt)
	}
}
