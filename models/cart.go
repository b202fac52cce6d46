package models

// CartItem is one line in a shopping cart. Price is captured at add time so
// totals stay stable if the vendor edits the listing mid-session.
type CartItem struct {
	ProductID  string `json:"product_id"`
	VendorID   string `json:"vendor_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
}

// Cart is the session-scoped shopping cart.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Upsert adds quantity for an existing product line or appends a new one.
func (c *Cart) Upsert(item CartItem) {
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// Remove drops a product line; unknown IDs are a no-op.
func (c *Cart) Remove(productID string) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// SubtotalCents sums price*quantity across all lines.
func (c Cart) SubtotalCents() int64 {
	var total int64
	for _, it := range c.Items {
		total += it.PriceCents * int64(it.Quantity)
	}
	return total
}

// CartTotals is the checkout summary: marketplace commission is taken from the
// subtotal, the remainder is owed to vendors.
type CartTotals struct {
	SubtotalCents   int64 `json:"subtotal_cents"`
	CommissionCents int64 `json:"commission_cents"`
	VendorNetCents  int64 `json:"vendor_net_cents"`
}

// Totals computes the checkout summary at the given commission rate in basis
// points (e.g. 1000 = 10%). Commission rounds down per the settlement rules.
func (c Cart) Totals(commissionBps int64) CartTotals {
	sub := c.SubtotalCents()
	fee := sub * commissionBps / 10000
	return CartTotals{SubtotalCents: sub, CommissionCents: fee, VendorNetCents: sub - fee}
}
