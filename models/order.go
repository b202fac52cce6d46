package models

import "time"

// OrderStatus tracks fulfilment of an order.
type OrderStatus string

const (
	OrderPlaced    OrderStatus = "PLACED"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// Order is a placed checkout. Commission is captured at order time so later
// rate changes do not rewrite history.
type Order struct {
	ID              string      `gorm:"column:id;primaryKey" json:"id"`
	CustomerID      string      `gorm:"column:customer_id;index" json:"customer_id"`
	SubtotalCents   int64       `gorm:"column:subtotal_cents" json:"subtotal_cents"`
	CommissionCents int64       `gorm:"column:commission_cents" json:"commission_cents"`
	Status          OrderStatus `gorm:"column:status;index" json:"status"`
	CreatedAt       time.Time   `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"column:updated_at" json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is one product line of an order, denormalized for history.
type OrderItem struct {
	ID         string `gorm:"column:id;primaryKey" json:"id"`
	OrderID    string `gorm:"column:order_id;index" json:"order_id"`
	ProductID  string `gorm:"column:product_id;index" json:"product_id"`
	VendorID   string `gorm:"column:vendor_id;index" json:"vendor_id"`
	Name       string `gorm:"column:name" json:"name"`
	PriceCents int64  `gorm:"column:price_cents" json:"price_cents"`
	Quantity   int    `gorm:"column:quantity" json:"quantity"`
}

func (OrderItem) TableName() string { return "order_items" }

// NextStatuses returns the allowed transitions from a status.
func (s OrderStatus) NextStatuses() []OrderStatus {
	switch s {
	case OrderPlaced:
		return []OrderStatus{OrderShipped, OrderCancelled}
	case OrderShipped:
		return []OrderStatus{OrderDelivered}
	default:
		return nil
	}
}

// CanTransition reports whether s -> next is an allowed move.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, n := range s.NextStatuses() {
		if n == next {
			return true
		}
	}
	return false
}
