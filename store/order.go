package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/vendra/marketplace/models"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrBadTransition     = errors.New("order status transition not allowed")
)

// OrderStore creates and queries orders for customers and vendors.
type OrderStore struct{ DB *gorm.DB }

func NewOrderStore(db *gorm.DB) *OrderStore { return &OrderStore{DB: db} }

// CreateFromCart turns a cart into an order transactionally: stock is
// decremented per line, the order and its items are inserted together.
// Commission is captured at the given rate in basis points.
func (s *OrderStore) CreateFromCart(ctx context.Context, customerID string, cart models.Cart, commissionBps int64) (*models.Order, error) {
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}
	totals := cart.Totals(commissionBps)
	order := models.Order{
		ID:              models.MarketID(),
		CustomerID:      customerID,
		SubtotalCents:   totals.SubtotalCents,
		CommissionCents: totals.CommissionCents,
		Status:          models.OrderPlaced,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, it := range cart.Items {
			res := tx.Exec(`UPDATE products SET stock = stock - ?, updated_at = ? WHERE id = ? AND stock >= ?`,
				it.Quantity, time.Now().UTC(), it.ProductID, it.Quantity)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientStock
			}
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for _, it := range cart.Items {
			item := models.OrderItem{
				ID:         models.MarketID(),
				OrderID:    order.ID,
				ProductID:  it.ProductID,
				VendorID:   it.VendorID,
				Name:       it.Name,
				PriceCents: it.PriceCents,
				Quantity:   it.Quantity,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListForCustomer returns a customer's orders, newest first.
func (s *OrderStore) ListForCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	var out []models.Order
	err := s.DB.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").Find(&out).Error
	return out, err
}

// ListForVendor returns orders containing at least one of the vendor's items.
func (s *OrderStore) ListForVendor(ctx context.Context, vendorID string) ([]models.Order, error) {
	var out []models.Order
	err := s.DB.WithContext(ctx).
		Raw(`SELECT DISTINCT o.* FROM orders o
		     JOIN order_items oi ON oi.order_id = o.id
		     WHERE oi.vendor_id = ? ORDER BY o.created_at DESC`, vendorID).
		Scan(&out).Error
	return out, err
}

// GetForCustomer fetches one of the customer's own orders.
func (s *OrderStore) GetForCustomer(ctx context.Context, customerID, orderID string) (*models.Order, error) {
	var o models.Order
	err := s.DB.WithContext(ctx).
		Where("id = ? AND customer_id = ?", orderID, customerID).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Items returns the item lines of an order.
func (s *OrderStore) Items(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	var out []models.OrderItem
	err := s.DB.WithContext(ctx).Where("order_id = ?", orderID).Find(&out).Error
	return out, err
}

// UpdateStatus moves an order along the allowed transitions. The order must
// contain at least one of vendorID's items; anything else reads as not found,
// same as the ownership predicate on product writes.
func (s *OrderStore) UpdateStatus(ctx context.Context, orderID, vendorID string, next models.OrderStatus) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o models.Order
		err := tx.Where(`id = ? AND EXISTS (
			SELECT 1 FROM order_items WHERE order_id = ? AND vendor_id = ?)`,
			orderID, orderID, vendorID).First(&o).Error
		if err != nil {
			return err
		}
		if !o.Status.CanTransition(next) {
			return ErrBadTransition
		}
		return tx.Model(&models.Order{}).Where("id = ?", orderID).
			Updates(map[string]interface{}{"status": next, "updated_at": time.Now().UTC()}).Error
	})
}
