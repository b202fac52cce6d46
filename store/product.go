package store

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/vendra/marketplace/models"
)

// ProductStore provides vendor product CRUD and storefront reads.
type ProductStore struct{ DB *gorm.DB }

func NewProductStore(db *gorm.DB) *ProductStore { return &ProductStore{DB: db} }

// Create inserts a new product owned by vendorID, initially DRAFT unless a
// valid status is provided.
func (s *ProductStore) Create(ctx context.Context, p models.Product) (*models.Product, error) {
	if strings.TrimSpace(p.Name) == "" || p.VendorID == "" || p.PriceCents < 0 {
		return nil, gorm.ErrInvalidData
	}
	if p.Status == "" {
		p.Status = models.ProductDraft
	}
	p.ID = models.MarketID()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	if err := s.DB.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Update applies edits to a product owned by vendorID. Ownership is part of
// the predicate so a vendor can never touch another vendor's listing.
func (s *ProductStore) Update(ctx context.Context, vendorID, productID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC()
	res := s.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND vendor_id = ?", productID, vendorID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a product owned by vendorID.
func (s *ProductStore) Delete(ctx context.Context, vendorID, productID string) error {
	res := s.DB.WithContext(ctx).
		Where("id = ? AND vendor_id = ?", productID, vendorID).
		Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetByID fetches one product.
func (s *ProductStore) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPublished returns all published products for storefront browsing;
// filter/sort/paginate happens in models.ApplyProductQuery.
func (s *ProductStore) ListPublished(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	err := s.DB.WithContext(ctx).
		Where("status = ?", models.ProductPublished).
		Order("created_at DESC").Find(&out).Error
	return out, err
}

// ListByVendor returns all products for one vendor's back-office.
func (s *ProductStore) ListByVendor(ctx context.Context, vendorID string) ([]models.Product, error) {
	var out []models.Product
	err := s.DB.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("updated_at DESC").Find(&out).Error
	return out, err
}

// AdjustStock changes stock by delta inside a transaction, refusing to go
// negative.
func (s *ProductStore) AdjustStock(ctx context.Context, productID string, delta int) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stock int
		row := tx.Raw(`SELECT stock FROM products WHERE id = ? FOR UPDATE`, productID).Row()
		if err := row.Scan(&stock); err != nil {
			return err
		}
		if stock+delta < 0 {
			return ErrInsufficientStock
		}
		return tx.Exec(`UPDATE products SET stock = stock + ?, updated_at = ? WHERE id = ?`,
			delta, time.Now().UTC(), productID).Error
	})
}
