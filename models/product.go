package models

import (
	"sort"
	"strings"
	"time"
)

// ProductStatus tracks moderation/visibility of a product.
type ProductStatus string

const (
	ProductDraft     ProductStatus = "DRAFT"
	ProductPublished ProductStatus = "PUBLISHED"
	ProductArchived  ProductStatus = "ARCHIVED"
)

// Product is a vendor-owned listing. PriceCents avoids float money math.
type Product struct {
	ID          string        `gorm:"column:id;primaryKey" json:"id"`
	VendorID    string        `gorm:"column:vendor_id;index" json:"vendor_id"`
	Name        string        `gorm:"column:name" json:"name"`
	Description string        `gorm:"column:description" json:"description"`
	Category    string        `gorm:"column:category;index" json:"category"`
	PriceCents  int64         `gorm:"column:price_cents" json:"price_cents"`
	Stock       int           `gorm:"column:stock" json:"stock"`
	Status      ProductStatus `gorm:"column:status;index" json:"status"`
	CreatedAt   time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"column:updated_at" json:"updated_at"`
}

func (Product) TableName() string { return "products" }

// ProductQuery describes a storefront listing request: filter, sort, paginate.
type ProductQuery struct {
	Search   string
	Category string
	MaxPrice int64  // 0 = no cap
	SortBy   string // "price", "name", "newest" (default)
	Page     int    // 1-based
	PerPage  int
}

// ProductPage is one page of listing results.
type ProductPage struct {
	Items   []Product `json:"items"`
	Total   int       `json:"total"`
	Page    int       `json:"page"`
	PerPage int       `json:"per_page"`
}

// ApplyProductQuery runs the single-pass filter, then sort and paginate, over
// an in-memory product slice. Only PUBLISHED products are visible.
func ApplyProductQuery(products []Product, q ProductQuery) ProductPage {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	filtered := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Status != ProductPublished {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if q.MaxPrice > 0 && p.PriceCents > q.MaxPrice {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		filtered = append(filtered, p)
	}

	switch q.SortBy {
	case "price":
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].PriceCents < filtered[j].PriceCents })
	case "name":
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Name < filtered[j].Name })
	default:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].CreatedAt.After(filtered[j].CreatedAt) })
	}

	perPage := q.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * perPage
	end := start + perPage
	total := len(filtered)
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return ProductPage{Items: filtered[start:end], Total: total, Page: page, PerPage: perPage}
}
