package models

import "time"

// Page is an admin-managed CMS content page, fetched publicly by slug.
type Page struct {
	Slug      string    `gorm:"column:slug;primaryKey" json:"slug"`
	Title     string    `gorm:"column:title" json:"title"`
	Body      string    `gorm:"column:body" json:"body"`
	Published bool      `gorm:"column:published" json:"published"`
	UpdatedBy string    `gorm:"column:updated_by" json:"updated_by"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Page) TableName() string { return "pages" }
