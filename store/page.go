package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/vendra/marketplace/models"
)

// PageStore manages admin-edited CMS pages.
type PageStore struct{ DB *gorm.DB }

func NewPageStore(db *gorm.DB) *PageStore { return &PageStore{DB: db} }

// Upsert creates or replaces a page by slug.
func (s *PageStore) Upsert(ctx context.Context, page models.Page) error {
	page.Slug = strings.ToLower(strings.TrimSpace(page.Slug))
	if page.Slug == "" || strings.TrimSpace(page.Title) == "" {
		return gorm.ErrInvalidData
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Page
		err := tx.Where("slug = ?", page.Slug).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			page.CreatedAt = time.Now().UTC()
			page.UpdatedAt = page.CreatedAt
			return tx.Create(&page).Error
		} else if err != nil {
			return err
		}
		return tx.Model(&models.Page{}).Where("slug = ?", page.Slug).
			Updates(map[string]interface{}{
				"title":      page.Title,
				"body":       page.Body,
				"published":  page.Published,
				"updated_by": page.UpdatedBy,
				"updated_at": time.Now().UTC(),
			}).Error
	})
}

// GetPublished returns a published page by slug, or nil.
func (s *PageStore) GetPublished(ctx context.Context, slug string) (*models.Page, error) {
	var page models.Page
	err := s.DB.WithContext(ctx).
		Where("slug = ? AND published = ?", strings.ToLower(slug), true).
		First(&page).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return &page, nil
}

// List returns all pages for the admin console.
func (s *PageStore) List(ctx context.Context) ([]models.Page, error) {
	var out []models.Page
	err := s.DB.WithContext(ctx).Order("slug ASC").Find(&out).Error
	return out, err
}

// Delete removes a page by slug.
func (s *PageStore) Delete(ctx context.Context, slug string) error {
	return s.DB.WithContext(ctx).Where("slug = ?", strings.ToLower(slug)).Delete(&models.Page{}).Error
}
