package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/vendra/marketplace/models"
)

// PayoutStore aggregates vendor earnings from delivered orders and records
// settlement rows.
type PayoutStore struct{ DB *gorm.DB }

func NewPayoutStore(db *gorm.DB) *PayoutStore { return &PayoutStore{DB: db} }

// VendorEarnings sums gross item revenue per vendor over delivered orders in
// [periodStart, periodEnd).
func (s *PayoutStore) VendorEarnings(ctx context.Context, periodStart, periodEnd time.Time) ([]models.VendorEarnings, error) {
	var out []models.VendorEarnings
	err := s.DB.WithContext(ctx).Raw(`
		SELECT oi.vendor_id AS vendor_id,
		       SUM(oi.price_cents * oi.quantity) AS gross_cents,
		       COUNT(oi.id) AS item_count
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.status = ? AND o.created_at >= ? AND o.created_at < ?
		GROUP BY oi.vendor_id
		ORDER BY gross_cents DESC`,
		models.OrderDelivered, periodStart, periodEnd).Scan(&out).Error
	return out, err
}

// CreateForPeriod materializes pending payout rows for every vendor with
// earnings in the period, applying the commission rate in basis points.
func (s *PayoutStore) CreateForPeriod(ctx context.Context, periodStart, periodEnd time.Time, rateBps int64) ([]models.Payout, error) {
	earnings, err := s.VendorEarnings(ctx, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	payouts := make([]models.Payout, 0, len(earnings))
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range earnings {
			fee := models.CommissionFee(e.GrossCents, rateBps)
			p := models.Payout{
				ID:          models.MarketID(),
				VendorID:    e.VendorID,
				GrossCents:  e.GrossCents,
				FeeCents:    fee,
				NetCents:    e.GrossCents - fee,
				Status:      models.PayoutPending,
				PeriodStart: periodStart,
				PeriodEnd:   periodEnd,
				CreatedAt:   time.Now().UTC(),
			}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
			payouts = append(payouts, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payouts, nil
}

// MarkPaid flips a payout to PAID.
func (s *PayoutStore) MarkPaid(ctx context.Context, payoutID string) error {
	res := s.DB.WithContext(ctx).Model(&models.Payout{}).
		Where("id = ? AND status = ?", payoutID, models.PayoutPending).
		Update("status", models.PayoutPaid)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListForVendor returns a vendor's settlement history.
func (s *PayoutStore) ListForVendor(ctx context.Context, vendorID string) ([]models.Payout, error) {
	var out []models.Payout
	err := s.DB.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("period_start DESC").Find(&out).Error
	return out, err
}
