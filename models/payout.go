package models

import "time"

// PayoutStatus tracks settlement of vendor earnings.
type PayoutStatus string

const (
	PayoutPending PayoutStatus = "PENDING"
	PayoutPaid    PayoutStatus = "PAID"
)

// Payout is a settlement record for one vendor over a period.
type Payout struct {
	ID          string       `gorm:"column:id;primaryKey" json:"id"`
	VendorID    string       `gorm:"column:vendor_id;index" json:"vendor_id"`
	GrossCents  int64        `gorm:"column:gross_cents" json:"gross_cents"`
	FeeCents    int64        `gorm:"column:fee_cents" json:"fee_cents"`
	NetCents    int64        `gorm:"column:net_cents" json:"net_cents"`
	Status      PayoutStatus `gorm:"column:status;index" json:"status"`
	PeriodStart time.Time    `gorm:"column:period_start" json:"period_start"`
	PeriodEnd   time.Time    `gorm:"column:period_end" json:"period_end"`
	CreatedAt   time.Time    `gorm:"column:created_at" json:"created_at"`
}

func (Payout) TableName() string { return "payouts" }

// VendorEarnings is a per-vendor aggregate over delivered order items.
type VendorEarnings struct {
	VendorID   string `json:"vendor_id"`
	GrossCents int64  `json:"gross_cents"`
	ItemCount  int64  `json:"item_count"`
}

// CommissionFee computes the marketplace fee on a gross amount at the given
// rate in basis points, rounding down.
func CommissionFee(grossCents, rateBps int64) int64 {
	return grossCents * rateBps / 10000
}
