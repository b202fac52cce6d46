package models

import "time"

// ApplicationStatus tracks the review state of a vendor application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationApproved ApplicationStatus = "APPROVED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

// VendorApplication is a request from a customer to become a vendor.
// Approval grants the vendor role assignment in the same transaction.
type VendorApplication struct {
	ID          string            `gorm:"column:id;primaryKey" json:"id"`
	IdentityID  string            `gorm:"column:identity_id;index" json:"identity_id"`
	ShopName    string            `gorm:"column:shop_name" json:"shop_name"`
	Description string            `gorm:"column:description" json:"description"`
	Status      ApplicationStatus `gorm:"column:status;index" json:"status"`
	ReviewedBy  *string           `gorm:"column:reviewed_by" json:"reviewed_by,omitempty"`
	ReviewNote  string            `gorm:"column:review_note" json:"review_note"`
	CreatedAt   time.Time         `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"column:updated_at" json:"updated_at"`
}

func (VendorApplication) TableName() string { return "vendor_applications" }

// Open reports whether the application is still awaiting review.
func (a VendorApplication) Open() bool { return a.Status == ApplicationPending }
