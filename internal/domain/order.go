package domain

import "time"

// Order lifecycle statuses. Creation always starts at PENDING_PICKUP;
// CompletePickup moves PENDING_PICKUP to PICKED_UP. The later statuses are
// reserved for the storage and retrieval workflow.
const (
	StatusPendingPickup   = "PENDING_PICKUP"
	StatusPickedUp        = "PICKED_UP"
	StatusStored          = "STORED"
	StatusPendingDelivery = "PENDING_DELIVERY"
	StatusDelivered       = "DELIVERED"
	StatusCancelled       = "CANCELLED"
)

// Monitoring frequency values
const (
	MonitoringNone        = "none"
	MonitoringWeeklyOnce  = "weekly_once"
	MonitoringWeeklyTwice = "weekly_twice"
)

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPendingPickup, StatusPickedUp, StatusStored,
		StatusPendingDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// ValidMonitoringFrequency reports whether f is a known monitoring frequency.
func ValidMonitoringFrequency(f string) bool {
	switch f {
	case MonitoringNone, MonitoringWeeklyOnce, MonitoringWeeklyTwice:
		return true
	}
	return false
}

// EntrustmentOrder Model: one custody request owned by a single user
type EntrustmentOrder struct {
	ID                    uint            `gorm:"primaryKey" json:"id"`                    // Primary key
	OwnerID               uint            `gorm:"not null;index" json:"ownerId"`           // Foreign key to User
	AllowChecks           bool            `gorm:"default:false" json:"allowChecks"`        // Whether condition checks are allowed
	MonitoringFrequency   string          `gorm:"default:none" json:"monitoringFrequency"` // none, weekly_once, weekly_twice
	PickupRequestedDate   time.Time       `gorm:"not null" json:"pickupRequestedDate"`
	PickupAddress         string          `gorm:"type:text;not null" json:"pickupAddress"`
	ContactPhone          string          `gorm:"size:20;not null" json:"contactPhone"`
	ExpectedRetrievalDate *time.Time      `json:"expectedRetrievalDate,omitempty"`
	Status                string          `gorm:"default:PENDING_PICKUP;index" json:"status"`
	ImagePath             *string         `gorm:"size:500" json:"imagePath,omitempty"`     // Photo uploaded at creation
	SignaturePath         *string         `gorm:"size:500" json:"signaturePath,omitempty"` // Signature recorded at pickup
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
	EntrustedItems        []EntrustedItem `gorm:"foreignKey:EntrustmentOrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"entrustedItems"` // Line items
	Owner                 *User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`                                                         // Loaded for admin views only
}
