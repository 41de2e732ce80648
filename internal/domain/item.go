package domain

import "time"

// EntrustedItem Model: one line item within an entrustment order
type EntrustedItem struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`          // Primary key
	EntrustmentOrderID  uint      `gorm:"not null;index" json:"entrustmentOrderId"` // Foreign key to EntrustmentOrder
	Name                string    `gorm:"size:255;not null" json:"name"`
	Description         *string   `gorm:"type:text" json:"description,omitempty"`
	Category            *string   `gorm:"size:100" json:"category,omitempty"`
	EstimatedValue      *string   `gorm:"size:50" json:"estimatedValue,omitempty"` // Free-form, kept as string
	ItemCondition       *string   `gorm:"size:100" json:"itemCondition,omitempty"`
	Quantity            int       `gorm:"not null;default:1" json:"quantity"`
	Brand               *string   `gorm:"size:100" json:"brand,omitempty"`
	Model               *string   `gorm:"size:100" json:"model,omitempty"`
	Color               *string   `gorm:"size:50" json:"color,omitempty"`
	SpecialInstructions *string   `gorm:"type:text" json:"specialInstructions,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}
