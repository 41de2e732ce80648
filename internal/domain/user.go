package domain

import "time"

// User roles
const (
	RoleUser  = "user"  // Regular customer
	RoleAdmin = "admin" // Operations staff
)

// User Model
type User struct {
	ID        uint               `gorm:"primaryKey" json:"id"`         // Primary key
	Email     string             `gorm:"unique;not null" json:"email"` // Unique email, stored lower-cased
	Password  string             `gorm:"not null" json:"-"`            // Bcrypt hash, never serialized
	FirstName string             `gorm:"not null" json:"firstName"`
	LastName  string             `gorm:"not null" json:"lastName"`
	Phone     *string            `json:"phone,omitempty"`
	Address   *string            `gorm:"type:text" json:"address,omitempty"`
	Role      string             `gorm:"default:user" json:"role"`     // user or admin
	IsActive  bool               `gorm:"default:true" json:"isActive"` // Inactive users cannot log in
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
	Orders    []EntrustmentOrder `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"` // Orders owned by this user
}
