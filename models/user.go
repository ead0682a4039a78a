package models

import (
	"time"

	"gorm.io/gorm"
)

// Application roles. The role arrives as a custom claim on the JWT and is
// mirrored onto the user profile on first login.
const (
	RoleAdmin         = "ADMIN"
	RoleMarketingHead = "MARKETING_HEAD"
	RoleStoreManager  = "STORE_MANAGER"
	RoleOperator      = "OPERATOR"
)

// User represents an authenticated account in the system
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Auth0ID   string         `gorm:"uniqueIndex;not null" json:"auth0_id"` // identity provider user ID (from 'sub' claim)
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Role      string         `gorm:"not null;default:'OPERATOR'" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
