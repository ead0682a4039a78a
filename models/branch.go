package models

import (
	"time"

	"gorm.io/gorm"
)

// Branch is a physical site. Branches own employees and orders and are
// simple reference data.
type Branch struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"uniqueIndex;not null" json:"name"`
	Address   string         `json:"address"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Branch model
func (Branch) TableName() string {
	return "branches"
}
