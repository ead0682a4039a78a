package models

import (
	"time"

	"gorm.io/gorm"
)

// Production log statuses. A log row records either the start or the
// completion of work on a stage.
const (
	LogStatusStarted   = "started"
	LogStatusCompleted = "completed"
)

// ProductionLog is an immutable append-only record of a stage action
// performed by an employee. Rows are never updated or deleted in normal
// operation; the order's current-stage pointer is advanced in the same
// transaction that appends the row.
type ProductionLog struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	OrderID    uint            `gorm:"not null;index" json:"order_id"`
	Order      Order           `gorm:"foreignKey:OrderID" json:"-"`
	EmployeeID uint            `gorm:"not null;index" json:"employee_id"`
	Employee   Employee        `gorm:"foreignKey:EmployeeID" json:"employee"`
	Stage      ProductionStage `gorm:"not null" json:"stage"`
	Status     string          `gorm:"not null" json:"status"` // started, completed
	Notes      string          `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for the ProductionLog model
func (ProductionLog) TableName() string {
	return "production_logs"
}
