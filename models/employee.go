package models

import (
	"time"

	"gorm.io/gorm"
)

// Employee represents a production worker assigned to one branch. The
// AssignedStages list is the authorization filter for stage actions: an
// employee may only log work for stages that appear in it.
type Employee struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	Name           string            `gorm:"not null" json:"name"`
	Phone          string            `json:"phone"`
	BranchID       uint              `gorm:"not null;index" json:"branch_id"`
	Branch         Branch            `gorm:"foreignKey:BranchID" json:"branch"`
	AssignedStages []ProductionStage `gorm:"serializer:json" json:"assigned_stages"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	DeletedAt      gorm.DeletedAt    `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Employee model
func (Employee) TableName() string {
	return "employees"
}

// IsAssignedTo reports whether the employee is authorized to act on stage.
func (e *Employee) IsAssignedTo(stage ProductionStage) bool {
	for _, s := range e.AssignedStages {
		if s == stage {
			return true
		}
	}
	return false
}
