package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderStatus is the approval/lifecycle axis of an order. It is independent
// of the production stage: status says whether the order is actionable at
// all, the stage says where in manufacturing it sits.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusApproved  OrderStatus = "APPROVED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
)

// statusTransitions lists the allowed (from, to) pairs on the status axis.
// Anything not listed is rejected.
var statusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:  {OrderStatusApproved, OrderStatusCancelled},
	OrderStatusApproved: {OrderStatusCompleted},
}

// CanTransitionTo reports whether the status transition from s to target is allowed.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ProductionStage is one step in the manufacturing sequence.
type ProductionStage string

const (
	StagePending      ProductionStage = "PENDING"
	StageCutting      ProductionStage = "CUTTING"
	StageShaping      ProductionStage = "SHAPING"
	StageBending      ProductionStage = "BENDING"
	StageWeldingInner ProductionStage = "WELDING_INNER"
	StageWeldingOuter ProductionStage = "WELDING_OUTER"
	StageGrinding     ProductionStage = "GRINDING"
	StageFinishing    ProductionStage = "FINISHING"
	StagePainting     ProductionStage = "PAINTING"
)

// StageSequence is the fixed manufacturing order. Stage transitions must
// advance to the immediate successor, never jump or repeat.
var StageSequence = []ProductionStage{
	StagePending,
	StageCutting,
	StageShaping,
	StageBending,
	StageWeldingInner,
	StageWeldingOuter,
	StageGrinding,
	StageFinishing,
	StagePainting,
}

// FinalStage returns the terminal stage of the sequence.
func FinalStage() ProductionStage {
	return StageSequence[len(StageSequence)-1]
}

// IsValidStage reports whether s is a known production stage.
func IsValidStage(s ProductionStage) bool {
	return stageIndex(s) >= 0
}

// NextStage returns the immediate successor of s in the sequence, or false
// when s is the final stage or unknown.
func NextStage(s ProductionStage) (ProductionStage, bool) {
	i := stageIndex(s)
	if i < 0 || i == len(StageSequence)-1 {
		return "", false
	}
	return StageSequence[i+1], true
}

func stageIndex(s ProductionStage) int {
	for i, stage := range StageSequence {
		if stage == s {
			return i
		}
	}
	return -1
}

// Order represents a customer production order tracked through approval and
// manufacturing.
type Order struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	OrderNumber  string          `gorm:"uniqueIndex;not null" json:"order_number"`
	CustomerName string          `gorm:"not null" json:"customer_name"`
	Status       OrderStatus     `gorm:"not null;default:'PENDING';index" json:"status"`
	CurrentStage ProductionStage `gorm:"not null;default:'PENDING'" json:"current_stage"`
	DrawingS3Key *string         `json:"drawing_s3_key"`               // nullable, S3 key for the design drawing
	DrawingURL   *string         `gorm:"-" json:"drawing_url,omitempty"` // computed field, presigned URL
	BranchID     uint            `gorm:"not null;index" json:"branch_id"`
	Branch       Branch          `gorm:"foreignKey:BranchID" json:"branch"`
	Items        []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// IsComplete reports whether the order has reached the terminal stage.
func (o *Order) IsComplete() bool {
	return o.CurrentStage == FinalStage()
}

// OrderItem is a line item owned by exactly one order. Items are created
// atomically with the order and never mutated independently.
type OrderItem struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	OrderID     uint           `gorm:"not null;index" json:"order_id"`
	ProductName string         `gorm:"not null" json:"product_name"`
	Quantity    int            `gorm:"not null;check:quantity > 0" json:"quantity"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
