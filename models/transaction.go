package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment methods accepted at the point of sale.
const (
	PaymentCash = "CASH"
	PaymentCard = "CARD"
	PaymentUPI  = "UPI"
)

// Transaction is a point-of-sale billing record. Billing is an independent
// data path from the production lifecycle: transactions reference completed
// orders when one exists but are valid without one (walk-in sales).
type Transaction struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	InvoiceNumber string            `gorm:"uniqueIndex;not null" json:"invoice_number"`
	CustomerName  string            `gorm:"not null" json:"customer_name"`
	OrderID       *uint             `gorm:"index" json:"order_id,omitempty"` // nullable, set when billing a production order
	Order         *Order            `gorm:"foreignKey:OrderID" json:"-"`
	BranchID      uint              `gorm:"not null;index" json:"branch_id"`
	Branch        Branch            `gorm:"foreignKey:BranchID" json:"branch"`
	PaymentMethod string            `gorm:"not null" json:"payment_method"`
	TotalAmount   float64           `gorm:"not null" json:"total_amount"`
	Items         []TransactionItem `gorm:"foreignKey:TransactionID" json:"items"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	DeletedAt     gorm.DeletedAt    `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// TransactionItem is a billed line on a transaction.
type TransactionItem struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	TransactionID uint           `gorm:"not null;index" json:"transaction_id"`
	ProductName   string         `gorm:"not null" json:"product_name"`
	Quantity      int            `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice     float64        `gorm:"not null" json:"unit_price"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the TransactionItem model
func (TransactionItem) TableName() string {
	return "transaction_items"
}

// Subtotal returns quantity times unit price for the line.
func (i *TransactionItem) Subtotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}
