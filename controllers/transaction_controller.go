package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/steelcraft/steelcraft-erp-api/config"
	"github.com/steelcraft/steelcraft-erp-api/models"
)

// TransactionItemRequest is a billed line in a transaction creation request
type TransactionItemRequest struct {
	ProductName string  `json:"product_name" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" binding:"required,gt=0"`
}

// CreateTransactionRequest represents the request body for creating a
// point-of-sale transaction
type CreateTransactionRequest struct {
	CustomerName  string                   `json:"customer_name" binding:"required"`
	BranchID      uint                     `json:"branch_id" binding:"required"`
	OrderID       *uint                    `json:"order_id" binding:"omitempty"`
	PaymentMethod string                   `json:"payment_method" binding:"required,oneof=CASH CARD UPI"`
	Items         []TransactionItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateTransaction handles POST /api/v1/transactions. Billing is an
// independent data path from the production lifecycle; when a transaction
// references an order, the order must be COMPLETED.
func CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()

	var branch models.Branch
	if err := db.First(&branch, req.BranchID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Branch not found",
			},
		})
		return
	}

	if req.OrderID != nil {
		var order models.Order
		if err := db.First(&order, *req.OrderID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Order not found",
				},
			})
			return
		}
		if order.Status != models.OrderStatusCompleted {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "STATE_CONFLICT",
					"message": fmt.Sprintf("Order %s is %s; only COMPLETED orders can be billed", order.OrderNumber, order.Status),
				},
			})
			return
		}
	}

	transaction := models.Transaction{
		InvoiceNumber: fmt.Sprintf("INV-%d", time.Now().UnixNano()),
		CustomerName:  req.CustomerName,
		OrderID:       req.OrderID,
		BranchID:      req.BranchID,
		PaymentMethod: req.PaymentMethod,
	}
	for _, item := range req.Items {
		line := models.TransactionItem{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
		transaction.TotalAmount += line.Subtotal()
		transaction.Items = append(transaction.Items, line)
	}

	// Transaction and items are one unit of work
	if err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&transaction).Error
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create transaction",
			},
		})
		return
	}

	if err := db.Preload("Branch").Preload("Items").First(&transaction, transaction.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load transaction details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    transaction,
	})
}

// ListTransactions handles GET /api/v1/transactions with optional branch_id
// and payment_method filters
func ListTransactions(c *gin.Context) {
	db := config.GetDB()

	query := db.Preload("Branch").Preload("Items").Order("created_at DESC")
	if branchID := c.Query("branch_id"); branchID != "" {
		query = query.Where("branch_id = ?", branchID)
	}
	if method := c.Query("payment_method"); method != "" {
		query = query.Where("payment_method = ?", method)
	}

	var transactions []models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list transactions",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    transactions,
	})
}
