package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/steelcraft/steelcraft-erp-api/config"
	"github.com/steelcraft/steelcraft-erp-api/middleware"
	"github.com/steelcraft/steelcraft-erp-api/models"
	"github.com/steelcraft/steelcraft-erp-api/services"
)

// OrderItemRequest is a line item in an order creation request
type OrderItemRequest struct {
	ProductName string `json:"product_name" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
}

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	OrderNumber  string             `json:"order_number" binding:"omitempty"`
	CustomerName string             `json:"customer_name" binding:"required"`
	BranchID     uint               `json:"branch_id" binding:"required"`
	Items        []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// DecisionRequest represents the request body for the approval gate
type DecisionRequest struct {
	Decision string `json:"decision" binding:"required"`
}

// CreateOrder handles POST /api/v1/orders - order intake.
// New orders start in PENDING status at the PENDING stage; line items are
// created atomically with the order.
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
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

	orderNumber := req.OrderNumber
	if orderNumber == "" {
		orderNumber = fmt.Sprintf("ORD-%d", time.Now().UnixNano())
	}

	order := models.Order{
		OrderNumber:  orderNumber,
		CustomerName: req.CustomerName,
		Status:       models.OrderStatusPending,
		CurrentStage: models.StagePending,
		BranchID:     req.BranchID,
	}
	for _, item := range req.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
		})
	}

	// Order and items are one unit of work
	if err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&order).Error
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create order",
			},
		})
		return
	}

	if err := db.Preload("Branch").Preload("Items").First(&order, order.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListOrders handles GET /api/v1/orders - lists orders with optional
// status and branch_id filters
func ListOrders(c *gin.Context) {
	db := config.GetDB()

	query := db.Preload("Branch").Preload("Items").Order("created_at DESC")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if branchID := c.Query("branch_id"); branchID != "" {
		query = query.Where("branch_id = ?", branchID)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetOrder handles GET /api/v1/orders/:id - order detail with items
func GetOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Preload("Branch").Preload("Items").First(&order, orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	// Attach a presigned drawing URL when a drawing is on file
	if order.DrawingS3Key != nil {
		if drawingService := services.GetDrawingService(); drawingService != nil {
			if url, err := drawingService.GetDrawingURL(*order.DrawingS3Key); err == nil && url != "" {
				order.DrawingURL = &url
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// DecideOrder handles POST /api/v1/orders/:id/decision - the approval gate.
// APPROVE moves a PENDING order to APPROVED, REJECT moves it to CANCELLED.
func DecideOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	var req DecisionRequest
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

	lifecycle := services.NewLifecycleService(config.GetDB(), services.GetAuditPublisher())
	order, err := lifecycle.DecideOrder(orderID, services.Decision(req.Decision), user.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// parseIDParam parses the :id path parameter, writing a validation error
// response when it is not a positive integer.
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid id parameter",
			},
		})
		return 0, false
	}
	return uint(id), true
}
