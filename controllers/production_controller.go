package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/steelcraft/steelcraft-erp-api/config"
	"github.com/steelcraft/steelcraft-erp-api/models"
	"github.com/steelcraft/steelcraft-erp-api/services"
)

// RecordStageRequest represents the request body for recording a stage action
type RecordStageRequest struct {
	EmployeeID uint   `json:"employee_id" binding:"required"`
	Stage      string `json:"stage" binding:"required"`
	Status     string `json:"status" binding:"required"`
	Notes      string `json:"notes" binding:"omitempty"`
}

// RecordStage handles POST /api/v1/orders/:id/production-logs - appends a
// production log row and advances the order's current stage.
func RecordStage(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req RecordStageRequest
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
	logEntry, err := lifecycle.RecordStage(orderID, req.EmployeeID, models.ProductionStage(req.Stage), req.Status, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    logEntry,
	})
}

// ListProductionLogs handles GET /api/v1/orders/:id/production-logs - the
// order's stage history, oldest first
func ListProductionLogs(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()

	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	var logs []models.ProductionLog
	if err := db.Preload("Employee").Where("order_id = ?", orderID).Order("created_at ASC").Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list production logs",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    logs,
	})
}
