package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/steelcraft/steelcraft-erp-api/config"
	"github.com/steelcraft/steelcraft-erp-api/models"
	"github.com/steelcraft/steelcraft-erp-api/services"
	"github.com/steelcraft/steelcraft-erp-api/utils"
)

// UploadDrawing handles POST /api/v1/orders/:id/attachment - attaches a
// design drawing (PNG or PDF) to an order. Re-uploading replaces the
// previous drawing.
func UploadDrawing(c *gin.Context) {
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

	fileHeader, err := c.FormFile("drawing")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "A drawing file is required",
			},
		})
		return
	}

	drawingService := services.GetDrawingService()
	if drawingService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_UNAVAILABLE",
				"message": "Drawing storage is not configured",
			},
		})
		return
	}

	s3Key, err := drawingService.UploadDrawing(fileHeader)
	if err != nil {
		if uploadErr, ok := err.(*utils.FileUploadError); ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_ERROR",
				"message": "Failed to upload drawing",
			},
		})
		return
	}

	previousKey := order.DrawingS3Key
	if err := db.Model(&order).Update("drawing_s3_key", s3Key).Error; err != nil {
		// The order row could not be updated, so drop the orphaned upload
		if deleteErr := drawingService.DeleteDrawing(s3Key); deleteErr != nil {
			log.Warnf("Failed to clean up orphaned drawing %s: %v", s3Key, deleteErr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save drawing reference",
			},
		})
		return
	}

	if previousKey != nil && *previousKey != s3Key {
		if err := drawingService.DeleteDrawing(*previousKey); err != nil {
			log.Warnf("Failed to delete replaced drawing %s: %v", *previousKey, err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"order_id":       order.ID,
			"drawing_s3_key": s3Key,
		},
	})
}

// GetDrawingURL handles GET /api/v1/orders/:id/attachment - returns a
// presigned URL for the order's drawing
func GetDrawingURL(c *gin.Context) {
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

	if order.DrawingS3Key == nil || *order.DrawingS3Key == "" {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Order has no drawing on file",
			},
		})
		return
	}

	drawingService := services.GetDrawingService()
	if drawingService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_UNAVAILABLE",
				"message": "Drawing storage is not configured",
			},
		})
		return
	}

	url, err := drawingService.GetDrawingURL(*order.DrawingS3Key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_ERROR",
				"message": "Failed to generate drawing URL",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"order_id":    order.ID,
			"drawing_url": url,
		},
	})
}
