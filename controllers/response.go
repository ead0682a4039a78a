package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/steelcraft/steelcraft-erp-api/services"
)

// respondServiceError translates a service-layer error into the standard
// JSON error envelope with the matching HTTP status.
func respondServiceError(c *gin.Context, err error) {
	var svcErr *services.ServiceError
	if !errors.As(err, &svcErr) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "An unexpected error occurred",
			},
		})
		return
	}

	status := http.StatusInternalServerError
	switch svcErr.Code {
	case services.CodeNotFound:
		status = http.StatusNotFound
	case services.CodeForbidden:
		status = http.StatusForbidden
	case services.CodeValidation:
		status = http.StatusBadRequest
	case services.CodeStateConflict:
		status = http.StatusConflict
	case services.CodeDatabase:
		status = http.StatusInternalServerError
	}

	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    svcErr.Code,
			"message": svcErr.Message,
		},
	})
}
