package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/steelcraft/steelcraft-erp-api/config"
	"github.com/steelcraft/steelcraft-erp-api/models"
)

// CreateBranchRequest represents the request body for creating a branch
type CreateBranchRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"omitempty"`
}

// CreateBranch handles POST /api/v1/branches
func CreateBranch(c *gin.Context) {
	var req CreateBranchRequest
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

	branch := models.Branch{
		Name:    req.Name,
		Address: req.Address,
	}
	if err := db.Create(&branch).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create branch",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    branch,
	})
}

// ListBranches handles GET /api/v1/branches
func ListBranches(c *gin.Context) {
	db := config.GetDB()

	var branches []models.Branch
	if err := db.Order("name ASC").Find(&branches).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list branches",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    branches,
	})
}
