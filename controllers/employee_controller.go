package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/steelcraft/steelcraft-erp-api/config"
	"github.com/steelcraft/steelcraft-erp-api/models"
)

// CreateEmployeeRequest represents the request body for creating an employee
type CreateEmployeeRequest struct {
	Name           string   `json:"name" binding:"required"`
	Phone          string   `json:"phone" binding:"omitempty"`
	BranchID       uint     `json:"branch_id" binding:"required"`
	AssignedStages []string `json:"assigned_stages" binding:"omitempty"`
}

// CreateEmployee handles POST /api/v1/employees. AssignedStages is the
// authorization list for production log actions, so unknown stage names are
// rejected up front.
func CreateEmployee(c *gin.Context) {
	var req CreateEmployeeRequest
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

	stages := make([]models.ProductionStage, 0, len(req.AssignedStages))
	for _, s := range req.AssignedStages {
		stage := models.ProductionStage(s)
		if !models.IsValidStage(stage) || stage == models.StagePending {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Unknown production stage: " + s,
				},
			})
			return
		}
		stages = append(stages, stage)
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

	employee := models.Employee{
		Name:           req.Name,
		Phone:          req.Phone,
		BranchID:       req.BranchID,
		AssignedStages: stages,
	}
	if err := db.Create(&employee).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create employee",
			},
		})
		return
	}

	if err := db.Preload("Branch").First(&employee, employee.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load employee details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    employee,
	})
}

// ListEmployees handles GET /api/v1/employees with optional branch_id and
// stage filters
func ListEmployees(c *gin.Context) {
	db := config.GetDB()

	query := db.Preload("Branch").Order("name ASC")
	if branchID := c.Query("branch_id"); branchID != "" {
		query = query.Where("branch_id = ?", branchID)
	}

	var employees []models.Employee
	if err := query.Find(&employees).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list employees",
			},
		})
		return
	}

	// Stage assignments are stored serialized, so the stage filter is
	// applied after the fetch
	if stage := c.Query("stage"); stage != "" {
		filtered := employees[:0]
		for i := range employees {
			if employees[i].IsAssignedTo(models.ProductionStage(stage)) {
				filtered = append(filtered, employees[i])
			}
		}
		employees = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    employees,
	})
}
