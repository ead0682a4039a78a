package main

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/steelcraft/steelcraft-erp-api/config"
	"github.com/steelcraft/steelcraft-erp-api/controllers"
	"github.com/steelcraft/steelcraft-erp-api/middleware"
	"github.com/steelcraft/steelcraft-erp-api/models"
	"github.com/steelcraft/steelcraft-erp-api/services"
)

func main() {
	log.Println("Starting SteelCraft ERP API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.ConfigureLogger()

	if err := config.ConnectDatabase(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Branch{},
		&models.Employee{},
		&models.Order{},
		&models.OrderItem{},
		&models.ProductionLog{},
		&models.Transaction{},
		&models.TransactionItem{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	if _, err := services.InitS3Service(); err != nil {
		log.Warnf("S3 service not available: %v", err)
	} else {
		services.InitDrawingService(services.GetS3Service())
	}

	if cfg.AuditEnabled() {
		brokers := strings.Split(cfg.KafkaBrokers, ",")
		if _, err := services.InitKafkaAuditPublisher(brokers, cfg.AuditTopic); err != nil {
			log.Warnf("Kafka audit publisher not available: %v", err)
		} else {
			log.Infof("Audit events publishing to %s", cfg.AuditTopic)
		}
	}

	router := setupRouter()

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the Gin engine with all routes and middleware
func setupRouter() *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}))

	cfg := config.GetConfig()

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		authed := v1.Group("")
		authed.Use(middleware.EnsureValidToken(cfg))
		{
			authed.POST("/users", controllers.CreateUser)
			authed.GET("/users/me", controllers.GetCurrentUserProfile)

			authed.POST("/orders",
				middleware.RequirePermission(services.OpCreateOrder),
				controllers.CreateOrder)
			authed.GET("/orders",
				middleware.RequirePermission(services.OpViewOrders),
				controllers.ListOrders)
			authed.GET("/orders/:id",
				middleware.RequirePermission(services.OpViewOrders),
				controllers.GetOrder)
			authed.POST("/orders/:id/decision",
				middleware.RequirePermission(services.OpDecideOrder),
				controllers.DecideOrder)

			authed.POST("/orders/:id/production-logs",
				middleware.RequirePermission(services.OpRecordStage),
				controllers.RecordStage)
			authed.GET("/orders/:id/production-logs",
				middleware.RequirePermission(services.OpViewProduction),
				controllers.ListProductionLogs)

			authed.POST("/orders/:id/attachment",
				middleware.RequirePermission(services.OpManageAttachments),
				controllers.UploadDrawing)
			authed.GET("/orders/:id/attachment",
				middleware.RequirePermission(services.OpViewOrders),
				controllers.GetDrawingURL)

			authed.POST("/branches",
				middleware.RequirePermission(services.OpManageBranches),
				controllers.CreateBranch)
			authed.GET("/branches",
				middleware.RequirePermission(services.OpViewOrders),
				controllers.ListBranches)

			authed.POST("/employees",
				middleware.RequirePermission(services.OpManageEmployees),
				controllers.CreateEmployee)
			authed.GET("/employees",
				middleware.RequirePermission(services.OpViewProduction),
				controllers.ListEmployees)

			authed.POST("/transactions",
				middleware.RequirePermission(services.OpCreateTransaction),
				controllers.CreateTransaction)
			authed.GET("/transactions",
				middleware.RequirePermission(services.OpViewTransactions),
				controllers.ListTransactions)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "SteelCraft ERP API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
