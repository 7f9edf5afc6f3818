package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/BuildForSDGCohort2/Team-096-backend/config"
	"github.com/BuildForSDGCohort2/Team-096-backend/controllers"
	"github.com/BuildForSDGCohort2/Team-096-backend/middleware"
	"github.com/BuildForSDGCohort2/Team-096-backend/models"
	"github.com/BuildForSDGCohort2/Team-096-backend/services"
)

func main() {
	// Basic logging
	log.Println("Starting Gric API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	config.SetConfig(cfg)

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Category{},
		&models.Produce{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize S3-backed image storage; produce image uploads fail
	// with STORAGE_ERROR if this is unavailable
	if s3Service, err := services.InitS3Service(); err != nil {
		log.Printf("Warning: S3 service unavailable, image uploads disabled: %v", err)
	} else {
		services.InitImageService(s3Service)
	}

	router := setupRouter(cfg)

	// Start server
	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the Gin engine with all API routes. Registration and
// login are public; everything else requires a valid bearer token.
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	authRequired := middleware.EnsureValidToken(cfg)

	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// Public endpoints
		v1.POST("/users/", controllers.RegisterUser)
		v1.POST("/auth/login", controllers.Login)

		users := v1.Group("/users", authRequired)
		{
			users.GET("/", controllers.ListUsers)
			users.GET("/:id/", controllers.GetUser)
			users.PUT("/:id/", controllers.UpdateUser)
			users.DELETE("/:id/", controllers.DeleteUser)
		}

		catalog := v1.Group("/catalog", authRequired)
		{
			catalog.GET("/produce/", controllers.ListProduce)
			catalog.POST("/produce/", controllers.CreateProduce)
			catalog.GET("/produce/:id/", controllers.GetProduce)
			catalog.PUT("/produce/:id/", controllers.UpdateProduce)
			catalog.DELETE("/produce/:id/", controllers.DeleteProduce)
			catalog.POST("/produce/:id/image", controllers.UploadProduceImage)

			catalog.GET("/produce-category/", controllers.ListCategories)
			catalog.POST("/produce-category/", controllers.CreateCategory)
			catalog.GET("/produce-category/:id/", controllers.GetCategory)
			catalog.PUT("/produce-category/:id/", controllers.UpdateCategory)
			catalog.DELETE("/produce-category/:id/", controllers.DeleteCategory)
		}

		shop := v1.Group("/shop", authRequired)
		{
			shop.GET("/order/", controllers.ListOrders)
			shop.POST("/order/", controllers.CreateOrder)
			shop.GET("/order/:id/", controllers.GetOrder)
			shop.PUT("/order/:id/", controllers.UpdateOrder)
			shop.DELETE("/order/:id/", controllers.DeleteOrder)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Gric API is running",
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

	// Ping the database to verify connection
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

	// Get list of tables
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
