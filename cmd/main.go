package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	gosharedmw "github.com/Tesseract-Nexus/go-shared/middleware"
	"github.com/Tesseract-Nexus/go-shared/rbac"
	"github.com/sirupsen/logrus"

	"freight-service/internal/config"
	"freight-service/internal/events"
	"freight-service/internal/handlers"
	"freight-service/internal/middleware"
	"freight-service/internal/models"
	"freight-service/internal/repository"
	"freight-service/internal/services"
)

const maxRequestBytes = 1 << 20 // 1 MiB

func main() {
	log.Println("Starting Freight Service...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded successfully")

	// Connect to database
	db, err := connectDatabase(cfg.GetDatabaseDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Database connected successfully")

	// Run migrations
	if err := runMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Seed the default provider rate card
	if cfg.Quotes.SeedOnStart {
		if err := repository.SeedFreightData(db); err != nil {
			log.Printf("Warning: Failed to seed freight data: %v", err)
		}
	}

	// Initialize Redis client (optional - graceful degradation if Redis unavailable)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: Failed to parse Redis URL: %v", err)
			log.Println("Continuing without Redis caching...")
		} else {
			redisClient = redis.NewClient(opt)

			// Test Redis connection
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := redisClient.Ping(ctx).Err(); err != nil {
				log.Printf("Warning: Failed to connect to Redis: %v", err)
				log.Println("Continuing without Redis caching...")
				redisClient = nil
			} else {
				log.Println("✓ Connected to Redis for caching")
			}
		}
	} else {
		log.Println("REDIS_URL not configured, caching disabled")
	}

	// Initialize NATS events publisher
	eventLogger := logrus.New()
	eventLogger.SetFormatter(&logrus.JSONFormatter{})
	eventLogger.SetLevel(logrus.InfoLevel)

	eventsPublisher, err := events.NewPublisher(eventLogger)
	if err != nil {
		log.Printf("WARNING: Failed to initialize events publisher: %v (events won't be published)", err)
		eventsPublisher = nil
	} else {
		defer eventsPublisher.Close()
		log.Println("✓ NATS events publisher initialized")
	}

	// Initialize repository and caches
	freightRepo := repository.NewFreightRepository(db)
	quoteCache := repository.NewQuoteCache(redisClient, cfg.Quotes.CacheTTL)
	log.Println("Repositories initialized")

	// Initialize the quote pipeline
	freightService := services.NewFreightService(freightRepo, quoteCache)
	log.Println("Freight service initialized")

	// Initialize handlers
	freightHandler := handlers.NewFreightHandler(freightService, freightRepo, eventsPublisher)
	providerHandler := handlers.NewProviderHandler(freightRepo, quoteCache, eventsPublisher)
	log.Println("Handlers initialized")

	// Initialize RBAC middleware
	staffServiceURL := os.Getenv("STAFF_SERVICE_URL")
	if staffServiceURL == "" {
		staffServiceURL = "http://staff-service:8080"
	}
	rbacMw := rbac.NewMiddlewareWithURL(staffServiceURL, nil)
	log.Println("✓ RBAC middleware initialized")

	// Setup router
	router := setupRouter(freightHandler, providerHandler, cfg, rbacMw, redisClient)
	log.Printf("Router configured")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Starting server on %s (environment: %s)", addr, cfg.Server.Env)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// connectDatabase establishes a connection to the PostgreSQL database
func connectDatabase(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Provider{},
		&models.FixedChargeConfig{},
		&models.DestinationRate{},
		&models.SpecialChargeRule{},
		&models.QuoteSelection{},
	)
}

// setupRouter configures the Gin router with routes and middleware
func setupRouter(freightHandler *handlers.FreightHandler, providerHandler *handlers.ProviderHandler, cfg *config.Config, rbacMw *rbac.Middleware, redisClient *redis.Client) *gin.Engine {
	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())

	// Security headers middleware
	router.Use(gosharedmw.SecurityHeaders())

	// Rate limiting middleware (uses Redis for distributed rate limiting)
	if redisClient != nil {
		router.Use(gosharedmw.RedisRateLimitMiddlewareWithProfile(redisClient, "standard"))
		log.Println("✓ Redis-based rate limiting enabled")
	} else {
		router.Use(gosharedmw.RateLimit())
		log.Println("✓ In-memory rate limiting enabled (Redis unavailable)")
	}

	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestSizeLimit(maxRequestBytes))

	// IstioAuth middleware - extracts JWT claims from x-jwt-claim-* headers
	// This MUST come before TenantMiddleware and RBAC middleware
	router.Use(gosharedmw.IstioAuth(gosharedmw.IstioAuthConfig{
		RequireAuth:        false, // Don't require auth for all routes (health)
		AllowLegacyHeaders: true,  // Allow X-Tenant-ID fallback during migration
		SkipPaths: []string{
			"/health",
		},
	}))

	// Tenant context middleware (reads from IstioAuth context or legacy headers)
	router.Use(middleware.TenantMiddleware())
	router.Use(middleware.ErrorHandler())

	// Health check
	router.GET("/health", freightHandler.HealthCheck)

	// API routes
	api := router.Group("/api")
	{
		// Quote calculation - require shipping:read permission
		api.POST("/freight/calculate", rbacMw.RequirePermission(rbac.PermissionShippingRead), freightHandler.CalculateFreight)
		api.POST("/freight/compare", rbacMw.RequirePermission(rbac.PermissionShippingRead), freightHandler.CompareFreight)

		// Selections - record which quote was chosen
		api.GET("/selections", rbacMw.RequirePermission(rbac.PermissionShippingRead), freightHandler.ListSelections)
		api.GET("/selections/range", rbacMw.RequirePermission(rbac.PermissionShippingRead), freightHandler.ListSelectionsByRange)
		api.POST("/selections", rbacMw.RequirePermission(rbac.PermissionShippingCreate), freightHandler.CreateSelection)

		// Providers - Read operations
		api.GET("/providers", rbacMw.RequirePermission(rbac.PermissionShippingRead), providerHandler.ListProviders)
		api.GET("/providers/:id", rbacMw.RequirePermission(rbac.PermissionShippingRead), providerHandler.GetProvider)
		api.GET("/providers/:id/fixed-charges", rbacMw.RequirePermission(rbac.PermissionShippingRead), providerHandler.GetFixedCharges)
		api.GET("/providers/:id/rates", rbacMw.RequirePermission(rbac.PermissionShippingRead), providerHandler.ListRates)
		api.GET("/providers/:id/special-charges", rbacMw.RequirePermission(rbac.PermissionShippingRead), providerHandler.ListSpecialCharges)

		// Providers - Manage operations (require shipping:manage permission)
		api.POST("/providers", rbacMw.RequirePermission(rbac.PermissionShippingManage), providerHandler.CreateProvider)
		api.PUT("/providers/:id", rbacMw.RequirePermission(rbac.PermissionShippingManage), providerHandler.UpdateProvider)
		api.DELETE("/providers/:id", rbacMw.RequirePermission(rbac.PermissionShippingManage), providerHandler.DeleteProvider)
		api.PUT("/providers/:id/fixed-charges", rbacMw.RequirePermission(rbac.PermissionShippingManage), providerHandler.UpsertFixedCharges)

		// Destination rates - Manage operations
		api.POST("/providers/:id/rates", rbacMw.RequirePermission(rbac.PermissionShippingManage), providerHandler.CreateRate)
		api.PUT("/rates/:id", rbacMw.RequirePermission(rbac.PermissionShippingManage), providerHandler.UpdateRate)
		api.DELETE("/rates/:id", rbacMw.RequirePermission(rbac.PermissionShippingManage), providerHandler.DeleteRate)

		// Special charge rules - Manage operations
		api.POST("/providers/:id/special-charges", rbacMw.RequirePermission(rbac.PermissionShippingManage), providerHandler.CreateSpecialCharge)
		api.PUT("/special-charges/:id", rbacMw.RequirePermission(rbac.PermissionShippingManage), providerHandler.UpdateSpecialCharge)
		api.PATCH("/special-charges/:id/toggle", rbacMw.RequirePermission(rbac.PermissionShippingManage), providerHandler.ToggleSpecialCharge)
		api.DELETE("/special-charges/:id", rbacMw.RequirePermission(rbac.PermissionShippingManage), providerHandler.DeleteSpecialCharge)
	}

	return router
}
