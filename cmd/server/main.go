package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/loomworks/backend/internal/application/catalog"
	inventoryapp "github.com/loomworks/backend/internal/application/inventory"
	notificationapp "github.com/loomworks/backend/internal/application/notification"
	procurementapp "github.com/loomworks/backend/internal/application/procurement"
	productionapp "github.com/loomworks/backend/internal/application/production"
	salesapp "github.com/loomworks/backend/internal/application/sales"
	"github.com/loomworks/backend/internal/infrastructure/config"
	"github.com/loomworks/backend/internal/infrastructure/event"
	"github.com/loomworks/backend/internal/infrastructure/logger"
	"github.com/loomworks/backend/internal/infrastructure/persistence"
	"github.com/loomworks/backend/internal/infrastructure/telemetry"
	"github.com/loomworks/backend/internal/interfaces/http/handler"
	"github.com/loomworks/backend/internal/interfaces/http/middleware"
	"github.com/loomworks/backend/internal/interfaces/http/router"

	_ "github.com/loomworks/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Loomworks Manufacturing API
//	@version		1.0
//	@description	Manufacturing backend for raw-material procurement, production batches and sales
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.url	https://github.com/loomworks/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@externalDocs.description	OpenAPI
//	@externalDocs.url			https://swagger.io/resources/open-api/

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Loomworks backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize OpenTelemetry tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Register database query tracing
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        "postgresql",
	}, log)
	if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Initialize repositories
	materialRepo := persistence.NewGormRawMaterialRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	procurementOrderRepo := persistence.NewGormProcurementOrderRepository(db.DB)
	salesOrderRepo := persistence.NewGormSalesOrderRepository(db.DB)
	batchRepo := persistence.NewGormBatchRepository(db.DB)
	flowRepo := persistence.NewGormFlowRepository(db.DB)
	unitRepo := persistence.NewGormIndividualUnitRepository(db.DB)
	recipeRepo := persistence.NewGormRecipeRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)

	// Transaction scopes for cross-aggregate operations
	productionTxScope := persistence.NewGormProductionTransactionScope(db.DB)
	salesTxScope := persistence.NewGormSalesTransactionScope(db.DB)
	procurementTxScope := persistence.NewGormProcurementTransactionScope(db.DB)

	// Initialize application services
	materialService := inventoryapp.NewMaterialService(materialRepo)
	productService := catalogapp.NewProductService(productRepo)
	procurementOrderService := procurementapp.NewOrderService(procurementOrderRepo, procurementTxScope)
	productionService := productionapp.NewService(
		batchRepo, flowRepo, recipeRepo, materialRepo, productRepo, unitRepo, productionTxScope)
	salesOrderService := salesapp.NewOrderService(salesOrderRepo, productRepo, salesTxScope)
	notificationService := notificationapp.NewService(notificationRepo)

	// Event bus with notification fan-out
	eventBus := event.NewInMemoryEventBus(log)
	shortageHandler := notificationapp.NewShortageHandler(log, notificationRepo)
	eventBus.Subscribe(shortageHandler, shortageHandler.EventTypes()...)
	stockLevelHandler := notificationapp.NewStockLevelHandler(log, notificationRepo)
	eventBus.Subscribe(stockLevelHandler, stockLevelHandler.EventTypes()...)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	materialService.SetEventPublisher(eventBus)
	productService.SetEventPublisher(eventBus)
	procurementOrderService.SetEventPublisher(eventBus)
	productionService.SetEventPublisher(eventBus)
	salesOrderService.SetEventPublisher(eventBus)

	// Initialize HTTP handlers
	materialHandler := handler.NewMaterialHandler(materialService)
	productHandler := handler.NewProductHandler(productService)
	procurementHandler := handler.NewProcurementHandler(procurementOrderService)
	productionHandler := handler.NewProductionHandler(productionService)
	salesOrderHandler := handler.NewSalesOrderHandler(salesOrderService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - OpenTelemetry spans
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanAnnotator())
	}
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Swagger documentation endpoint
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{Enabled: cfg.Swagger.Enabled}),
		ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Inventory domain (raw-material lots)
	inventoryRoutes := router.NewDomainGroup("inventory", "/inventory")
	inventoryRoutes.POST("/materials", materialHandler.Create)
	inventoryRoutes.GET("/materials", materialHandler.List)
	inventoryRoutes.GET("/materials/:id", materialHandler.GetByID)
	inventoryRoutes.PUT("/materials/:id", materialHandler.UpdateDetails)
	inventoryRoutes.PUT("/materials/:id/thresholds", materialHandler.SetThresholds)

	// Catalog domain (finished products)
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/products", productHandler.Create)
	catalogRoutes.GET("/products", productHandler.List)
	catalogRoutes.GET("/products/:id", productHandler.GetByID)
	catalogRoutes.GET("/products/code/:code", productHandler.GetByCode)
	catalogRoutes.PUT("/products/:id", productHandler.Update)
	catalogRoutes.PUT("/products/:id/price", productHandler.SetSellingPrice)
	catalogRoutes.POST("/products/:id/stock/adjust", productHandler.AdjustStock)
	catalogRoutes.POST("/products/:id/discontinue", productHandler.Discontinue)

	// Procurement domain (supplier orders)
	procurementRoutes := router.NewDomainGroup("procurement", "/procurement")
	procurementRoutes.POST("/orders", procurementHandler.Create)
	procurementRoutes.GET("/orders", procurementHandler.List)
	procurementRoutes.GET("/orders/:id", procurementHandler.GetByID)
	procurementRoutes.POST("/orders/:id/in-transit", procurementHandler.MarkInTransit)
	procurementRoutes.POST("/orders/:id/deliver", procurementHandler.Deliver)
	procurementRoutes.POST("/orders/:id/cancel", procurementHandler.Cancel)

	// Production domain (batches, flows, recipes)
	productionRoutes := router.NewDomainGroup("production", "/production")
	productionRoutes.POST("/batches", productionHandler.CreateBatch)
	productionRoutes.GET("/batches", productionHandler.ListBatches)
	productionRoutes.GET("/batches/:id", productionHandler.GetBatch)
	productionRoutes.GET("/batches/:id/flow", productionHandler.GetFlow)
	productionRoutes.POST("/batches/:id/materials", productionHandler.SelectMaterials)
	productionRoutes.POST("/batches/:id/steps/machine", productionHandler.AddMachineStep)
	productionRoutes.POST("/batches/:id/steps/advance", productionHandler.AdvanceStep)
	productionRoutes.POST("/batches/:id/waste/enter", productionHandler.EnterWasteTracking)
	productionRoutes.POST("/batches/:id/waste", productionHandler.RecordWaste)
	productionRoutes.POST("/batches/:id/units/enter", productionHandler.EnterIndividualFinalization)
	productionRoutes.POST("/batches/:id/units/prepare", productionHandler.PrepareUnitDrafts)
	productionRoutes.PUT("/batches/:id/units/drafts", productionHandler.SetUnitDrafts)
	productionRoutes.POST("/batches/:id/complete", productionHandler.CompleteFlow)
	recipeRoutes := productionRoutes.Group("recipes", "/recipes")
	recipeRoutes.GET("/:product_id/prefill", productionHandler.RecipePrefill)

	// Sales domain (customer orders)
	salesRoutes := router.NewDomainGroup("sales", "/sales")
	salesRoutes.POST("/orders", salesOrderHandler.Create)
	salesRoutes.GET("/orders", salesOrderHandler.List)
	salesRoutes.GET("/orders/:id", salesOrderHandler.GetByID)
	salesRoutes.POST("/orders/:id/accept", salesOrderHandler.Accept)
	salesRoutes.POST("/orders/:id/units", salesOrderHandler.SelectUnits)
	salesRoutes.POST("/orders/:id/payments", salesOrderHandler.RecordPayment)
	salesRoutes.POST("/orders/:id/dispatch", salesOrderHandler.Dispatch)
	salesRoutes.POST("/orders/:id/deliver", salesOrderHandler.Deliver)
	salesRoutes.POST("/orders/:id/cancel", salesOrderHandler.Cancel)

	// Notifications
	notificationRoutes := router.NewDomainGroup("notifications", "/notifications")
	notificationRoutes.GET("", notificationHandler.List)
	notificationRoutes.GET("/:id", notificationHandler.GetByID)
	notificationRoutes.POST("/:id/resolve", notificationHandler.Resolve)

	// Register all domain groups
	r.Register(inventoryRoutes).
		Register(catalogRoutes).
		Register(procurementRoutes).
		Register(productionRoutes).
		Register(salesRoutes).
		Register(notificationRoutes)

	// Register system routes with swagger-documented handlers
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
