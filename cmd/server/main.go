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

	identityapp "github.com/fieldserve/backend/internal/application/identity"
	registryapp "github.com/fieldserve/backend/internal/application/registry"
	reportapp "github.com/fieldserve/backend/internal/application/report"
	ticketingapp "github.com/fieldserve/backend/internal/application/ticketing"
	"github.com/fieldserve/backend/internal/infrastructure/auth"
	"github.com/fieldserve/backend/internal/infrastructure/cache"
	"github.com/fieldserve/backend/internal/infrastructure/config"
	"github.com/fieldserve/backend/internal/infrastructure/logger"
	"github.com/fieldserve/backend/internal/infrastructure/persistence"
	"github.com/fieldserve/backend/internal/interfaces/http/handler"
	"github.com/fieldserve/backend/internal/interfaces/http/middleware"
	"github.com/fieldserve/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting FieldServe Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize the tag cache (Redis, or in-memory when disabled)
	cacheFactory := cache.NewTagCacheFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.Cache.Enabled || cfg.Cache.Backend != "redis"),
	)
	tagCache, err := cacheFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to initialize cache", zap.Error(err))
	}
	defer func() {
		if err := tagCache.Close(); err != nil {
			log.Error("Error closing cache", zap.Error(err))
		}
	}()

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	machineRepo := persistence.NewGormMachineRepository(db.DB)
	partRepo := persistence.NewGormPartRepository(db.DB)
	ticketRepo := persistence.NewGormTicketRepository(db.DB)
	workLogRepo := persistence.NewGormWorkLogRepository(db.DB)

	// Identity services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, log)
	userService := identityapp.NewUserService(userRepo)
	statsService := identityapp.NewStatsService(userRepo, ticketRepo, log)

	// Registry services
	customerService := registryapp.NewCustomerService(customerRepo, tagCache, log)
	machineService := registryapp.NewMachineService(machineRepo, customerRepo, tagCache, log)
	partService := registryapp.NewPartService(partRepo, tagCache, log)

	// Ticketing services
	ticketService := ticketingapp.NewTicketService(
		ticketRepo, workLogRepo, machineRepo, customerRepo, userRepo,
		statsService, tagCache, log,
	)
	workLogService := ticketingapp.NewWorkLogService(ticketRepo, workLogRepo, tagCache, log)

	// Report service
	reportService := reportapp.NewReportService(
		ticketRepo, workLogRepo, machineRepo, customerRepo, userRepo,
		tagCache, log,
	)

	// HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, statsService)
	customerHandler := handler.NewCustomerHandler(customerService, machineService)
	machineHandler := handler.NewMachineHandler(machineService)
	partHandler := handler.NewPartHandler(partService)
	ticketHandler := handler.NewTicketHandler(ticketService)
	workLogHandler := handler.NewWorkLogHandler(workLogService)
	reportHandler := handler.NewReportHandler(reportService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request id, panic recovery, request logging
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	// Health check endpoint (outside API versioning, unauthenticated)
	engine.GET("/health", systemHandler.Health)

	// API routes
	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithAuthMiddleware(middleware.JWTAuth(jwtService, userRepo)),
	)
	r.RegisterPublic(authHandler)
	r.Register(systemHandler)
	r.Register(userHandler)
	r.Register(customerHandler)
	r.Register(machineHandler)
	r.Register(partHandler)
	r.Register(ticketHandler)
	r.Register(workLogHandler)
	r.Register(reportHandler)
	r.Setup()

	// HTTP server
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
