// Package main provides the main entry point for the LinkGrove bio-link platform
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/linkgrove/linkgrove/app/handlers"
	"github.com/linkgrove/linkgrove/app/middleware"
	"github.com/linkgrove/linkgrove/app/router"
	"github.com/linkgrove/linkgrove/app/services"
	businessflow "github.com/linkgrove/linkgrove/business_flow"
	"github.com/linkgrove/linkgrove/config"
	"github.com/linkgrove/linkgrove/repository"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting LinkGrove application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg.Logging)

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// setupLogging routes the standard logger to a rotating file, stdout, or both
func setupLogging(cfg config.LoggingConfig) {
	if cfg.Output == "stdout" || cfg.FilePath == "" {
		return
	}

	rotating := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	switch cfg.Output {
	case "both":
		log.SetOutput(io.MultiWriter(os.Stdout, rotating))
	default:
		log.SetOutput(rotating)
	}
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pooling
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Redis client and verifies connectivity.
// A nil client is a valid result: the leaderboard degrades to the database.
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	rc := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		DB:           cfg.RedisDB,
		Password:     cfg.RedisPassword,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisAddr, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// startSessionSweeper starts a background goroutine that hard-deletes expired
// sessions. Expired rows are also rejected lazily on validation, so the sweep
// only reclaims storage.
func startSessionSweeper(parent context.Context, sessionRepo repository.UserSessionRepository, interval time.Duration) func() {
	sweepCtx, cancel := context.WithCancel(parent)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 30*time.Second)
				deleted, err := sessionRepo.DeleteExpired(ctx)
				if err != nil {
					log.Printf("Session sweep failed: %v", err)
				} else if deleted > 0 {
					log.Printf("Session sweep removed %d expired sessions", deleted)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		cancel := startCacheHealthMonitor(context.Background(), rc, 30*time.Second)
		stopFuncs = append(stopFuncs, cancel)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewUserSessionRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	statsRepo := repository.NewUserStatsRepository(db)
	linkRepo := repository.NewUserLinkRepository(db)
	shortLinkRepo := repository.NewShortLinkRepository(db)

	// Initialize services
	passwordService := services.NewPasswordService(cfg.Security.BcryptCost)
	tokenService := services.NewTokenService()
	reportService := services.NewReportService()

	// Initialize flows
	authFlow := businessflow.NewAuthFlow(
		userRepo,
		sessionRepo,
		profileRepo,
		statsRepo,
		passwordService,
		tokenService,
		db,
	)

	profileFlow := businessflow.NewProfileFlow(
		userRepo,
		profileRepo,
		statsRepo,
		linkRepo,
		db,
	)

	linkFlow := businessflow.NewLinkFlow(
		linkRepo,
		userRepo,
		statsRepo,
		reportService,
		db,
	)

	shortLinkFlow := businessflow.NewShortLinkFlow(
		shortLinkRepo,
		tokenService,
		db,
	)

	leaderboardFlow := businessflow.NewLeaderboardFlow(
		statsRepo,
		rc,
	)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authFlow, cfg.Security.SessionCookie)
	profileHandler := handlers.NewProfileHandler(profileFlow)
	linkHandler := handlers.NewLinkHandler(linkFlow)
	shortLinkHandler := handlers.NewShortLinkHandler(shortLinkFlow)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardFlow)

	// Initialize session middleware
	sessionMW := middleware.NewSessionMiddleware(authFlow)

	// Initialize router
	appRouter := router.NewFiberRouter(
		cfg,
		sessionMW,
		authHandler,
		profileHandler,
		linkHandler,
		shortLinkHandler,
		leaderboardHandler,
	)

	// Periodic cleanup of expired sessions
	stopSweeper := startSessionSweeper(context.Background(), sessionRepo, cfg.Security.SessionCleanupInterval)
	stopFuncs = append(stopFuncs, stopSweeper)

	// Create application struct from FiberRouter
	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}
