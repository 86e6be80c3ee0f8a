package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"giftroom.backend/internal/config"
	"giftroom.backend/internal/domain/entities"
	"giftroom.backend/internal/infrastructure/jobs"
	"giftroom.backend/internal/infrastructure/repositories"
	"giftroom.backend/internal/interfaces/http/handlers"
	"giftroom.backend/internal/interfaces/http/middleware"
	"giftroom.backend/internal/usecases"
	"giftroom.backend/pkg/events"
	"giftroom.backend/pkg/jwt"
	"giftroom.backend/pkg/logger"
	"giftroom.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("Connected to PostgreSQL via GORM")
	}

	// Validate the commission split up front; a bad split must never serve traffic
	platformUserID, err := uuid.Parse(cfg.Economy.PlatformUserID)
	if err != nil {
		return fmt.Errorf("invalid PLATFORM_USER_ID: %w", err)
	}
	split := usecases.SplitConfig{
		PlatformPct:    cfg.Economy.PlatformPct,
		ReceiverPct:    cfg.Economy.ReceiverPct,
		OwnerPct:       cfg.Economy.OwnerPct,
		PlatformUserID: platformUserID,
	}
	if err := split.Validate(); err != nil {
		return fmt.Errorf("invalid commission split: %w", err)
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry)

	// Initialize repositories
	walletRepo := repositories.NewWalletRepository(db)
	walletTxRepo := repositories.NewWalletTransactionRepository(db)
	giftRepo := repositories.NewGiftRepository(db)
	giftSendRepo := repositories.NewGiftSendRepository(db)
	grantRepo := repositories.NewGrantRepository(db)
	roomRepo := repositories.NewRoomRepository(db)
	pendingRequestRepo := repositories.NewPendingRequestRepository(db)
	adminActionRepo := repositories.NewAdminActionRepository(db)
	cleanupRepo := repositories.NewCleanupRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Initialize usecases
	publisher := events.NewRedisPublisher()
	ledger := usecases.NewWalletLedger(walletRepo, walletTxRepo, uow)
	guard := usecases.NewIdempotencyGuard()
	giftUsecase := usecases.NewGiftUsecase(giftRepo, giftSendRepo, roomRepo, ledger, guard, publisher, split)
	grantUsecase := usecases.NewGrantUsecase(grantRepo, adminActionRepo, ledger, guard, publisher, usecases.GrantConfig{
		entities.GrantTypeVerification: {
			Price:    cfg.Grants.VerificationPrice,
			Duration: time.Duration(cfg.Grants.VerificationDays) * 24 * time.Hour,
		},
		entities.GrantTypeVIP: {
			Price:    cfg.Grants.VIPPrice,
			Duration: time.Duration(cfg.Grants.VIPDays) * 24 * time.Hour,
		},
	})
	walletUsecase := usecases.NewWalletUsecase(walletRepo, walletTxRepo, adminActionRepo, ledger)

	// Register background sweeps
	scheduler := jobs.NewScheduler()
	sweeps := []jobs.Task{
		jobs.NewExpireGrantsTask(grantRepo, grantUsecase, publisher),
		jobs.NewReleaseBansTask(roomRepo),
		jobs.NewReleaseMutesTask(roomRepo),
		jobs.NewRejectStaleRequestsTask(pendingRequestRepo),
		jobs.NewCleanupSessionsTask(cleanupRepo),
		jobs.NewPurgeTokensTask(cleanupRepo),
		jobs.NewPruneNotificationsTask(cleanupRepo),
		jobs.NewHardDeleteGiftSendsTask(giftSendRepo),
	}
	for _, task := range sweeps {
		if err := scheduler.Register(task); err != nil {
			return fmt.Errorf("failed to register sweep %s: %w", task.Name(), err)
		}
	}
	scheduler.Run()

	// Initialize handlers
	giftHandler := handlers.NewGiftHandler(giftUsecase)
	walletHandler := handlers.NewWalletHandler(walletUsecase)
	grantHandler := handlers.NewGrantHandler(grantUsecase)
	adminHandler := handlers.NewAdminHandler(grantUsecase, walletUsecase, scheduler, adminActionRepo)

	authMiddleware := middleware.AuthMiddleware(jwtService)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		giftHandler:    giftHandler,
		walletHandler:  walletHandler,
		grantHandler:   grantHandler,
		adminHandler:   adminHandler,
		authMiddleware: authMiddleware,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := scheduler.Shutdown(shutdownCtx); err != nil {
			log.Printf("Sweep scheduler shutdown: %v", err)
		}
	}()

	// Start server
	log.Printf("Giftroom Backend starting on port %s", cfg.Server.Port)
	log.Printf("API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
