package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"

	_ "github.com/comitanigiacomo/cadence-engine/docs"
	"github.com/comitanigiacomo/cadence-engine/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/cadence-engine/internal/adapters/handler/http"
	"github.com/comitanigiacomo/cadence-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/cadence-engine/internal/config"
	"github.com/comitanigiacomo/cadence-engine/internal/core/domain"
	"github.com/comitanigiacomo/cadence-engine/internal/core/services"
	"github.com/comitanigiacomo/cadence-engine/internal/core/workers"
)

// @title        Cadence Engine API
// @version      1.0
// @description  Periodicity-aware habit tracking and streak analytics service.
// @BasePath     /api/v1
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	startTime := time.Now()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Critical: invalid configuration: %v", err)
	}

	var (
		habitRepo    domain.HabitRepository
		checkOffRepo domain.CheckOffRepository
		db           *sqlx.DB
	)

	switch cfg.StorageDriver {
	case config.DriverPostgres:
		log.Println("Connecting to database...")

		db, err = sqlx.Connect("pgx", cfg.DSN())
		if err != nil {
			log.Fatalf("Critical: Failed to connect to database: %v", err)
		}
		defer db.Close()

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		log.Println("Database connected successfully.")

		habitRepo = repository.NewPostgresHabitRepository(db)
		checkOffRepo = repository.NewPostgresCheckOffRepository(db)

	case config.DriverSQLite:
		log.Printf("Opening sqlite database at %s...", cfg.SQLitePath)

		store, err := repository.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("Critical: Failed to open sqlite store: %v", err)
		}
		defer store.Close()

		db = store.DB()
		habitRepo = repository.NewSQLiteHabitRepository(store)
		checkOffRepo = repository.NewSQLiteCheckOffRepository(store)
	}

	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient, err = cache.NewRedisClient(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Printf("Warning: Redis unavailable, running without cache and rate limiting: %v", err)
		} else {
			defer redisClient.Close()
			habitRepo = repository.NewCachedHabitRepository(habitRepo, redisClient)
			log.Println("Redis connected: habit cache and rate limiting enabled.")
		}
	}

	streakWorker := workers.NewStreakWorker(habitRepo, checkOffRepo)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	streakWorker.Start(workerCtx)

	habitService := services.NewHabitService(habitRepo, checkOffRepo, streakWorker)
	reportService := services.NewReportService(habitRepo, checkOffRepo)
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	authService := services.NewAuthService(cfg.AdminPasswordHash, tokenService)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:   adapterHTTP.NewAuthHandler(authService),
		HabitHandler:  adapterHTTP.NewHabitHandler(habitService),
		ReportHandler: adapterHTTP.NewReportHandler(reportService),
		TokenService:  tokenService,
		DB:            db,
		Redis:         redisClient,
		RateLimit:     cfg.RateLimit,
		StartTime:     startTime,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Cadence Engine running on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}
