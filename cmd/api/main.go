package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/srgjo27/rental_backoffice/internal/adapter/handler"
	"github.com/srgjo27/rental_backoffice/internal/adapter/repository/memory"
	"github.com/srgjo27/rental_backoffice/internal/adapter/repository/postgres"
	"github.com/srgjo27/rental_backoffice/internal/core/ports"
	"github.com/srgjo27/rental_backoffice/internal/core/services"
	"github.com/srgjo27/rental_backoffice/internal/platform/config"
	"github.com/srgjo27/rental_backoffice/internal/platform/database"
	"github.com/srgjo27/rental_backoffice/internal/platform/logger"
)

type adapters struct {
	store     ports.ReservationStore
	units     ports.UnitDirectory
	blacklist ports.BlacklistDirectory
	settings  ports.SettingsSource
	closeFn   func() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg.AppName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := buildAdapters(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer deps.closeFn()

	log.Infof("Connecting to Redis at %s...", cfg.Redis.Addr())

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr(),
		DB:   cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Info("Redis connected successfully")

	reservationService := services.NewReservationService(
		deps.store,
		deps.units,
		deps.blacklist,
		deps.settings,
		redisClient,
		log,
		services.WithCalendarTTL(cfg.CalendarCacheTTL),
	)

	reservationHandler := handler.NewReservationHandler(reservationService, log)

	router := mux.NewRouter()
	reservationHandler.RegisterRoutes(router)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "Authorization", handler.TenantHeader},
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      corsHandler.Handler(router),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("Server starting on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exiting")
}

func buildAdapters(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*adapters, error) {
	if cfg.StorageDriver == config.StorageMemory {
		log.Warn("Using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		return &adapters{
			store:     store,
			units:     store,
			blacklist: store,
			settings:  store,
			closeFn:   func() error { return nil },
		}, nil
	}

	db, err := database.NewPostgresDB(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	isolation := cfg.Isolation
	if isolation == sql.LevelSerializable {
		log.Info("Reservation transactions run at serializable isolation")
	}

	return &adapters{
		store:     postgres.NewReservationRepository(db, isolation),
		units:     postgres.NewUnitRepository(db),
		blacklist: postgres.NewBlacklistRepository(db),
		settings:  postgres.NewSettingsRepository(db, cfg.DefaultCurrency),
		closeFn:   db.Close,
	}, nil
}
