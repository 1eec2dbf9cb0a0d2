package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fridgebot/backend/config"
	httpDelivery "github.com/fridgebot/backend/internal/delivery/http"
	"github.com/fridgebot/backend/internal/domain"
	"github.com/fridgebot/backend/internal/infrastructure/lock"
	"github.com/fridgebot/backend/internal/infrastructure/store"
	"github.com/fridgebot/backend/internal/pkg/logger"
	"github.com/fridgebot/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting FridgeBot backend",
		"version", "1.0.0",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"db_driver", cfg.Database.Driver,
		"lock_type", cfg.Lock.Type,
		"cutoff", cfg.Parser.Cutoff,
	)

	ctx := context.Background()

	// Initialize the inventory store
	db, err := store.Open(store.Config{
		Driver:     cfg.Database.Driver,
		DSN:        cfg.Database.DSN,
		Timeout:    cfg.Database.Timeout,
		MaxRetries: cfg.Database.MaxRetries,
	}, log)
	if err != nil {
		log.Fatal("failed to open database", "error", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			log.Fatal("failed to migrate database", "error", err)
		}
	}
	if cfg.Database.SeedUnits {
		if err := db.SeedUnitTables(ctx, domain.DefaultUnitTables()); err != nil {
			log.Fatal("failed to seed unit tables", "error", err)
		}
	}

	// Load the catalog snapshot; the server refuses to start without one
	snapshots := usecase.NewSnapshotStore(store.NewCatalogRepo(db), cfg.Parser.Cutoff, log)
	if _, err := snapshots.Reload(ctx); err != nil {
		log.Fatal("failed to load catalog", "error", err)
	}

	// Per-user lock
	var locker domain.UserLocker
	switch cfg.Lock.Type {
	case "redis":
		client, err := lock.NewRedisClient(ctx, cfg.Lock.RedisURL)
		if err != nil {
			log.Fatal("failed to connect to redis", "error", err)
		}
		defer client.Close()
		locker = lock.NewRedis(client, cfg.Lock.TTL, cfg.Lock.Wait, log)
	default:
		locker = lock.NewMemory(cfg.Lock.Wait)
	}

	// Initialize usecase layer
	inventory := store.NewInventoryRepo(db)
	users := store.NewUserRepo(db)
	reconciler := usecase.NewInventoryReconciler(inventory, locker, snapshots, log)
	service := usecase.NewInventoryService(snapshots, reconciler, inventory, users, log)
	equipment := usecase.NewEquipmentService(snapshots, store.NewEquipmentRepo(db), users, log)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(service, equipment, snapshots, log)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	go func() {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	log.Info("server exited")
}
