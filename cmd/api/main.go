package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/crucial707/itemvault/internal/auth"
	"github.com/crucial707/itemvault/internal/backup"
	"github.com/crucial707/itemvault/internal/config"
	"github.com/crucial707/itemvault/internal/db"
	"github.com/crucial707/itemvault/internal/repo"
	"github.com/crucial707/itemvault/internal/storage"
)

func main() {
	cfg := config.Load()

	setupLogger(cfg.LogFormat)

	if cfg.Env == "prod" && cfg.JWTSecret == "supersecretkey" {
		log.Fatal("JWT_SECRET must be set to a non-default value when ENV=prod")
	}

	usersStore, itemsStore, err := openStores(cfg)
	if err != nil {
		log.Fatalf("Failed to open stores: %v", err)
	}

	users := repo.NewUserRepo(usersStore, cfg.BcryptCost)
	items := repo.NewItemRepo(itemsStore)
	tokens := auth.NewService([]byte(cfg.JWTSecret), time.Duration(cfg.JWTExpireHours)*time.Hour)

	// Periodic copies of the flat-file snapshots. Only meaningful for the
	// file driver; the other backends have their own durability story.
	if cfg.BackupCron != "" && cfg.StoreDriver == "file" {
		sources := []string{
			filepath.Join(cfg.DataDir, "users.json"),
			filepath.Join(cfg.DataDir, "items.json"),
		}
		c, err := backup.Run(cfg.BackupCron, cfg.BackupDir, sources)
		if err != nil {
			log.Fatalf("Failed to start backup scheduler: %v", err)
		}
		defer c.Stop()
	}

	router := newRouter(users, items, tokens, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting server", "port", cfg.Port, "store", cfg.StoreDriver)
		var err error
		if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
			err = server.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	slog.Info("server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	slog.Info("server stopped")
}

// openStores builds the users and items snapshot stores for the configured driver.
func openStores(cfg config.Config) (storage.Snapshot, storage.Snapshot, error) {
	switch cfg.StoreDriver {
	case "file":
		return storage.NewFileStore(filepath.Join(cfg.DataDir, "users.json")),
			storage.NewFileStore(filepath.Join(cfg.DataDir, "items.json")),
			nil

	case "postgres":
		database, err := db.Connect(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass)
		if err != nil {
			return nil, nil, err
		}
		database.SetMaxOpenConns(cfg.DBMaxOpenConns)
		database.SetMaxIdleConns(cfg.DBMaxIdleConns)
		if err := db.Run(db.URL(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass)); err != nil {
			return nil, nil, err
		}
		return storage.NewPostgresStore(database, "users"),
			storage.NewPostgresStore(database, "items"),
			nil

	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, nil, err
		}
		return storage.NewRedisStore(client, "itemvault:users"),
			storage.NewRedisStore(client, "itemvault:items"),
			nil

	default:
		log.Fatalf("Unknown STORE_DRIVER %q (want file, postgres, or redis)", cfg.StoreDriver)
		return nil, nil, nil
	}
}

// setupLogger configures slog as the process-wide logger, text or json per LOG_FORMAT.
func setupLogger(format string) {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}
