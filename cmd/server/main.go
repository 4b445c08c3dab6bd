package main

import (
	"context"
	"flag"
	stdlog "log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/diewo77/go-energy/internal/auth"
	"github.com/diewo77/go-energy/internal/config"
	"github.com/diewo77/go-energy/internal/db"
	"github.com/diewo77/go-energy/internal/log"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()
	logger := log.New("server", slog.LevelInfo)

	conn, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		stdlog.Fatalf("Failed to connect to database: %v", err)
	}

	if *migrateOnlyFlag {
		if err := db.Migrate(conn); err != nil {
			stdlog.Fatalf("Migration failed: %v", err)
		}
		logger.Info("migrations completed")
		return
	}

	if *seedOnlyFlag {
		if err := db.Seed(conn); err != nil {
			stdlog.Fatalf("Seeding failed: %v", err)
		}
		logger.Info("seeding completed")
		return
	}

	if cfg.Migrations {
		if err := db.Migrate(conn); err != nil {
			stdlog.Fatalf("Migration failed: %v", err)
		}
		logger.Info("migrations completed")
	}

	// Default categories (Electricité, Eau, Gaz)
	if err := db.Seed(conn); err != nil {
		stdlog.Fatalf("Seeding failed: %v", err)
	}

	sessions := auth.NewStore(conn, time.Duration(cfg.SessionTTLHours)*time.Hour)
	appHandler := NewApp(conn, sessions)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      log.Middleware(logger.WithComponent("http"))(appHandler),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			stdlog.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
	logger.Info("server stopped gracefully")
}
