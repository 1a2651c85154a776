package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"driver-portal/internal/artifact"
	"driver-portal/internal/auth"
	"driver-portal/internal/common/config"
	"driver-portal/internal/common/database"
	"driver-portal/internal/common/logger"
	"driver-portal/internal/lifecycle"
	"driver-portal/internal/notify"
	"driver-portal/internal/server"
	"driver-portal/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("starting driver portal", map[string]interface{}{
		"environment": cfg.App.Environment,
		"backend":     cfg.Storage.Backend,
		"port":        cfg.Server.Port,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	records, cleanup, err := buildRecordStore(ctx, cfg, log)
	if err != nil {
		log.Error("record store init failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	defer cleanup()

	receipts := artifact.NewStorage(cfg.Storage.PDFDir, artifact.NewGenerator(""), records, log)

	redisClient := database.NewRedis(cfg.Redis)
	defer redisClient.Close()
	if err := retryWithBackoff(ctx, 5, func() error { return redisClient.Ping(ctx) }); err != nil {
		log.Error("redis unreachable", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	sessions := auth.NewSessionStore(
		redisClient.Client,
		time.Duration(cfg.Auth.SessionTTLHrs)*time.Hour,
		log,
	)

	var notifier lifecycle.Notifier
	if cfg.Notifications.Enabled {
		emailer, err := notify.NewEmailNotifier(ctx, cfg.Notifications, log)
		if err != nil {
			log.Error("email notifier init failed", map[string]interface{}{"error": err.Error()})
			os.Exit(1)
		}
		notifier = emailer
	}

	svc := lifecycle.New(records, receipts, notifier, log)
	srv := server.New(cfg, log, svc, receipts, records, sessions)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", map[string]interface{}{"addr": httpServer.Addr})
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received", nil)
	case err := <-errCh:
		log.Error("http server failed", map[string]interface{}{"error": err.Error()})
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("graceful shutdown incomplete", map[string]interface{}{"error": err.Error()})
	}
	log.Info("driver portal stopped", nil)
}

// buildRecordStore wires the configured persistence backend and returns the
// store with its cleanup func.
func buildRecordStore(ctx context.Context, cfg *config.Config, log logger.Logger) (store.Store, func(), error) {
	switch cfg.Storage.Backend {
	case "postgres":
		pg, err := database.NewPostgres(cfg.Storage.Postgres)
		if err != nil {
			return nil, nil, err
		}
		if err := retryWithBackoff(ctx, 5, func() error { return pg.Ping(ctx) }); err != nil {
			pg.Close()
			return nil, nil, fmt.Errorf("postgres unreachable: %w", err)
		}
		st := store.NewPostgresStore(pg.DB, log)
		if err := st.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		return st, func() { pg.Close() }, nil
	default:
		return store.NewFileStore(cfg.Storage.File.Path, log), func() {}, nil
	}
}

// retryWithBackoff retries op with doubling delays, starting at one second.
func retryWithBackoff(ctx context.Context, attempts int, op func() error) error {
	var err error
	delay := time.Second
	for i := 0; i < attempts; i++ {
		if err = op(); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}
