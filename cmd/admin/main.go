package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KulmamatovZalkar/newedges/internal/admin"
	"github.com/KulmamatovZalkar/newedges/internal/common/config"
	"github.com/KulmamatovZalkar/newedges/internal/common/database"
	"github.com/KulmamatovZalkar/newedges/internal/common/logger"
	"github.com/KulmamatovZalkar/newedges/internal/store/postgres"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "admin: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return err
	}
	defer pg.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = pg.Ping(pingCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("postgres unreachable: %w", err)
	}

	// The admin writes through the same store; cache invalidation is not
	// needed here because this process never reads flow state.
	store := postgres.New(pg.DB, nil, log)
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Admin.ListenAddress,
		Handler:      admin.NewServer(store, log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("admin API listening", map[string]interface{}{"address": cfg.Admin.ListenAddress})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
