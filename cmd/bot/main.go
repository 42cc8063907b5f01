package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KulmamatovZalkar/newedges/internal/common/config"
	"github.com/KulmamatovZalkar/newedges/internal/common/database"
	apperrors "github.com/KulmamatovZalkar/newedges/internal/common/errors"
	"github.com/KulmamatovZalkar/newedges/internal/common/logger"
	"github.com/KulmamatovZalkar/newedges/internal/flow"
	"github.com/KulmamatovZalkar/newedges/internal/media"
	"github.com/KulmamatovZalkar/newedges/internal/notify"
	"github.com/KulmamatovZalkar/newedges/internal/poller"
	"github.com/KulmamatovZalkar/newedges/internal/session"
	"github.com/KulmamatovZalkar/newedges/internal/store/postgres"
	"github.com/KulmamatovZalkar/newedges/internal/telegram"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "bot: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("starting onboarding bot", map[string]interface{}{
		"environment": cfg.App.Environment,
		"version":     cfg.App.Version,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := connectPostgres(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer pg.Close()

	var cache *session.Cache
	if cfg.Database.Redis.Address != "" {
		rdb, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		if err := rdb.Ping(ctx); err != nil {
			log.WithError(err).Warn("redis unavailable, running without session cache", nil)
		} else {
			defer rdb.Close()
			cache = session.NewCache(rdb.Client, time.Duration(cfg.Database.Redis.TTLSeconds)*time.Second)
			log.Info("session cache enabled", map[string]interface{}{
				"address": cfg.Database.Redis.Address,
			})
		}
	}

	store := postgres.New(pg.DB, cache, log)
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	token, err := resolveToken(ctx, store, cfg)
	if err != nil {
		return err
	}

	client := telegram.NewClient(cfg.Telegram.APIBaseURL, token)
	mediaStore := media.NewStore(cfg.Media.Dir)

	var sink flow.Sink
	if len(cfg.Telegram.AdminChatIDs) > 0 {
		sink = notify.NewTelegramSink(client, cfg.Telegram.AdminChatIDs, log)
	}

	engine := flow.NewEngine(store, client, mediaStore, client, sink, log)

	metricsSrv := &http.Server{
		Addr:    cfg.Metrics.ListenAddress,
		Handler: promhttp.Handler(),
	}
	go func() {
		log.Info("metrics listening", map[string]interface{}{"address": cfg.Metrics.ListenAddress})
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("metrics server failed", nil)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}()

	p := poller.New(client, engine,
		log,
		time.Duration(cfg.Telegram.PollTimeout)*time.Second,
		cfg.Telegram.PollLimit)

	log.Info("polling for updates", nil)
	if err := p.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	log.Info("shutting down", nil)
	return nil
}

// connectPostgres retries with backoff so the bot survives starting before
// the database in a compose stack.
func connectPostgres(ctx context.Context, cfg *config.Config, log logger.Logger) (*database.PostgresClient, error) {
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return nil, err
	}

	backoff := time.Second
	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = pg.Ping(pingCtx)
		cancel()
		if err == nil {
			return pg, nil
		}
		if attempt >= 10 {
			pg.Close()
			return nil, fmt.Errorf("postgres unreachable after %d attempts: %w", attempt, err)
		}

		log.WithError(err).Warn("postgres not ready, retrying", map[string]interface{}{
			"attempt": attempt,
			"backoff": backoff.String(),
		})
		select {
		case <-ctx.Done():
			pg.Close()
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 10*time.Second {
			backoff *= 2
		}
	}
}

// resolveToken prefers the token stored by the admin over the environment
// fallback. Neither present means the bot cannot talk to Telegram at all.
func resolveToken(ctx context.Context, store *postgres.Store, cfg *config.Config) (string, error) {
	settings, err := store.GetSettings(ctx)
	if err != nil {
		return "", err
	}
	if settings.Token != "" {
		return settings.Token, nil
	}
	if cfg.Telegram.Token != "" {
		return cfg.Telegram.Token, nil
	}
	return "", apperrors.NewConfigurationMissingError("bot token: set it via the admin API or BOT_TOKEN")
}
