// Command healthmetrics serves the health metrics calculator API and web UI.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	adapthttp "healthmetrics/internal/adapter/http"
	"healthmetrics/internal/adapter/memory"
	"healthmetrics/internal/adapter/postgres"
	"healthmetrics/internal/app"
	"healthmetrics/internal/config"
	"healthmetrics/internal/domain"
)

// Set via ldflags at build time.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

const sessionPurgeInterval = time.Hour

type stores struct {
	history  domain.HistoryRepository
	users    domain.UserRepository
	sessions domain.SessionRepository
	close    func() error
}

func main() {
	log := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "healthmetrics").
		Str("version", Version).
		Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	log = log.Level(cfg.LogLevel)
	if !cfg.IsProduction() {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	log.Info().Str("env", cfg.Env).Str("build_time", BuildTime).Msg("starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}
	defer func() {
		if err := st.close(); err != nil {
			log.Error().Err(err).Msg("failed to close storage")
		}
	}()

	broker := app.NewBroker(log)
	authSvc := app.NewAuthService(st.users, st.sessions, cfg.SessionTTL)

	var oidcCfg adapthttp.OIDCConfig
	if cfg.OIDC.Enabled() {
		oidcCfg, err = adapthttp.NewOIDCConfig(ctx, cfg.OIDC.Issuer, cfg.OIDC.ClientID, cfg.OIDC.ClientSecret, cfg.OIDC.RedirectURL)
		if err != nil {
			log.Fatal().Err(err).Str("issuer", cfg.OIDC.Issuer).Msg("failed to configure SSO")
		}
		log.Info().Str("issuer", cfg.OIDC.Issuer).Msg("SSO enabled")
	}

	srv := adapthttp.New(adapthttp.Config{
		Health:                app.NewHealthService(st.history, broker, log),
		History:               app.NewHistoryService(st.history, broker, log),
		Trends:                app.NewTrendsService(st.history),
		Auth:                  authSvc,
		Events:                broker,
		OIDC:                  oidcCfg,
		WebDir:                cfg.WebDir,
		Logger:                log,
		SecureCookies:         cfg.SecureCookies,
		TrustForwardAuth:      cfg.TrustForwardAuth,
		AuthRequestsPerMinute: cfg.AuthRequestsPerMinute,
	})
	if cfg.TrustForwardAuth {
		log.Info().Msg("trusting Remote-User header from reverse proxy")
	}
	if cfg.DisableAuth {
		log.Warn().Msg("authentication disabled")
		srv = srv.WithoutAuth()
	}

	// No WriteTimeout: it would cut off the record stream websocket.
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go purgeSessions(ctx, authSvc, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}

func openStores(ctx context.Context, cfg config.Config, log zerolog.Logger) (stores, error) {
	if cfg.DatabaseURL == "" {
		log.Warn().Msg("DATABASE_URL not set, using in-memory storage")
		db := memory.New()
		return stores{
			history:  db.NewHistoryRepo(),
			users:    db.NewUserRepo(),
			sessions: db.NewSessionRepo(),
			close:    func() error { return nil },
		}, nil
	}

	db, err := postgres.Open(ctx, cfg.DatabaseURL, cfg.DBConnectTimeout, log)
	if err != nil {
		return stores{}, err
	}
	return stores{
		history:  postgres.NewHistoryRepo(db),
		users:    postgres.NewUserRepo(db),
		sessions: postgres.NewSessionRepo(db),
		close:    db.Close,
	}, nil
}

func purgeSessions(ctx context.Context, auth *app.AuthService, log zerolog.Logger) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := auth.PurgeExpiredSessions(ctx)
			if err != nil {
				log.Error().Err(err).Msg("failed to purge expired sessions")
				continue
			}
			if n > 0 {
				log.Debug().Int64("removed", n).Msg("purged expired sessions")
			}
		}
	}
}
