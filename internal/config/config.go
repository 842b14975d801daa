// Package config reads server settings from the environment, optionally
// seeded from .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// OIDC holds the optional SSO provider settings. SSO is enabled when Issuer
// is set.
type OIDC struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Enabled reports whether SSO is configured.
func (o OIDC) Enabled() bool {
	return o.Issuer != ""
}

// Config is the full server configuration.
type Config struct {
	Addr     string
	WebDir   string
	Env      string
	LogLevel zerolog.Level

	// DatabaseURL selects PostgreSQL; empty selects the in-memory store.
	DatabaseURL      string
	DBConnectTimeout time.Duration

	SessionTTL            time.Duration
	SecureCookies         bool
	DisableAuth           bool
	TrustForwardAuth      bool
	AuthRequestsPerMinute int

	OIDC OIDC
}

// IsProduction reports whether APP_ENV is "production".
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads .env files (missing files are ignored, existing variables win)
// and then parses the environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary variable source.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	e := env{lookup: lookup}

	cfg := Config{
		Addr:        e.str("ADDR", ":8080"),
		WebDir:      e.str("WEB_DIR", "web"),
		Env:         e.str("APP_ENV", "development"),
		DatabaseURL: e.str("DATABASE_URL", ""),
		OIDC: OIDC{
			Issuer:       e.str("OIDC_ISSUER", ""),
			ClientID:     e.str("OIDC_CLIENT_ID", ""),
			ClientSecret: e.str("OIDC_CLIENT_SECRET", ""),
			RedirectURL:  e.str("OIDC_REDIRECT_URL", ""),
		},
	}

	level, err := zerolog.ParseLevel(strings.ToLower(e.str("LOG_LEVEL", "info")))
	if err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	if cfg.DBConnectTimeout, err = e.duration("DB_CONNECT_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = e.duration("SESSION_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.SecureCookies, err = e.boolean("SECURE_COOKIES", cfg.IsProduction()); err != nil {
		return Config{}, err
	}
	if cfg.DisableAuth, err = e.boolean("DISABLE_AUTH", false); err != nil {
		return Config{}, err
	}
	if cfg.TrustForwardAuth, err = e.boolean("TRUST_FORWARD_AUTH", false); err != nil {
		return Config{}, err
	}
	if cfg.AuthRequestsPerMinute, err = e.integer("AUTH_RATE_LIMIT", 10); err != nil {
		return Config{}, err
	}

	if cfg.OIDC.Enabled() && (cfg.OIDC.ClientID == "" || cfg.OIDC.RedirectURL == "") {
		return Config{}, errors.New("OIDC_ISSUER requires OIDC_CLIENT_ID and OIDC_REDIRECT_URL")
	}
	if cfg.DisableAuth && cfg.IsProduction() {
		return Config{}, errors.New("DISABLE_AUTH is not allowed when APP_ENV=production")
	}
	return cfg, nil
}

type env struct {
	lookup func(string) (string, bool)
}

func (e env) str(key, fallback string) string {
	if v, ok := e.lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func (e env) duration(key string, fallback time.Duration) (time.Duration, error) {
	v := e.str(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: want a positive duration such as 30s, got %q", key, v)
	}
	return d, nil
}

func (e env) boolean(key string, fallback bool) (bool, error) {
	v := e.str(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func (e env) integer(key string, fallback int) (int, error) {
	v := e.str(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s: want a positive integer, got %q", key, v)
	}
	return n, nil
}
