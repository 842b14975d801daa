package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := FromLookup(lookupMap(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "web", cfg.WebDir)
	assert.Equal(t, "development", cfg.Env)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 30*time.Second, cfg.DBConnectTimeout)
	assert.Equal(t, 10, cfg.AuthRequestsPerMinute)
	assert.False(t, cfg.SecureCookies)
	assert.False(t, cfg.TrustForwardAuth)
	assert.False(t, cfg.OIDC.Enabled())
}

func TestFromLookup_Overrides(t *testing.T) {
	cfg, err := FromLookup(lookupMap(map[string]string{
		"ADDR":               ":9090",
		"DATABASE_URL":       "postgres://localhost/health",
		"LOG_LEVEL":          "DEBUG",
		"APP_ENV":            "production",
		"SESSION_TTL":        "2h",
		"DB_CONNECT_TIMEOUT": "5s",
		"AUTH_RATE_LIMIT":    "3",
		"TRUST_FORWARD_AUTH": "true",
		"OIDC_ISSUER":        "https://id.example.com",
		"OIDC_CLIENT_ID":     "health",
		"OIDC_REDIRECT_URL":  "https://health.example.com/api/auth/sso/callback",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "postgres://localhost/health", cfg.DatabaseURL)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Second, cfg.DBConnectTimeout)
	assert.Equal(t, 3, cfg.AuthRequestsPerMinute)
	assert.True(t, cfg.TrustForwardAuth)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.SecureCookies, "production defaults to secure cookies")
	assert.True(t, cfg.OIDC.Enabled())
}

func TestFromLookup_Errors(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}},
		{"bad ttl", map[string]string{"SESSION_TTL": "forever"}},
		{"negative ttl", map[string]string{"SESSION_TTL": "-1h"}},
		{"bad bool", map[string]string{"SECURE_COOKIES": "maybe"}},
		{"bad forward auth", map[string]string{"TRUST_FORWARD_AUTH": "sometimes"}},
		{"bad rate", map[string]string{"AUTH_RATE_LIMIT": "0"}},
		{"incomplete oidc", map[string]string{"OIDC_ISSUER": "https://id.example.com"}},
		{"no auth in production", map[string]string{"APP_ENV": "production", "DISABLE_AUTH": "true"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromLookup(lookupMap(tc.vars))
			assert.Error(t, err)
		})
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("WEB_DIR=/srv/web\nADDR=:7000\n"), 0o600))

	// Variables already in the environment take precedence over the file.
	t.Setenv("ADDR", ":7100")
	// godotenv sets WEB_DIR in the process environment; register it so it is
	// restored after the test.
	t.Setenv("WEB_DIR", "")
	require.NoError(t, os.Unsetenv("WEB_DIR"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/web", cfg.WebDir)
	assert.Equal(t, ":7100", cfg.Addr)
}

func TestLoad_MissingFileIgnored(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}
