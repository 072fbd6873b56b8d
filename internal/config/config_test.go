package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/akulov/reservd/internal/config"
)

func TestDefaults(t *testing.T) {
	cfg, err := config.New()
	require.NoError(t, err)

	require.Equal(t, "DEV", cfg.Env)
	require.True(t, cfg.IsDev())
	require.Equal(t, ":8080", cfg.ListenAddr())
	require.Equal(t, 15*time.Minute, cfg.Auth.AccessTTL)
	require.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTTL)
	require.Equal(t, "refresh_token", cfg.Auth.RefreshCookieName)
	require.NotEqual(t, cfg.Auth.AccessSecret, cfg.Auth.RefreshSecret)
	require.Equal(t, 3, cfg.Backup.Retention)
	require.True(t, cfg.Cors.IsWildcard())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("PORT", ":9090")
	t.Setenv("ACCESS_TOKEN_TTL", "5m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com,https://admin.example.com")

	cfg, err := config.New()
	require.NoError(t, err)

	require.False(t, cfg.IsDev())
	require.Equal(t, ":9090", cfg.ListenAddr())
	require.Equal(t, 5*time.Minute, cfg.Auth.AccessTTL)
	require.True(t, cfg.Cors.IsAllowedOrigin("https://app.example.com"))
	require.False(t, cfg.Cors.IsAllowedOrigin("https://evil.example.com"))
	require.False(t, cfg.Cors.IsWildcard())
}

func TestRejectsBadValues(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "-1m")
	_, err := config.New()
	require.Error(t, err)
}

func TestRejectsBadRetention(t *testing.T) {
	t.Setenv("BACKUP_RETENTION", "0")
	_, err := config.New()
	require.Error(t, err)
}
