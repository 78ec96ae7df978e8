package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.ServerPort)
	require.Equal(t, "./wits.db", cfg.DatabasePath)
	require.Equal(t, "0 0 * * *", cfg.FeaturedRotationCron)
	require.Equal(t, "http://localhost:3000", cfg.SiteURL)
	require.Equal(t, 587, cfg.SMTP.Port)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "9000")
	t.Setenv("ADMIN_EMAIL", "Admin@Wits.App")
	t.Setenv("SITE_URL", "https://wits.app/")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.ServerPort)
	// The admin address is case-folded once at load time.
	require.Equal(t, "admin@wits.app", cfg.AdminEmail)
	// Trailing slash is trimmed so reset links join cleanly.
	require.Equal(t, "https://wits.app", cfg.SiteURL)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
}
