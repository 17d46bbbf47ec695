package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("SUPERUSER_ID", "999")
	t.Setenv("WP_SITE_URL", "https://blog.example.com")
	t.Setenv("WP_USERNAME", "editor")
	t.Setenv("WP_APPLICATION_PASSWORD", "app pass word")
}

func TestLoadWithDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "123:abc", cfg.Telegram.Token)
	require.Equal(t, int64(999), cfg.Telegram.SuperuserID)
	require.Equal(t, "https://blog.example.com", cfg.WordPress.URL)
	require.Equal(t, "post", cfg.WordPress.PostType)
	require.Equal(t, "publish", cfg.WordPress.Status)
	require.Equal(t, 2, cfg.Limits.MaxImageMB)
	require.Equal(t, 10, cfg.Limits.MaxUsers)
	require.Equal(t, "users.json", cfg.Storage.UsersFile)
	require.Equal(t, "passcodes.json", cfg.Storage.PasscodesFile)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadTrimsTrailingSlashFromSiteURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("WP_SITE_URL", "https://blog.example.com/ ")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://blog.example.com", cfg.WordPress.URL)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("WP_POST_STATUS", "draft")
	t.Setenv("MAX_IMAGE_SIZE_MB", "5")
	t.Setenv("MAX_NUM_USERS", "3")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "draft", cfg.WordPress.Status)
	require.Equal(t, 5, cfg.Limits.MaxImageMB)
	require.Equal(t, 3, cfg.Limits.MaxUsers)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRequiresToken(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	_, err := Load()
	require.ErrorContains(t, err, "TELEGRAM_BOT_TOKEN")
}

func TestLoadRequiresSuperuser(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SUPERUSER_ID", "")

	_, err := Load()
	require.ErrorContains(t, err, "SUPERUSER_ID")
}

func TestLoadRequiresWordPressCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("WP_APPLICATION_PASSWORD", "")

	_, err := Load()
	require.ErrorContains(t, err, "WP_APPLICATION_PASSWORD")
}
