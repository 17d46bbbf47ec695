package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("")
	v.AutomaticEnv()

	// Set default values
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("WP_POST_TYPE", "post")
	v.SetDefault("WP_POST_STATUS", "publish")
	v.SetDefault("MAX_IMAGE_SIZE_MB", 2)
	v.SetDefault("MAX_NUM_USERS", 10)
	v.SetDefault("USERS_FILE", "users.json")
	v.SetDefault("PASSCODES_FILE", "passcodes.json")

	// Define environment variables
	v.BindEnv("TELEGRAM_BOT_TOKEN")
	v.BindEnv("SUPERUSER_ID")
	v.BindEnv("WP_SITE_URL")
	v.BindEnv("WP_USERNAME")
	v.BindEnv("WP_APPLICATION_PASSWORD")
	v.BindEnv("WP_POST_TYPE")
	v.BindEnv("WP_POST_STATUS")
	v.BindEnv("MAX_IMAGE_SIZE_MB")
	v.BindEnv("MAX_NUM_USERS")
	v.BindEnv("USERS_FILE")
	v.BindEnv("PASSCODES_FILE")
	v.BindEnv("LOG_LEVEL")

	cfg := &Config{
		LogLevel: v.GetString("LOG_LEVEL"),
		Telegram: TelegramConfig{
			Token:       strings.TrimSpace(v.GetString("TELEGRAM_BOT_TOKEN")),
			SuperuserID: v.GetInt64("SUPERUSER_ID"),
		},
		WordPress: WordPressConfig{
			URL:         strings.TrimRight(strings.TrimSpace(v.GetString("WP_SITE_URL")), "/"),
			User:        strings.TrimSpace(v.GetString("WP_USERNAME")),
			AppPassword: strings.TrimSpace(v.GetString("WP_APPLICATION_PASSWORD")),
			PostType:    v.GetString("WP_POST_TYPE"),
			Status:      v.GetString("WP_POST_STATUS"),
		},
		Storage: StorageConfig{
			UsersFile:     v.GetString("USERS_FILE"),
			PasscodesFile: v.GetString("PASSCODES_FILE"),
		},
		Limits: LimitsConfig{
			MaxImageMB: v.GetInt("MAX_IMAGE_SIZE_MB"),
			MaxUsers:   v.GetInt("MAX_NUM_USERS"),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.Telegram.Token == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required")
	}

	if cfg.Telegram.SuperuserID == 0 {
		return errors.New("SUPERUSER_ID is required")
	}

	if cfg.WordPress.URL == "" {
		return errors.New("WP_SITE_URL is required")
	}
	if cfg.WordPress.User == "" {
		return errors.New("WP_USERNAME is required")
	}
	if cfg.WordPress.AppPassword == "" {
		return errors.New("WP_APPLICATION_PASSWORD is required")
	}

	if cfg.Limits.MaxImageMB < 1 {
		return errors.New("MAX_IMAGE_SIZE_MB must be at least 1")
	}

	return nil
}
