package config

// Config represents the application configuration
type Config struct {
	Telegram  TelegramConfig
	WordPress WordPressConfig
	Storage   StorageConfig
	Limits    LimitsConfig
	LogLevel  string
}

// TelegramConfig holds the Telegram bot configuration
type TelegramConfig struct {
	Token       string
	SuperuserID int64
}

// WordPressConfig holds the WordPress site configuration
type WordPressConfig struct {
	URL         string
	User        string
	AppPassword string
	PostType    string
	Status      string
}

// StorageConfig holds the paths of the JSON-file backed stores
type StorageConfig struct {
	UsersFile     string
	PasscodesFile string
}

// LimitsConfig holds resource and user limits
type LimitsConfig struct {
	MaxImageMB int
	MaxUsers   int
}
