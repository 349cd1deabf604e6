package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/wecomkit/rulesync/internal/constants"
)

// AppConfig represents the entire application configuration
type AppConfig struct {
	App      AppSettings      `yaml:"app"`
	Database DatabaseSettings `yaml:"database"`
	Server   ServerSettings   `yaml:"server"`
	Logging  LoggingSettings  `yaml:"logging"`
	CORS     CORSSettings     `yaml:"cors"`
	WeChat   WeChatSettings   `yaml:"wechat"`
	Sync     SyncSettings     `yaml:"sync"`
	Admin    AdminSettings    `yaml:"admin"`
}

// AppSettings contains general application settings
type AppSettings struct {
	Environment string `yaml:"environment" env:"APP_ENV"`
	Name        string `yaml:"name" env:"APP_NAME"`
	Version     string `yaml:"version" env:"APP_VERSION"`
}

// DatabaseSettings contains database connection settings
type DatabaseSettings struct {
	Driver   string `yaml:"driver" env:"DB_DRIVER"`
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     int    `yaml:"port" env:"DB_PORT"`
	Name     string `yaml:"name" env:"DB_NAME"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	SSLMode  string `yaml:"ssl_mode" env:"DB_SSL_MODE"`
	MaxConns int    `yaml:"max_conns" env:"DB_MAX_CONNS"`
	MinConns int    `yaml:"min_conns" env:"DB_MIN_CONNS"`
}

// ServerSettings contains HTTP server settings
type ServerSettings struct {
	Host            string        `yaml:"host" env:"SERVER_HOST"`
	Port            int           `yaml:"port" env:"SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
}

// LoggingSettings contains logging configuration
type LoggingSettings struct {
	Level      string `yaml:"level" env:"LOG_LEVEL"`
	Format     string `yaml:"format" env:"LOG_FORMAT"`
	RequestLog bool   `yaml:"request_log" env:"LOG_REQUESTS"`
}

// CORSSettings contains CORS configuration
type CORSSettings struct {
	AllowedOrigins   []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`
	AllowCredentials bool     `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS"`
}

// WeChatSettings contains WeChat Work API client configuration
type WeChatSettings struct {
	BaseURL     string        `yaml:"base_url" env:"WECHAT_BASE_URL"`
	HTTPTimeout time.Duration `yaml:"http_timeout" env:"WECHAT_HTTP_TIMEOUT"`
	RateQPS     int           `yaml:"rate_qps" env:"WECHAT_RATE_QPS"`
	RateBurst   int           `yaml:"rate_burst" env:"WECHAT_RATE_BURST"`
}

// SyncSettings contains the pull reconciliation job configuration
type SyncSettings struct {
	Enabled  bool          `yaml:"enabled" env:"SYNC_ENABLED"`
	Interval time.Duration `yaml:"interval" env:"SYNC_INTERVAL"`
	Timezone string        `yaml:"timezone" env:"SYNC_TIMEZONE"`
}

// AdminSettings contains admin API authentication configuration
type AdminSettings struct {
	APIKey string `yaml:"api_key" env:"ADMIN_API_KEY"`
}

// ConnectionString returns the database connection string for the configured driver
func (dbs *DatabaseSettings) ConnectionString() string {
	if dbs.Driver == "mysql" {
		// MariaDB/MySQL connection string format: username:password@tcp(host:port)/dbname
		password := dbs.Password
		if password != "" {
			password = ":" + password
		}
		return fmt.Sprintf(
			"%s%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&collation=utf8mb4_unicode_ci",
			dbs.User, password, dbs.Host, dbs.Port, dbs.Name,
		)
	}

	sslMode := dbs.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dbs.Host, dbs.Port, dbs.User, dbs.Password, dbs.Name, sslMode,
	)
}

// ServerAddress returns the complete server address
func (ss *ServerSettings) ServerAddress() string {
	return fmt.Sprintf("%s:%d", ss.Host, ss.Port)
}

// IsDevelopment checks if the application is running in development mode
func (as *AppSettings) IsDevelopment() bool {
	return strings.ToLower(as.Environment) == constants.EnvDevelopment
}

// IsProduction checks if the application is running in production mode
func (as *AppSettings) IsProduction() bool {
	return strings.ToLower(as.Environment) == constants.EnvProduction
}

// IsTesting checks if the application is running in testing mode
func (as *AppSettings) IsTesting() bool {
	return strings.ToLower(as.Environment) == constants.EnvTesting
}

// Location resolves the configured sync timezone into a *time.Location.
// Remote creation timestamps are converted with an explicit location instead
// of the process default, so runs behave the same across environments.
func (ss *SyncSettings) Location() (*time.Location, error) {
	if ss.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(ss.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid sync timezone %q: %w", ss.Timezone, err)
	}
	return loc, nil
}

var (
	// cfg holds the current application configuration
	cfg *AppConfig
)

// Load loads the configuration from a config file and environment variables
func Load(configPath string) (*AppConfig, error) {
	config := &AppConfig{}

	// Load configuration from file if it exists
	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		err = yaml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	// Override with environment variables
	if err := LoadEnv(config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	// Set defaults for missing values
	setDefaults(config)

	// Validate the configuration
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Save the configuration globally
	cfg = config

	// Log the configuration (but hide sensitive values)
	logConfig(config)

	return config, nil
}

// Get returns the current application configuration
func Get() *AppConfig {
	if cfg == nil {
		log.Fatal().Msg("configuration not loaded")
	}
	return cfg
}

// setDefaults sets default values for any missing configuration
func setDefaults(config *AppConfig) {
	// App defaults
	if config.App.Environment == "" {
		config.App.Environment = constants.EnvDevelopment
	}
	if config.App.Name == "" {
		config.App.Name = "rulesync"
	}
	if config.App.Version == "" {
		config.App.Version = "1.0.0"
	}

	if config.Server.Port == 0 {
		config.Server.Port = constants.DefaultServerPort
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = constants.DefaultReadTimeout
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = constants.DefaultWriteTimeout
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = constants.DefaultShutdownTimeout
	}

	if config.Database.Driver == "" {
		config.Database.Driver = constants.DefaultDBDriver
	}
	if config.Database.MaxConns == 0 {
		config.Database.MaxConns = constants.DefaultDBMaxConnections
	}
	if config.Database.MinConns == 0 {
		config.Database.MinConns = constants.DefaultDBMinConnections
	}

	// Logging defaults
	if config.Logging.Level == "" {
		config.Logging.Level = constants.DefaultLogLevel
	}
	if config.Logging.Format == "" {
		config.Logging.Format = constants.DefaultLogFormat
	}

	// CORS defaults
	if len(config.CORS.AllowedOrigins) == 0 {
		config.CORS.AllowedOrigins = []string{"*"}
	}

	// WeChat client defaults
	if config.WeChat.BaseURL == "" {
		config.WeChat.BaseURL = constants.DefaultWeChatBaseURL
	}
	if config.WeChat.HTTPTimeout == 0 {
		config.WeChat.HTTPTimeout = 30 * time.Second
	}
	if config.WeChat.RateQPS == 0 {
		config.WeChat.RateQPS = constants.DefaultWeChatQPS
	}
	if config.WeChat.RateBurst == 0 {
		config.WeChat.RateBurst = constants.DefaultWeChatBurst
	}

	// Sync defaults
	if config.Sync.Interval == 0 {
		config.Sync.Interval = constants.DefaultSyncInterval
	}
	if config.Sync.Timezone == "" {
		config.Sync.Timezone = constants.DefaultSyncTimezone
	}
}

// validateConfig validates that the configuration has all required values
func validateConfig(config *AppConfig) error {
	// Validate environment
	env := strings.ToLower(config.App.Environment)
	if env != constants.EnvDevelopment && env != constants.EnvTesting && env != constants.EnvProduction {
		// Instead of failing, use a default and warn
		log.Warn().Str("environment", config.App.Environment).Msg("Invalid environment, defaulting to development")
		config.App.Environment = constants.EnvDevelopment
	}

	// Database driver must be one of the compiled-in drivers
	if config.Database.Driver != "postgres" && config.Database.Driver != "mysql" {
		return fmt.Errorf("unsupported database driver: %s", config.Database.Driver)
	}

	// Database validation - connection details required
	if config.Database.User == "" {
		return fmt.Errorf("database user must be set")
	}

	// In production, the admin API must not run unauthenticated
	if config.App.IsProduction() && config.Admin.APIKey == "" {
		return fmt.Errorf("admin API key must be set in production")
	}

	// The sync timezone must resolve
	if _, err := config.Sync.Location(); err != nil {
		return err
	}

	// Validate log level
	logLevel := strings.ToLower(config.Logging.Level)
	validLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	validLevel := false
	for _, level := range validLevels {
		if logLevel == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// logConfig logs the current configuration, masking sensitive values
func logConfig(config *AppConfig) {
	// Create a copy of the config to mask sensitive values
	logCfg := *config

	// Mask sensitive information
	if logCfg.Database.Password != "" {
		logCfg.Database.Password = constants.LogRedactedValue
	}
	if logCfg.Admin.APIKey != "" {
		logCfg.Admin.APIKey = constants.LogRedactedValue
	}

	log.Info().
		Str("environment", logCfg.App.Environment).
		Str("version", logCfg.App.Version).
		Str("server", logCfg.Server.ServerAddress()).
		Str("db_driver", logCfg.Database.Driver).
		Str("db_host", logCfg.Database.Host).
		Int("db_port", logCfg.Database.Port).
		Str("db_name", logCfg.Database.Name).
		Str("wechat_base_url", logCfg.WeChat.BaseURL).
		Dur("sync_interval", logCfg.Sync.Interval).
		Bool("sync_enabled", logCfg.Sync.Enabled).
		Str("log_level", logCfg.Logging.Level).
		Msg("Configuration loaded")
}
