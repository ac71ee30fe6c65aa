package config

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Email      EmailConfig      `yaml:"email"`
	JWT        JWTConfig        `yaml:"jwt"`
	Withdrawal WithdrawalConfig `yaml:"withdrawal"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	User          string `yaml:"user"`
	Password      string `yaml:"password"`
	Database      string `yaml:"database"`
	SSLMode       string `yaml:"ssl_mode"`
	CommitTimeout int    `yaml:"commit_timeout_seconds"`
}

// EmailConfig contains SendGrid settings
type EmailConfig struct {
	APIKey   string `yaml:"api_key"`
	From     string `yaml:"from"`
	FromName string `yaml:"from_name"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// WithdrawalConfig contains withdrawal policy settings
type WithdrawalConfig struct {
	MinimumAmount     string `yaml:"minimum_amount"`      // decimal string, e.g. "1000.00"
	PendingExpiryDays int    `yaml:"pending_expiry_days"` // pending requests older than this are auto-rejected
	ReminderAgeHours  int    `yaml:"reminder_age_hours"`  // pending requests older than this trigger reminders
}

// SchedulerConfig contains cron specs for background jobs
type SchedulerConfig struct {
	ExpireStaleWithdrawals string `yaml:"expire_stale_withdrawals"`
	PendingReminders       string `yaml:"pending_reminders"`
	BalanceSnapshots       string `yaml:"balance_snapshots"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.APIKey = val
	}
	if val := os.Getenv("EMAIL_FROM"); val != "" {
		c.Email.From = val
	}

	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Defaults
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Database.CommitTimeout == 0 {
		c.Database.CommitTimeout = 5
	}
	if c.Withdrawal.MinimumAmount == "" {
		c.Withdrawal.MinimumAmount = "1000.00"
	}
	if c.Withdrawal.PendingExpiryDays == 0 {
		c.Withdrawal.PendingExpiryDays = 14
	}
	if c.Withdrawal.ReminderAgeHours == 0 {
		c.Withdrawal.ReminderAgeHours = 48
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := decimal.NewFromString(c.Withdrawal.MinimumAmount); err != nil {
		return fmt.Errorf("invalid withdrawal minimum amount %q: %w", c.Withdrawal.MinimumAmount, err)
	}

	return nil
}

// GetServerAddress returns the host:port address the server listens on
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetDatabaseConnectionString returns the lib/pq connection string
func (c *Config) GetDatabaseConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password,
		c.Database.Database, sslMode)
}

// MinimumWithdrawal returns the configured withdrawal floor
func (c *Config) MinimumWithdrawal() decimal.Decimal {
	min, err := decimal.NewFromString(c.Withdrawal.MinimumAmount)
	if err != nil {
		return decimal.Zero
	}
	return min
}

// CommitDeadline returns the storage commit deadline for write operations
func (c *Config) CommitDeadline() time.Duration {
	return time.Duration(c.Database.CommitTimeout) * time.Second
}
