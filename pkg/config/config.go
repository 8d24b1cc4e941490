package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm/logger"
)

// DefaultCookieSecret is used when COOKIE_SECRET is not configured.
const DefaultCookieSecret = "ims-placeholder-cookie-secret"

// DBConfig holds database configuration
type DBConfig struct {
	URL             string        `yaml:"url"`
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	DBName          string        `yaml:"name"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	LogLevel        string        `yaml:"log_level"`
}

// GetDSN returns the PostgreSQL connection string. DATABASE_URL takes
// precedence over the discrete fields.
func (c *DBConfig) GetDSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// GormLogLevel maps the configured level name onto gorm's logger levels
func (c *DBConfig) GormLogLevel() logger.LogLevel {
	return parseGormLogLevel(c.LogLevel, logger.Warn)
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string `yaml:"port"`
	Env  string `yaml:"env"`
}

// CookieConfig holds the auth cookie settings
type CookieConfig struct {
	Name   string `yaml:"name"`
	Secret string `yaml:"secret"`
	MaxAge int    `yaml:"max_age"`
	Secure bool   `yaml:"secure"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// NATSConfig holds the optional event bus connection
type NATSConfig struct {
	URL           string        `yaml:"url"`
	Subject       string        `yaml:"subject"`
	ReconnectWait time.Duration `yaml:"reconnect_wait"`
	MaxReconnects int           `yaml:"max_reconnects"`
}

// Config holds all configuration
type Config struct {
	ServiceName string       `yaml:"service_name"`
	Server      ServerConfig `yaml:"server"`
	DB          DBConfig     `yaml:"database"`
	Cookie      CookieConfig `yaml:"cookie"`
	Log         LogConfig    `yaml:"log"`
	NATS        NATSConfig   `yaml:"nats"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		ServiceName: "ims",
		Server: ServerConfig{
			Port: "8080",
			Env:  "development",
		},
		DB: DBConfig{
			Host:            "localhost",
			Port:            "5432",
			User:            "postgres",
			Password:        "password",
			DBName:          "ims",
			SSLMode:         "disable",
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
			LogLevel:        "warn",
		},
		Cookie: CookieConfig{
			Name:   "__session",
			MaxAge: 60 * 60 * 24 * 3,
		},
		Log: LogConfig{
			Level: "info",
		},
		NATS: NATSConfig{
			Subject:       "ims",
			ReconnectWait: 2 * time.Second,
			MaxReconnects: 10,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variables, in that order.
func Load(path string) (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Not returning error as .env file is optional
		fmt.Printf("Warning: .env file not found, using environment variables\n")
	}

	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// no config file, env only
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("SERVER_PORT", c.Server.Port)
	c.Server.Env = getEnv("APP_ENV", c.Server.Env)

	c.DB.URL = getEnv("DATABASE_URL", c.DB.URL)
	c.DB.Host = getEnv("DB_HOST", c.DB.Host)
	c.DB.Port = getEnv("DB_PORT", c.DB.Port)
	c.DB.User = getEnv("DB_USER", c.DB.User)
	c.DB.Password = getEnv("DB_PASSWORD", c.DB.Password)
	c.DB.DBName = getEnv("DB_NAME", c.DB.DBName)
	c.DB.SSLMode = getEnv("DB_SSL_MODE", c.DB.SSLMode)
	c.DB.MaxIdleConns = getEnvAsInt("DB_MAX_IDLE_CONNS", c.DB.MaxIdleConns)
	c.DB.MaxOpenConns = getEnvAsInt("DB_MAX_OPEN_CONNS", c.DB.MaxOpenConns)
	c.DB.ConnMaxLifetime = getEnvAsDuration("DB_CONN_MAX_LIFETIME", c.DB.ConnMaxLifetime)
	c.DB.LogLevel = getEnv("DB_LOG_LEVEL", c.DB.LogLevel)

	c.Cookie.Name = getEnv("COOKIE_NAME", c.Cookie.Name)
	c.Cookie.Secret = getEnv("COOKIE_SECRET", c.Cookie.Secret)
	c.Cookie.MaxAge = getEnvAsInt("COOKIE_MAX_AGE", c.Cookie.MaxAge)
	c.Cookie.Secure = getEnvAsBool("COOKIE_SECURE", c.Cookie.Secure || c.Server.Env == "production")
	if c.Cookie.Secret == "" {
		c.Cookie.Secret = DefaultCookieSecret
	}

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)

	c.NATS.URL = getEnv("NATS_URL", c.NATS.URL)
	c.NATS.Subject = getEnv("NATS_SUBJECT", c.NATS.Subject)
	c.NATS.ReconnectWait = getEnvAsDuration("NATS_RECONNECT_WAIT", c.NATS.ReconnectWait)
	c.NATS.MaxReconnects = getEnvAsInt("NATS_MAX_RECONNECTS", c.NATS.MaxReconnects)
}

// Validate checks the values that cannot be defaulted
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server port is required")
	}
	if c.DB.URL == "" && c.DB.Host == "" {
		return errors.New("database url or host is required")
	}
	if c.Cookie.MaxAge <= 0 {
		return fmt.Errorf("cookie max age must be positive, got %d", c.Cookie.MaxAge)
	}
	return nil
}

// UsesDefaultSecret reports whether the cookie secret fell back to the placeholder
func (c *Config) UsesDefaultSecret() bool {
	return c.Cookie.Secret == DefaultCookieSecret
}

// LogFields returns the configuration as zap fields, without secrets
func (c *Config) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("server_port", c.Server.Port),
		zap.Bool("db_url_set", c.DB.URL != ""),
		zap.String("db_host", c.DB.Host),
		zap.String("db_name", c.DB.DBName),
		zap.Bool("nats_enabled", c.NATS.URL != ""),
	}
}

// Helper function to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as integers
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as durations
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func parseGormLogLevel(name string, defaultValue logger.LogLevel) logger.LogLevel {
	switch name {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return defaultValue
	}
}
