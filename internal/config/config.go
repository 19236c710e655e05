// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	Session  SessionConfig
	Mail     MailConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string `env:"PORT" envDefault:"8080"`
	ReadTimeout  int    `env:"SERVER_READ_TIMEOUT" envDefault:"15"`  // seconds
	WriteTimeout int    `env:"SERVER_WRITE_TIMEOUT" envDefault:"30"` // seconds
	IdleTimeout  int    `env:"SERVER_IDLE_TIMEOUT" envDefault:"60"`  // seconds
}

// DatabaseConfig holds connection settings. Driver is "postgres" or "sqlite".
type DatabaseConfig struct {
	Driver     string `env:"DB_DRIVER" envDefault:"sqlite"`
	Host       string `env:"DB_HOST" envDefault:"localhost"`
	Port       int    `env:"DB_PORT" envDefault:"5432"`
	User       string `env:"DB_USER" envDefault:"lens"`
	Password   string `env:"DB_PASSWORD" envDefault:"lens123"`
	DBName     string `env:"DB_NAME" envDefault:"lens"`
	SSLMode    string `env:"DB_SSLMODE" envDefault:"disable"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"lens.db"`
	Migrations bool   `env:"MIGRATIONS" envDefault:"false"`
	Debug      bool   `env:"DB_DEBUG" envDefault:"false"`
	Retries    int    `env:"DB_CONNECT_RETRIES" envDefault:"5"`
}

// LogConfig drives internal/logger.
type LogConfig struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	Dev        bool   `env:"LOG_DEV" envDefault:"false"`
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"50"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"30"`
}

// SessionConfig holds the cookie signing key.
type SessionConfig struct {
	Secret string `env:"SESSION_SECRET"`
}

// MailConfig enables SMTP delivery of the closing report when Host is set.
type MailConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	User     string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"MAIL_FROM" envDefault:"gestionale@localhost"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev            bool          `env:"DEV" envDefault:"false"`
	Timezone       string        `env:"TIMEZONE" envDefault:"Europe/Rome"`
	MetricsEnabled bool          `env:"METRICS_ENABLED" envDefault:"true"`
	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
	ShutdownGrace  time.Duration `env:"SHUTDOWN_GRACE" envDefault:"10s"`
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL format.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Location resolves the configured timezone, falling back to UTC.
func (a AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads an optional .env file then parses the environment.
// Defaults are tuned for local development.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	// A missing .env is normal outside development.
	_ = godotenv.Load(files...)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
