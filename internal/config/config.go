// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Claim    ClaimConfig    `mapstructure:"claim"`
	Seed     SeedConfig     `mapstructure:"seed"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// ClaimConfig holds point claim configuration.
// A claim grants a uniformly random amount in [MinPoints, MaxPoints].
type ClaimConfig struct {
	MinPoints int64 `mapstructure:"min_points"`
	MaxPoints int64 `mapstructure:"max_points"`
}

// SeedConfig holds initial user seeding configuration.
type SeedConfig struct {
	MaxInitialPoints int64 `mapstructure:"max_initial_points"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// Addr returns the listen address for the HTTP server.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// Origins returns the allowed CORS origins as a comma-separated string.
func (s *ServerConfig) Origins() string {
	trimmed := make([]string, 0, len(s.AllowedOrigins))
	for _, origin := range s.AllowedOrigins {
		if o := strings.TrimSpace(origin); o != "" {
			trimmed = append(trimmed, o)
		}
	}
	return strings.Join(trimmed, ",")
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the given directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Configure viper
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Enable environment variable override
	// Environment variables use underscore separator and uppercase
	// e.g., SERVER_PORT, DATABASE_HOST, DATABASE_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional - env vars can provide all config)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - we can use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Claim.MinPoints < 1 || cfg.Claim.MaxPoints < cfg.Claim.MinPoints {
		return nil, fmt.Errorf("invalid claim range [%d, %d]", cfg.Claim.MinPoints, cfg.Claim.MaxPoints)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.shutdown_timeout", "10s")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "leaderboard")
	v.SetDefault("database.name", "leaderboard")
	v.SetDefault("database.pool_size", 20)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	// Claim defaults: random award of 1-10 points per claim
	v.SetDefault("claim.min_points", 1)
	v.SetDefault("claim.max_points", 10)

	// Seed defaults: initial users start with 0-99 points
	v.SetDefault("seed.max_initial_points", 100)
}
