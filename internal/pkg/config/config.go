package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	Username string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RepositoriesConfig struct {
	Postgres PostgresConfig
}

type StatsConfig struct {
	// CacheTTL bounds how stale public vehicle stats may be.
	CacheTTL time.Duration
	// IncludeAllStatuses reproduces the legacy status-blind aggregation.
	// Leave false so pending/rejected reviews never leak into public numbers.
	IncludeAllStatuses bool
}

type Config struct {
	Repositories RepositoriesConfig
	Stats        StatsConfig
	ServerPort   string
	MetricsPort  string
	PprofPort    string
	JWTSecretKey string
}

func Load() (*Config, error) {
	cfg := &Config{
		Repositories: RepositoriesConfig{
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
				DB:       getEnvOrDefault("POSTGRES_DB", "autovia_reviews"),
				Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: getEnvOrDefault("POSTGRES_PASSWORD", ""),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
				MaxConns: 30,
				MinConns: 5,
			},
		},
		Stats: StatsConfig{
			CacheTTL:           getEnvDuration("STATS_CACHE_TTL", 30*time.Second),
			IncludeAllStatuses: getEnvBool("STATS_INCLUDE_ALL_STATUSES", false),
		},
		ServerPort:   getEnvOrDefault("SERVER_PORT", "8094"),
		MetricsPort:  getEnvOrDefault("METRICS_PORT", ":9094"),
		PprofPort:    getEnvOrDefault("PPROF_PORT", ":6060"),
		JWTSecretKey: getEnvOrDefault("JWT_SECRET_KEY", ""),
	}

	if cfg.Repositories.Postgres.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD environment variable is required")
	}
	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
