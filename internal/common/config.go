package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all engine configuration
type Config struct {
	Database DatabaseConfig
	Analysis AnalysisConfig
	Remote   RemoteConfig
	Extract  ExtractConfig
}

// DatabaseConfig holds catalog database configuration
type DatabaseConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// AnalysisConfig holds engine-level behavior knobs
type AnalysisConfig struct {
	LockTTL       time.Duration
	LockStorePath string // optional sqlite path; empty -> in-memory store
}

// RemoteConfig holds remote classification service configuration
type RemoteConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// ExtractConfig holds local text extraction configuration
type ExtractConfig struct {
	Pdftotext string
	MaxBytes  int64
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:             getEnv("DB_URL", ""),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Analysis: AnalysisConfig{
			LockTTL:       getEnvAsDuration("ANALYSIS_LOCK_TTL", 300*time.Second),
			LockStorePath: getEnv("ANALYSIS_LOCK_STORE", ""),
		},
		Remote: RemoteConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			BaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Timeout: getEnvAsDuration("OPENAI_TIMEOUT", 300*time.Second),
		},
		Extract: ExtractConfig{
			Pdftotext: getEnv("PDFTOTEXT_BIN", "pdftotext"),
			MaxBytes:  getEnvAsInt64("EXTRACT_MAX_BYTES", 32<<20),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration. The remote credential is
// optional (without it the engine runs on the local classifier), but a
// credential without an endpoint is a misconfiguration.
func (c *Config) Validate() error {
	if c.Remote.APIKey != "" && c.Remote.BaseURL == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_BASE_URL is required when OPENAI_API_KEY is set", ErrInvalidInput)
	}
	if c.Analysis.LockTTL <= 0 {
		return NewAppError("CONFIG_ERROR", "ANALYSIS_LOCK_TTL must be positive", ErrInvalidInput)
	}
	return nil
}
