package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Weather  WeatherConfig
	Cache    CacheConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port    string
	GinMode string
	CORS    CORSConfig
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// DatabaseConfig holds the Postgres connection settings for the cache's
// persistent tier (the lib/pq store behind internal/cache).
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// WeatherConfig holds upstream weather provider and fan-out configuration.
type WeatherConfig struct {
	OpenWeatherAPIKey string
	AWSRegion         string // carried over from the original Lambda deployment's region tag; unused by the Postgres cache but still surfaced for ops parity
	MunicipalityTable string // path to the municipality JSON fixture loaded by internal/citystore

	HTTPMaxConnsTotal   int
	HTTPMaxConnsPerHost int
	HTTPTimeout         time.Duration
	RegionalFanOutLimit int
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Enabled   bool
	TableName string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "release"),
			CORS: CORSConfig{
				AllowOrigins:     []string{getEnv("CORS_ORIGIN", "*")},
				AllowMethods:     []string{"GET", "POST", "OPTIONS"},
				AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-Id"},
				ExposeHeaders:    []string{"Content-Length", "X-Request-Id"},
				AllowCredentials: true,
				MaxAge:           12 * time.Hour,
			},
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", ""),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", ""),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
		},
		Weather: WeatherConfig{
			OpenWeatherAPIKey:   getEnv("OPENWEATHER_API_KEY", ""),
			AWSRegion:           getEnv("AWS_REGION", "sa-east-1"),
			MunicipalityTable:   getEnv("MUNICIPALITY_TABLE_PATH", "municipalities.json"),
			HTTPMaxConnsTotal:   getEnvAsInt("HTTP_MAX_CONNS_TOTAL", 100),
			HTTPMaxConnsPerHost: getEnvAsInt("HTTP_MAX_CONNS_PER_HOST", 30),
			HTTPTimeout:         time.Duration(getEnvAsInt("HTTP_TIMEOUT_SECONDS", 15)) * time.Second,
			RegionalFanOutLimit: getEnvAsInt("REGIONAL_FANOUT_LIMIT", 50),
		},
		Cache: CacheConfig{
			Enabled:   getEnvAsBool("CACHE_ENABLED", true),
			TableName: getEnv("CACHE_TABLE_NAME", "weather_cache"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration is present
func (c *Config) Validate() error {
	if c.Cache.Enabled {
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required when CACHE_ENABLED is true")
		}
		if c.Database.User == "" {
			return fmt.Errorf("DB_USER is required when CACHE_ENABLED is true")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required when CACHE_ENABLED is true")
		}
	}
	if c.Weather.OpenWeatherAPIKey == "" {
		return fmt.Errorf("OPENWEATHER_API_KEY is required")
	}
	return nil
}

// ConnectionString returns a PostgreSQL connection string
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool parses "1"/"t"/"true" (and their negatives) per strconv.ParseBool.
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
