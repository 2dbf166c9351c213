package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the configuration for the course recommendation service
type Config struct {
	Server  ServerConfig
	Index   IndexConfig
	Cache   CacheConfig
	Catalog CatalogConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
}

// IndexConfig bounds the TF-IDF feature space and default result counts
type IndexConfig struct {
	MinDocFreq  int
	MaxDocRatio float64
	MaxFeatures int
	DefaultTopK int
}

// CacheConfig controls the on-disk vector snapshot
type CacheConfig struct {
	Enabled bool
	Dir     string
}

// CatalogConfig holds course catalog source configuration
type CatalogConfig struct {
	URL               string
	CSVPath           string
	UserAgent         string
	RequestTimeout    time.Duration
	FetchDelay        time.Duration
	EnableRobotsCheck bool
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: GetStringEnv("SERVER_PORT", "8080"),
		},
		Index: IndexConfig{
			MinDocFreq:  GetIntEnv("INDEX_MIN_DOC_FREQ", 2),
			MaxDocRatio: GetFloatEnv("INDEX_MAX_DOC_RATIO", 0.95),
			MaxFeatures: GetIntEnv("INDEX_MAX_FEATURES", 1000),
			DefaultTopK: GetIntEnv("INDEX_DEFAULT_TOP_K", 10),
		},
		Cache: CacheConfig{
			Enabled: GetBoolEnv("CACHE_ENABLED", true),
			Dir:     GetStringEnv("CACHE_DIR", "./data"),
		},
		Catalog: CatalogConfig{
			URL:               GetStringEnv("CATALOG_URL", ""),
			CSVPath:           GetStringEnv("CATALOG_CSV_PATH", "./cse_courses_simple.csv"),
			UserAgent:         GetStringEnv("CATALOG_USER_AGENT", "CourseCompass-Scraper/1.0"),
			RequestTimeout:    GetDurationEnv("CATALOG_REQUEST_TIMEOUT", 30*time.Second),
			FetchDelay:        GetDurationEnv("CATALOG_FETCH_DELAY", 1*time.Second),
			EnableRobotsCheck: GetBoolEnv("CATALOG_ENABLE_ROBOTS_CHECK", true),
		},
	}
}

func GetStringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
