// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string
	LogLevel    string
	Server      ServerConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	News        NewsConfig
	Social      SocialConfig
	Trends      TrendsConfig
	Stock       StockConfig
	Analysis    AnalysisConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	SSLMode      string
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
	EventsTopic    string
}

// NewsConfig holds news source configuration
type NewsConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	RequestsPerMin int
	MaxArticles    int
}

// SocialConfig holds social mention source configuration.
// The source stays disabled while BearerToken is empty.
type SocialConfig struct {
	BearerToken string
	MaxMentions int
}

// TrendsConfig holds search-interest provider configuration
type TrendsConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	Window         string
}

// StockConfig holds price provider configuration
type StockConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

// AnalysisConfig holds aggregation and caching configuration
type AnalysisConfig struct {
	RegionCodes []string
	CellWorkers int
	NewsTTL     time.Duration
	SweepTTL    time.Duration
	RunTimeout  time.Duration
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "brandpulse"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", "nats://localhost:4222"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
			EventsTopic:    getEnv("NATS_EVENTS_TOPIC", "analysis"),
		},
		News: NewsConfig{
			BaseURL:        getEnv("NEWS_BASE_URL", "https://news.google.com/rss/search"),
			RequestTimeout: getEnvAsDuration("NEWS_REQUEST_TIMEOUT", 15*time.Second),
			RequestsPerMin: getEnvAsInt("NEWS_REQUESTS_PER_MIN", 30),
			MaxArticles:    getEnvAsInt("NEWS_MAX_ARTICLES", 50),
		},
		Social: SocialConfig{
			BearerToken: getEnv("TWITTER_BEARER_TOKEN", ""),
			MaxMentions: getEnvAsInt("SOCIAL_MAX_MENTIONS", 25),
		},
		Trends: TrendsConfig{
			BaseURL:        getEnv("TRENDS_BASE_URL", "https://trends.google.com/trends/api"),
			RequestTimeout: getEnvAsDuration("TRENDS_REQUEST_TIMEOUT", 15*time.Second),
			Window:         getEnv("TRENDS_WINDOW", "now 7-d"),
		},
		Stock: StockConfig{
			BaseURL:        getEnv("STOCK_BASE_URL", "https://stooq.com/q/d/l"),
			RequestTimeout: getEnvAsDuration("STOCK_REQUEST_TIMEOUT", 15*time.Second),
		},
		Analysis: AnalysisConfig{
			RegionCodes: getEnvAsSlice("ANALYSIS_REGIONS", nil),
			CellWorkers: getEnvAsInt("ANALYSIS_CELL_WORKERS", 4),
			NewsTTL:     getEnvAsDuration("ANALYSIS_NEWS_TTL", 600*time.Second),
			SweepTTL:    getEnvAsDuration("ANALYSIS_SWEEP_TTL", 1800*time.Second),
			RunTimeout:  getEnvAsDuration("ANALYSIS_RUN_TIMEOUT", 5*time.Minute),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	if config.Analysis.CellWorkers < 1 {
		return fmt.Errorf("analysis cell workers must be at least 1")
	}
	if config.News.MaxArticles < 1 {
		return fmt.Errorf("news max articles must be at least 1")
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
