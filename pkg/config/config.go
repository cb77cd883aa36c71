package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// External data source
	Naver NaverConfig

	// Conversion / analysis conventions
	Analysis AnalysisConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// NaverConfig holds Naver Finance data source configuration
type NaverConfig struct {
	ChartBaseURL   string
	FinanceBaseURL string

	// Outbound request rate (requests per second)
	RequestsPerSec float64
}

// AnalysisConfig holds market-convention parameters for the analytics core.
// 시장 관행(연간 거래일 수 등)은 하드코딩하지 않고 여기서 주입
type AnalysisConfig struct {
	// WindowDays is the trailing point-count window for 52-week extremes.
	WindowDays int

	// TradingDays is the annualization factor for volatility (sqrt applied).
	TradingDays int

	// CarryForward enables the opt-in stale-rate fallback during conversion.
	CarryForward bool

	// MaxLookbackDays bounds how far back a carried-forward rate may come from.
	MaxLookbackDays int

	// HistoryDays is the default backfill span for a never-synced symbol.
	HistoryDays int
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		Naver: NaverConfig{
			ChartBaseURL:   getEnv("NAVER_CHART_BASE_URL", "https://fchart.stock.naver.com"),
			FinanceBaseURL: getEnv("NAVER_FINANCE_BASE_URL", "https://finance.naver.com"),
			RequestsPerSec: getEnvAsFloat("NAVER_REQUESTS_PER_SEC", 5.0),
		},

		Analysis: AnalysisConfig{
			WindowDays:      getEnvAsInt("ANALYSIS_WINDOW_DAYS", 252),
			TradingDays:     getEnvAsInt("ANALYSIS_TRADING_DAYS", 252),
			CarryForward:    getEnvAsBool("CONVERT_CARRY_FORWARD", false),
			MaxLookbackDays: getEnvAsInt("CONVERT_MAX_LOOKBACK_DAYS", 4),
			HistoryDays:     getEnvAsInt("SYNC_HISTORY_DAYS", 365),
		},

		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Analysis.WindowDays <= 0 {
		return fmt.Errorf("ANALYSIS_WINDOW_DAYS must be positive")
	}
	if c.Analysis.TradingDays <= 0 {
		return fmt.Errorf("ANALYSIS_TRADING_DAYS must be positive")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

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

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
