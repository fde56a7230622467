package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap" // Use logger for loading errors
)

// Config holds all configuration for the application
type Config struct {
	AppEnv           string
	AppName          string
	Host             string
	Port             string
	Prefork          bool
	BodyLimitMB      int
	CORSAllowOrigins string
	CORSAllowMethods string
	CORSAllowHeaders string

	// Request history
	RequestLogPath string

	// Model artifacts, loaded once at startup
	VectorizerPath string
	LRModelPath    string
	NBModelPath    string
	SVMModelPath   string

	// Application (diagnostic) logging
	LogFilePath       string
	LogLevel          string
	LogRotateInterval int // Hour
	LogMaxSize        int // MB
	LogMaxBackups     int
	LogMaxAge         int // Days
	LogCompress       bool
	SQLLiteLogEnabled bool
	SQLLiteLogLevel   string
	SQLiteDBPath      string
	LogRetention      time.Duration
	LogPruneInterval  time.Duration

	// Error reporting
	SentryDSN        string
	SentrySampleRate float64
}

// LoadConfig reads configuration from environment variables or .env file
func LoadConfig(logger *zap.Logger) (*Config, error) { // logger can be nil here
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "local" // Default to local if not set
	}

	envFileName := fmt.Sprintf(".env.%s", appEnv)
	if _, err := os.Stat(envFileName); err == nil {
		if err := godotenv.Load(envFileName); err != nil {
			if logger != nil {
				logger.Warn("Error loading .env file, continuing with environment variables", zap.String("file", envFileName), zap.Error(err))
			}
		} else if logger != nil {
			logger.Info("Loaded configuration", zap.String("file", envFileName))
		}
	} else if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			if logger != nil {
				logger.Warn("Error loading .env file", zap.Error(err))
			}
		} else if logger != nil {
			logger.Info("Loaded configuration from .env")
		}
	} else if logger != nil {
		logger.Warn("No .env file found for environment, relying on environment variables or defaults", zap.String("environment", appEnv))
	}

	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "local"),
		AppName:     getEnv("APP_NAME", "sentiment-webapi"),
		Host:        getEnv("HOST", "0.0.0.0"),
		Port:        getEnv("PORT", "3000"),
		Prefork:     getEnvAsBool("PREFORK", false),
		BodyLimitMB: getEnvAsInt("BODY_LIMIT_MB", 16),

		RequestLogPath: getEnv("REQUEST_LOG_PATH", "./logs/requests.json"),

		VectorizerPath: getEnv("VECTORIZER_PATH", "./vectorizers/vectorizer.json"),
		LRModelPath:    getEnv("LR_MODEL_PATH", "./models/logistic-regression-model.json"),
		NBModelPath:    getEnv("NB_MODEL_PATH", "./models/naive-bayes-model.json"),
		SVMModelPath:   getEnv("SVM_MODEL_PATH", "./models/svm-model.json"),

		LogFilePath:       getEnv("LOG_FILE_PATH", "./logs/app.log"),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogRotateInterval: getEnvAsInt("LOG_ROTATE_INTERVAL", 24),
		LogMaxSize:        getEnvAsInt("LOG_MAX_SIZE", 100),
		LogMaxBackups:     getEnvAsInt("LOG_MAX_BACKUPS", 5),
		LogMaxAge:         getEnvAsInt("LOG_MAX_AGE", 30),
		LogCompress:       getEnvAsBool("LOG_COMPRESS", false),
		SQLLiteLogEnabled: getEnvAsBool("SQLITE_LOG_ENABLED", false),
		SQLLiteLogLevel:   strings.ToLower(getEnv("SQLITE_LOG_LEVEL", "warn")),
		SQLiteDBPath:      getEnv("SQLITE_DB_PATH", "./logs/logs.db"),

		SentryDSN:        getEnv("SENTRY_DSN", ""),
		SentrySampleRate: getEnvAsFloat("SENTRY_SAMPLE_RATE", 0.2),

		// Default AllowOrigins to "*" for local, empty for others (forcing explicit setting)
		CORSAllowOrigins: getEnv("CORS_ALLOW_ORIGINS", func() string {
			if getEnv("APP_ENV", "local") == "local" || getEnv("APP_ENV", "local") == "development" {
				return "*" // Be permissive in local/dev
			}
			return "" // Force setting in prod/other envs
		}()),
		CORSAllowMethods: getEnv("CORS_ALLOW_METHODS", "GET,POST,HEAD"),
		CORSAllowHeaders: getEnv("CORS_ALLOW_HEADERS", "Origin,Content-Type,Accept,X-Requested-With"),
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "dpanic": true, "panic": true, "fatal": true}
	if !validLevels[cfg.LogLevel] {
		if logger != nil {
			logger.Warn("Invalid LOG_LEVEL specified, defaulting to 'info'", zap.String("invalidLevel", cfg.LogLevel))
		}
		cfg.LogLevel = "info"
	}
	if !validLevels[cfg.SQLLiteLogLevel] {
		if logger != nil {
			logger.Warn("Invalid SQLITE_LOG_LEVEL specified, defaulting to 'warn'", zap.String("invalidLevel", cfg.SQLLiteLogLevel))
		}
		cfg.SQLLiteLogLevel = "warn"
	}

	cfg.LogRetention = time.Duration(getEnvAsInt("LOG_RETENTION_DAYS", 30)) * 24 * time.Hour
	cfg.LogPruneInterval = time.Duration(getEnvAsInt("LOG_PRUNE_INTERVAL_MINUTES", 60)) * time.Minute

	if cfg.BodyLimitMB <= 0 {
		return nil, fmt.Errorf("BODY_LIMIT_MB must be positive, got %d", cfg.BodyLimitMB)
	}
	if cfg.SentrySampleRate < 0 || cfg.SentrySampleRate > 1 {
		return nil, fmt.Errorf("SENTRY_SAMPLE_RATE must be within [0,1], got %v", cfg.SentrySampleRate)
	}
	if cfg.AppEnv != "local" && cfg.AppEnv != "development" && (cfg.CORSAllowOrigins == "*" || cfg.CORSAllowOrigins == "") {
		if logger != nil {
			logger.Warn("CORS_ALLOW_ORIGINS is set to '*' or is empty in a non-local/dev environment. Set specific origins for production.")
		}
		return nil, fmt.Errorf("CORS_ALLOW_ORIGINS must be set explicitly in production environments")
	}

	return cfg, nil
}

// ListenAddr is the host:port the server binds to.
func (c *Config) ListenAddr() string {
	return c.Host + ":" + c.Port
}

// Helper function to get env var or default
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Helper function to get env var as int or default
func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

// Helper function to get env var as bool or default
func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return fallback
}
