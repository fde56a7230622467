package utils

import (
	"fmt"

	"sentiment-webapi/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TraceConfigDetails(logger *zap.Logger, cfg *config.Config) {
	if logger == nil || cfg == nil {
		fmt.Println("[WARN] logger or config is nil in TraceConfigDetails")
		return
	}
	fields := []zapcore.Field{
		zap.String("AppEnv", cfg.AppEnv),
		zap.String("ListenAddr", cfg.ListenAddr()),
		zap.Bool("Prefork", cfg.Prefork),
		zap.Int("BodyLimitMB", cfg.BodyLimitMB),
		zap.String("RequestLogPath", cfg.RequestLogPath),
		zap.String("VectorizerPath", cfg.VectorizerPath),
		zap.String("LRModelPath", cfg.LRModelPath),
		zap.String("NBModelPath", cfg.NBModelPath),
		zap.String("SVMModelPath", cfg.SVMModelPath),
		zap.String("SQLiteDBPath", cfg.SQLiteDBPath),
		zap.String("LogFilePath", cfg.LogFilePath),
		zap.String("LogLevel", cfg.LogLevel),
		zap.Int("LogRotateIntervalHours", cfg.LogRotateInterval),
		zap.Int("LogMaxSizeMB", cfg.LogMaxSize),
		zap.Int("LogMaxBackups", cfg.LogMaxBackups),
		zap.Int("LogMaxAgeDays", cfg.LogMaxAge),
		zap.Bool("LogCompress", cfg.LogCompress),
		zap.Duration("LogPruner_Retention", cfg.LogRetention),
		zap.Duration("LogPruner_Interval", cfg.LogPruneInterval),
		zap.String("CORS_AllowOrigins", cfg.CORSAllowOrigins),
		zap.String("CORS_AllowMethods", cfg.CORSAllowMethods),
		zap.String("CORS_AllowHeaders", cfg.CORSAllowHeaders),
		zap.Bool("DedicatedSQLiteLog_Enabled", cfg.SQLLiteLogEnabled),
		zap.String("DedicatedSQLiteLog_Level", cfg.SQLLiteLogLevel),
		zap.String("SentryDSN", MaskDSN(cfg.SentryDSN)),
		zap.Float64("SentrySampleRate", cfg.SentrySampleRate),
	}
	logger.Debug("Loaded application configuration details", fields...)
}
