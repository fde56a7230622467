package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"sentiment-webapi/internal/bootstrap"
	"sentiment-webapi/internal/config"
	"sentiment-webapi/internal/database"
	"sentiment-webapi/internal/logging"
	"sentiment-webapi/internal/middleware"
	"sentiment-webapi/internal/repositories"
	"sentiment-webapi/internal/routes"
	"sentiment-webapi/internal/utils"
	"sentiment-webapi/internal/views"

	"github.com/DeRuina/timberjack"
	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Run initializes and starts the application
func Run() {
	var sqliteDB *sql.DB
	var err error

	initAppStartTime := time.Now()

	// --- 1. Load Configuration ---
	tempConfigLogger, _ := zap.NewProduction(zap.ErrorOutput(zapcore.Lock(os.Stderr)))
	defer tempConfigLogger.Sync()

	cfg, err := config.LoadConfig(tempConfigLogger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- 2. Create SHARED File Writer/Syncer for timberjack ---
	logDir := filepath.Dir(cfg.LogFilePath)
	if logDir != "." && logDir != "/" {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: Failed to ensure log directory %s exists: %v\n", logDir, err)
			os.Exit(1)
		}
	}
	timberJackLogger := &timberjack.Logger{
		Filename:         cfg.LogFilePath,
		MaxSize:          cfg.LogMaxSize,
		MaxBackups:       cfg.LogMaxBackups,
		MaxAge:           cfg.LogMaxAge,
		Compress:         cfg.LogCompress,
		LocalTime:        true,
		RotationInterval: time.Duration(cfg.LogRotateInterval) * time.Hour,
	}
	fileSyncer := zapcore.AddSync(timberJackLogger)

	// --- 3. LogRepository without a DB handle; the SQLite core drops entries until it is set ---
	logRepo := repositories.NewLogRepository(nil, tempConfigLogger)

	// --- 4. Initialize Application Loggers ---
	appLoggers, err := logging.InitializeLoggers(cfg, logRepo, fileSyncer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to initialize application loggers: %v\n", err)
		os.Exit(1)
	}
	fileLogger := appLoggers.File
	sqliteLogger := appLoggers.SQLite
	logging.SetGlobalLoggers(fileLogger, sqliteLogger)

	utils.TraceConfigDetails(fileLogger, cfg)

	// --- 5. Diagnostic SQLite database (optional) ---
	if cfg.SQLLiteLogEnabled {
		sqliteDB, err = database.InitSQLite(cfg, fileLogger)
		if err != nil {
			fileLogger.Error("SQLite diagnostic log sink unavailable, continuing without it", zap.Error(err))
		} else {
			logRepo.SetSqliteDB(sqliteDB)
		}
	}

	// --- 6. Error reporting ---
	sentryEnabled := initSentry(cfg, fileLogger)
	if sentryEnabled {
		defer sentry.Flush(2 * time.Second)
	}

	// --- 7. Components (models are loaded here) ---
	components, err := bootstrap.InitializeAppComponents(cfg, fileLogger, sqliteDB, logRepo)
	if err != nil {
		fileLogger.Fatal("Failed to initialize application components", zap.Error(err))
	}

	// --- 8. Fiber app, middleware, routes ---
	appFiber := NewServer(cfg, fileLogger, sqliteLogger, components, sentryEnabled)

	// --- 9. Start Log Pruner (master process only) ---
	pruner := components.LogPruner
	if pruner != nil && !fiber.IsChild() {
		pruner.Start()
	}

	// --- 10. Start Server & Graceful Shutdown ---
	serverCtx, cancelServerCtx := context.WithCancel(context.Background())
	defer cancelServerCtx()
	serverStopped := make(chan struct{})

	initAppDurationMs := time.Since(initAppStartTime).Milliseconds()

	go func() {
		defer close(serverStopped)
		listenAddr := cfg.ListenAddr()
		fileLogger.Info(fmt.Sprintf("Completed initialization application in %d ms.", initAppDurationMs))
		fileLogger.Info("Starting Fiber server...",
			zap.String("address", listenAddr),
			zap.Bool("prefork_enabled", appFiber.Config().Prefork),
			zap.Int("pid", os.Getpid()),
			zap.String("app_env", cfg.AppEnv),
		)
		if err := appFiber.Listen(listenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fileLogger.Error("Server listener failed", zap.String("address", listenAddr), zap.Error(err))
			cancelServerCtx()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	select {
	case s := <-sig:
		fileLogger.Info("Shutdown signal received.", zap.String("signal", s.String()))
	case <-serverCtx.Done():
		fileLogger.Info("Server context cancelled, initiating shutdown.")
	}

	fileLogger.Info("Initiating graceful shutdown...")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancelShutdown()

	if pruner != nil && !fiber.IsChild() {
		pruner.Stop()
	}

	if err := appFiber.ShutdownWithContext(shutdownCtx); err != nil {
		fileLogger.Error("Fiber server shutdown failed", zap.Error(err))
	} else {
		fileLogger.Info("Fiber server gracefully stopped.")
	}
	<-serverStopped

	if errSync := fileLogger.Sync(); errSync != nil {
		errMsg := errSync.Error()
		if strings.Contains(errMsg, "handle is invalid") || strings.Contains(errMsg, "sync /dev/stdout") {
			fileLogger.Debug("Logger sync warning for stdout (handle likely invalid during shutdown).", zap.Error(errSync))
		} else {
			fmt.Fprintf(os.Stderr, "[WARN] Error syncing file/console logger: %v\n", errSync)
		}
	}

	if sqliteDB != nil {
		if errClose := sqliteDB.Close(); errClose != nil {
			fmt.Fprintf(os.Stderr, "[ERROR] Error closing SQLite database: %v\n", errClose)
		} else {
			fmt.Println("[INFO] SQLite database connection closed.")
		}
	}

	fmt.Println("[INFO] Application shutdown complete.")
}

// initSentry configures error reporting when SENTRY_DSN is set and reports
// whether it is active.
func initSentry(cfg *config.Config, logger *zap.Logger) bool {
	if cfg.SentryDSN == "" {
		logger.Info("Sentry error reporting disabled (SENTRY_DSN not set)")
		return false
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		EnableTracing:    true,
		TracesSampleRate: cfg.SentrySampleRate,
		Environment:      cfg.AppEnv,
	}); err != nil {
		logger.Error("Sentry init failed", zap.Error(err))
		return false
	}
	logger.Info("Sentry error reporting enabled", zap.String("dsn", utils.MaskDSN(cfg.SentryDSN)))
	return true
}

// NewServer builds the Fiber app with the error handler, middleware stack and
// routes. It does not listen.
func NewServer(cfg *config.Config, fileLogger, sqliteLogger *zap.Logger, components *bootstrap.AppComponents, sentryEnabled bool) *fiber.App {
	appFiber := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		Prefork:      cfg.Prefork,
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		Views:        views.NewEngine(cfg.AppEnv == "local"),
		ErrorHandler: errorHandler(cfg),
	})

	appFiber.Use(recover.New(recover.Config{
		EnableStackTrace: strings.ToLower(cfg.LogLevel) == "debug",
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			middleware.GetRequestFileLogger(c).Error("Panic recovered", zap.Any("panic_value", e))
		},
	}))
	if sentryEnabled {
		appFiber.Use(sentryfiber.New(sentryfiber.Options{
			Repanic:         true,
			WaitForDelivery: false,
		}))
	}
	fileLogger.Info("Configuring CORS", zap.String("origins", cfg.CORSAllowOrigins), zap.String("methods", cfg.CORSAllowMethods), zap.String("headers", cfg.CORSAllowHeaders))
	appFiber.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowMethods: cfg.CORSAllowMethods,
		AllowHeaders: cfg.CORSAllowHeaders,
	}))
	appFiber.Use(middleware.RequestLoggers(fileLogger, sqliteLogger))
	if strings.ToLower(cfg.LogLevel) == "debug" {
		appFiber.Use(middleware.RequestDebugLogger())
	}
	appFiber.Use(fiberzap.New(fiberzap.Config{
		Logger: fileLogger,
		Fields: []string{"status", "method", "url", "ip", "latency", "error"},
		FieldsFunc: func(c *fiber.Ctx) []zap.Field {
			fields := []zap.Field{zap.String("log_type", "access")}
			if reqID := middleware.GetRequestID(c); reqID != "" {
				fields = append(fields, zap.String("request_id", reqID))
			}
			return fields
		},
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))

	routes.SetupRoutes(appFiber, fileLogger, components)
	return appFiber
}

func errorHandler(cfg *config.Config) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		lg := middleware.GetRequestFileLogger(c)
		code := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) && e != nil {
			code = e.Code
		}
		fields := []zap.Field{
			zap.Int("status", code),
			zap.String("path", c.Path()),
			zap.String("method", c.Method()),
			zap.String("ip", c.IP()),
			zap.Error(err),
		}
		if reqID := middleware.GetRequestID(c); reqID != "" {
			fields = append(fields, zap.String("request_id", reqID))
		}
		if code < fiber.StatusInternalServerError {
			lg.Warn("Request rejected", fields...)
		} else {
			lg.Error("Generic ErrorHandler", fields...)
			middleware.GetRequestSQLiteLogger(c).Error("Unhandled request error", fields...)
			if hub := sentryfiber.GetHubFromContext(c); hub != nil {
				hub.CaptureException(err)
			}
		}
		resp := fiber.Map{"error": "An unexpected error occurred"}
		if code < fiber.StatusInternalServerError {
			resp["error"] = err.Error()
		} else if cfg.AppEnv != "production" {
			resp["detail"] = err.Error()
		}
		return c.Status(code).JSON(resp)
	}
}
