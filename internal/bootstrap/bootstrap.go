package bootstrap

import (
	"database/sql"
	"fmt"

	"sentiment-webapi/internal/config"
	"sentiment-webapi/internal/handlers"
	"sentiment-webapi/internal/logging"
	"sentiment-webapi/internal/repositories"
	"sentiment-webapi/internal/sentiment"
	"sentiment-webapi/internal/services"

	"go.uber.org/zap"
)

// AppComponents holds the initialized components like handlers, processors, and repositories.
type AppComponents struct {
	Engine            *sentiment.Engine
	RequestLogRepo    repositories.RequestLogRepository
	LogRepo           repositories.LogRepository
	RequestLogService services.RequestLogService
	SentimentService  services.SentimentService
	PageHandler       *handlers.PageHandler
	PredictionHandler *handlers.PredictionHandler
	RequestLogHandler *handlers.RequestLogHandler
	HealthHandler     *handlers.HealthHandler
	LogPruner         *logging.LogPruner
}

// InitializeAppComponents loads the model artifacts and wires repositories,
// services, handlers and the log pruner. A model load failure is returned
// and is meant to abort startup.
func InitializeAppComponents(
	cfg *config.Config,
	logger *zap.Logger,
	sqliteDB *sql.DB, // nil when the SQLite sink is disabled
	logRepo repositories.LogRepository,
) (*AppComponents, error) {
	logger.Info("Initializing application components: Models, Repositories, Services, Handlers, Processors...")

	// --- 1. Model artifacts, loaded once ---
	engine, err := sentiment.Load(sentiment.Paths{
		Vectorizer:         cfg.VectorizerPath,
		LogisticRegression: cfg.LRModelPath,
		NaiveBayes:         cfg.NBModelPath,
		SVM:                cfg.SVMModelPath,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load sentiment models: %w", err)
	}

	// --- 2. Repositories ---
	requestLogRepo := repositories.NewJSONRequestLogRepository(cfg.RequestLogPath, logger)
	logger.Info("Repositories initialized.", zap.String("request_log", cfg.RequestLogPath))

	// --- 3. Services ---
	requestLogService := services.NewRequestLogService(requestLogRepo, logger)
	sentimentService := services.NewSentimentService(engine, logger)
	logger.Info("Services initialized.")

	// --- 4. Handlers ---
	components := &AppComponents{
		Engine:            engine,
		RequestLogRepo:    requestLogRepo,
		LogRepo:           logRepo,
		RequestLogService: requestLogService,
		SentimentService:  sentimentService,
		PageHandler:       handlers.NewPageHandler(requestLogService),
		PredictionHandler: handlers.NewPredictionHandler(sentimentService, requestLogService),
		RequestLogHandler: handlers.NewRequestLogHandler(requestLogService),
		HealthHandler:     handlers.NewHealthHandler(sqliteDB),
	}
	logger.Info("Handlers initialized.")

	// --- 5. Processors ---
	if logRepo != nil && sqliteDB != nil {
		components.LogPruner = logging.NewLogPruner(logRepo, logger, cfg.LogPruneInterval, cfg.LogRetention)
		logger.Info("Processors initialized.")
	}

	logger.Info("Application components initialization complete.")
	return components, nil
}
