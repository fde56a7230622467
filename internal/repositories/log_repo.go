package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"sentiment-webapi/internal/models"

	"go.uber.org/zap"
)

// ErrSQLiteUnavailable is returned while the diagnostic database handle is not set.
var ErrSQLiteUnavailable = errors.New("sqlite diagnostic log database unavailable")

// LogRepository defines the interface for diagnostic log data operations
type LogRepository interface {
	InsertSQLiteLog(ctx context.Context, entry models.DiagnosticLog) error
	GetSQLiteLogs(ctx context.Context, limit int) ([]models.DiagnosticLog, error)
	DeleteSQLiteLogsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// SetSqliteDB is called once the database is opened; the zap core may
	// already be writing through this repository before that.
	SetSqliteDB(db *sql.DB)
}

// logRepositoryImpl implements LogRepository for SQLite
type logRepositoryImpl struct {
	sqliteDB *sql.DB // Can be nil until InitSQLite succeeds
	logger   *zap.Logger
	mu       sync.RWMutex // Protects sqliteDB
}

// NewLogRepository creates a new LogRepository
func NewLogRepository(sqliteDB *sql.DB, logger *zap.Logger) LogRepository {
	if logger == nil {
		fallbackLogger, _ := zap.NewDevelopment()
		logger = fallbackLogger
		logger.Warn("NewLogRepository received nil logger, using fallback.")
	}
	return &logRepositoryImpl{
		sqliteDB: sqliteDB,
		logger:   logger,
	}
}

func (r *logRepositoryImpl) db() (*sql.DB, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.sqliteDB == nil {
		return nil, ErrSQLiteUnavailable
	}
	return r.sqliteDB, nil
}

// InsertSQLiteLog must not log through the SQLite logger itself, or a failing
// insert would recurse.
func (r *logRepositoryImpl) InsertSQLiteLog(ctx context.Context, entry models.DiagnosticLog) error {
	db, err := r.db()
	if err != nil {
		return err
	}
	query := `INSERT INTO tbl_log (timestamp, level, message, fields) VALUES (?, ?, ?, ?)`
	fieldsJSON := entry.Fields
	if fieldsJSON == "" {
		fieldsJSON = "{}"
	}
	if _, err := db.ExecContext(ctx, query, entry.Timestamp.UTC().Format(time.RFC3339Nano), entry.Level, entry.Message, fieldsJSON); err != nil {
		return fmt.Errorf("sqlite insert failed: %w", err)
	}
	return nil
}

func (r *logRepositoryImpl) GetSQLiteLogs(ctx context.Context, limit int) ([]models.DiagnosticLog, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}
	query := `SELECT id, timestamp, level, message, fields FROM tbl_log ORDER BY id ASC LIMIT ?`
	rows, err := db.QueryContext(ctx, query, limit)
	if err != nil {
		r.logger.Error("Failed to query logs from SQLite", zap.Error(err))
		return nil, fmt.Errorf("sqlite query failed: %w", err)
	}
	defer rows.Close()
	var logs []models.DiagnosticLog
	for rows.Next() {
		var entry models.DiagnosticLog
		var tsStr string
		var fields sql.NullString
		if err := rows.Scan(&entry.ID, &tsStr, &entry.Level, &entry.Message, &fields); err != nil {
			r.logger.Error("Failed to scan log row from SQLite", zap.Error(err))
			continue
		}
		entry.Timestamp, err = time.Parse(time.RFC3339Nano, tsStr)
		if err != nil {
			r.logger.Warn("Failed to parse timestamp from SQLite", zap.String("raw_ts", tsStr), zap.Error(err))
			entry.Timestamp = time.Now().UTC()
		}
		if fields.Valid {
			entry.Fields = fields.String
		} else {
			entry.Fields = "{}"
		}
		logs = append(logs, entry)
	}
	if err = rows.Err(); err != nil {
		r.logger.Error("Error during iteration over SQLite log rows", zap.Error(err))
		return nil, fmt.Errorf("sqlite row iteration error: %w", err)
	}
	return logs, nil
}

// DeleteSQLiteLogsBefore removes rows older than cutoff and returns how many
// were deleted. Timestamps are stored as UTC RFC3339Nano text, which sorts
// chronologically.
func (r *logRepositoryImpl) DeleteSQLiteLogsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	db, err := r.db()
	if err != nil {
		return 0, err
	}
	result, err := db.ExecContext(ctx, `DELETE FROM tbl_log WHERE timestamp < ?`, cutoff.UTC().Format(time.RFC3339Nano))
	if err != nil {
		r.logger.Error("Failed to delete logs from SQLite", zap.Error(err))
		return 0, fmt.Errorf("sqlite delete failed: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	r.logger.Debug("Deleted logs from SQLite", zap.Int64("rows_affected", rowsAffected), zap.Time("cutoff", cutoff))
	return rowsAffected, nil
}

// SetSqliteDB allows setting the SQLite handle after initialization.
// It is concurrency-safe using a RWMutex.
func (r *logRepositoryImpl) SetSqliteDB(db *sql.DB) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sqliteDB = db
	status := "nil"
	if db != nil {
		status = "set/updated"
	}
	r.logger.Info("LogRepository SQLite DB handle updated via SetSqliteDB", zap.String("status", status))
}
