package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"sentiment-webapi/internal/models"

	"go.uber.org/zap"
)

// RequestLogRepository persists the request history.
//
// Every mutation reads the whole collection, changes it in memory and rewrites
// the whole file. Nothing serializes concurrent mutations, so two requests
// writing at the same time can lose one of the updates (last writer wins).
type RequestLogRepository interface {
	Append(ctx context.Context, entry models.RequestLogEntry) error
	// List never fails: a missing or unreadable file is an empty history.
	List(ctx context.Context) []models.RequestLogEntry
	// FindByID returns nil, nil when no entry has the given id.
	FindByID(ctx context.Context, logID string) (*models.RequestLogEntry, error)
	// Delete reports false, and leaves the file untouched, when nothing matched.
	Delete(ctx context.Context, logID string) (bool, error)
}

// jsonRequestLogRepository stores the history as one indented JSON array.
type jsonRequestLogRepository struct {
	path   string
	logger *zap.Logger
}

// NewJSONRequestLogRepository creates a repository backed by the file at path.
// The file and its directory are created on first write.
func NewJSONRequestLogRepository(path string, logger *zap.Logger) RequestLogRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &jsonRequestLogRepository{path: path, logger: logger}
}

func (r *jsonRequestLogRepository) Append(ctx context.Context, entry models.RequestLogEntry) error {
	entries := r.load()
	entries = append(entries, entry)
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.save(entries); err != nil {
		r.logger.Error("Failed to append request log entry", zap.String("log_id", entry.LogID), zap.Error(err))
		return err
	}
	r.logger.Debug("Request log entry appended", zap.String("log_id", entry.LogID), zap.Int("total", len(entries)))
	return nil
}

func (r *jsonRequestLogRepository) List(_ context.Context) []models.RequestLogEntry {
	return r.load()
}

func (r *jsonRequestLogRepository) FindByID(ctx context.Context, logID string) (*models.RequestLogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, e := range r.load() {
		if e.LogID == logID {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

func (r *jsonRequestLogRepository) Delete(ctx context.Context, logID string) (bool, error) {
	entries := r.load()
	kept := make([]models.RequestLogEntry, 0, len(entries))
	for _, e := range entries {
		if e.LogID != logID {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := r.save(kept); err != nil {
		r.logger.Error("Failed to delete request log entry", zap.String("log_id", logID), zap.Error(err))
		return false, err
	}
	r.logger.Debug("Request log entry deleted", zap.String("log_id", logID), zap.Int("remaining", len(kept)))
	return true, nil
}

// load reads the full collection. Any problem yields an empty collection.
func (r *jsonRequestLogRepository) load() []models.RequestLogEntry {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("Failed to read request log file, treating as empty", zap.String("path", r.path), zap.Error(err))
		}
		return []models.RequestLogEntry{}
	}
	var entries []models.RequestLogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		r.logger.Warn("Request log file is not valid JSON, treating as empty", zap.String("path", r.path), zap.Error(err))
		return []models.RequestLogEntry{}
	}
	if entries == nil {
		entries = []models.RequestLogEntry{}
	}
	return entries
}

// save replaces the file with the given collection. The data goes to a
// temporary file in the same directory first so a reader never sees a
// half-written array.
func (r *jsonRequestLogRepository) save(entries []models.RequestLogEntry) error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create request log directory %s: %w", dir, err)
	}
	if entries == nil {
		entries = []models.RequestLogEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode request log: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".requests-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp request log: %w", err)
	}
	tmpName := tmp.Name()
	_ = tmp.Chmod(0644)
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write request log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp request log: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace request log %s: %w", r.path, err)
	}
	return nil
}
