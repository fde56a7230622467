package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sentiment-webapi/internal/models"
	"sentiment-webapi/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrRequestNotFound is returned when no history entry has the requested id.
var ErrRequestNotFound = errors.New("request not found")

// timestampLayout is ISO-8601 local time with microseconds and offset.
const timestampLayout = "2006-01-02T15:04:05.000000-07:00"

// LogParams are the caller-supplied parts of a history entry. Nil fields are
// left out of the stored entry.
type LogParams struct {
	RequestType models.RequestType
	Success     bool
	Review      *string
	Prediction  *string
	Probability *float64
	FileType    *string
	Filename    *string
	Error       *string
}

// RequestLogService defines the operations on the request history.
type RequestLogService interface {
	// Record stores a new entry and returns its generated log id.
	Record(ctx context.Context, params LogParams) (string, error)
	ListAll(ctx context.Context) []models.RequestLogEntry
	// ListRecentFirst is ListAll reversed, as shown in the sidebar.
	ListRecentFirst(ctx context.Context) []models.RequestLogEntry
	Get(ctx context.Context, logID string) (*models.RequestLogEntry, error)
	Delete(ctx context.Context, logID string) error
	// Export renders one entry as indented JSON for download.
	Export(ctx context.Context, logID string) ([]byte, error)
}

type requestLogServiceImpl struct {
	repo   repositories.RequestLogRepository
	logger *zap.Logger
	newID  func() string
	now    func() time.Time
}

// NewRequestLogService creates a new RequestLogService
func NewRequestLogService(repo repositories.RequestLogRepository, logger *zap.Logger) RequestLogService {
	return &requestLogServiceImpl{
		repo:   repo,
		logger: logger,
		newID:  uuid.NewString,
		now:    time.Now,
	}
}

func (s *requestLogServiceImpl) Record(ctx context.Context, params LogParams) (string, error) {
	entry := buildEntry(s.newID(), s.now(), params)
	if err := s.repo.Append(ctx, entry); err != nil {
		return "", fmt.Errorf("failed to record request: %w", err)
	}
	s.logger.Debug("Request recorded",
		zap.String("log_id", entry.LogID),
		zap.String("request_type", string(entry.RequestType)),
		zap.Bool("success", entry.Success),
	)
	return entry.LogID, nil
}

// buildEntry keeps text fields only for text requests and file fields only
// for file requests; the error is kept for both.
func buildEntry(logID string, at time.Time, p LogParams) models.RequestLogEntry {
	entry := models.RequestLogEntry{
		LogID:       logID,
		Timestamp:   at.Format(timestampLayout),
		RequestType: p.RequestType,
		Success:     p.Success,
	}
	switch p.RequestType {
	case models.RequestTypeText:
		entry.Review = p.Review
		entry.Prediction = p.Prediction
		entry.Probability = p.Probability
	case models.RequestTypeFile:
		entry.FileType = p.FileType
		entry.Filename = p.Filename
	}
	entry.Error = p.Error
	return entry
}

func (s *requestLogServiceImpl) ListAll(ctx context.Context) []models.RequestLogEntry {
	return s.repo.List(ctx)
}

func (s *requestLogServiceImpl) ListRecentFirst(ctx context.Context) []models.RequestLogEntry {
	entries := s.repo.List(ctx)
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries
}

func (s *requestLogServiceImpl) Get(ctx context.Context, logID string) (*models.RequestLogEntry, error) {
	entry, err := s.repo.FindByID(ctx, logID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrRequestNotFound
	}
	return entry, nil
}

func (s *requestLogServiceImpl) Delete(ctx context.Context, logID string) error {
	deleted, err := s.repo.Delete(ctx, logID)
	if err != nil {
		return fmt.Errorf("failed to delete request %s: %w", logID, err)
	}
	if !deleted {
		return ErrRequestNotFound
	}
	s.logger.Info("Request deleted from history", zap.String("log_id", logID))
	return nil
}

func (s *requestLogServiceImpl) Export(ctx context.Context, logID string) ([]byte, error) {
	entry, err := s.Get(ctx, logID)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode request %s: %w", logID, err)
	}
	return data, nil
}

// Ptr returns a pointer to v, for filling LogParams.
func Ptr[T any](v T) *T {
	return &v
}
