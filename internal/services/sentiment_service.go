package services

import (
	"context"
	"errors"
	"io"
	"strings"

	"sentiment-webapi/internal/sentiment"
	"sentiment-webapi/internal/tabular"

	"go.uber.org/zap"
)

var (
	ErrEmptyInput      = errors.New("no review text provided")
	ErrFileNotProvided = errors.New("file not provided")
	ErrNoFileSelected  = errors.New("no file selected")
)

// DefaultFeatureColumn is used when the upload form leaves the column empty.
const DefaultFeatureColumn = "review"

// Predictor is the part of the model engine the service depends on.
type Predictor interface {
	PredictText(text string) sentiment.Prediction
	PredictCSV(t *tabular.Table, col string) (*tabular.Table, error)
	PredictSpreadsheet(t *tabular.Table, col string) (*tabular.Table, error)
}

// TextResult is the outcome of a single review prediction.
type TextResult struct {
	Review      string
	Prediction  string
	Probability float64
}

// FileResult is the outcome of a whole-file prediction.
type FileResult struct {
	Table    *tabular.Table
	FileType tabular.FileType
}

// SentimentService defines the analysis operations offered to handlers.
type SentimentService interface {
	// AnalyzeText trims the review and classifies it. A blank review is ErrEmptyInput.
	AnalyzeText(ctx context.Context, review string) (*TextResult, error)
	// AnalyzeFile parses an upload by extension and classifies one column.
	AnalyzeFile(ctx context.Context, filename string, r io.Reader, column string) (*FileResult, error)
}

type sentimentServiceImpl struct {
	predictor Predictor
	logger    *zap.Logger
}

// NewSentimentService creates a new SentimentService
func NewSentimentService(predictor Predictor, logger *zap.Logger) SentimentService {
	return &sentimentServiceImpl{predictor: predictor, logger: logger}
}

func (s *sentimentServiceImpl) AnalyzeText(ctx context.Context, review string) (*TextResult, error) {
	review = strings.TrimSpace(review)
	if review == "" {
		return nil, ErrEmptyInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := s.predictor.PredictText(review)
	s.logger.Debug("Text classified", zap.String("prediction", p.Label), zap.Float64("probability", p.Confidence))
	return &TextResult{Review: review, Prediction: p.Label, Probability: p.Confidence}, nil
}

func (s *sentimentServiceImpl) AnalyzeFile(ctx context.Context, filename string, r io.Reader, column string) (*FileResult, error) {
	if filename == "" {
		return nil, ErrNoFileSelected
	}
	column = strings.ToLower(column)
	if column == "" {
		column = DefaultFeatureColumn
	}

	table, fileType, err := tabular.Read(filename, r)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out *tabular.Table
	if fileType.IsSpreadsheet() {
		out, err = s.predictor.PredictSpreadsheet(table, column)
	} else {
		out, err = s.predictor.PredictCSV(table, column)
	}
	if err != nil {
		return nil, err
	}
	out.FillMissing("")

	s.logger.Debug("File classified",
		zap.String("filename", filename),
		zap.String("file_type", string(fileType)),
		zap.String("column", column),
		zap.Int("rows", out.Len()),
	)
	return &FileResult{Table: out, FileType: fileType}, nil
}
