package handlers

import (
	"errors"
	"net/url"
	"strings"

	mw "sentiment-webapi/internal/middleware"
	"sentiment-webapi/internal/models"
	"sentiment-webapi/internal/pkg/validation"
	"sentiment-webapi/internal/services"
	"sentiment-webapi/internal/views"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const msgNoReviewText = "No review text provided"

// PredictionHandler handles the text and file analysis submissions.
type PredictionHandler struct {
	sentimentService  services.SentimentService
	requestLogService services.RequestLogService
}

// NewPredictionHandler creates a new PredictionHandler
func NewPredictionHandler(sentimentService services.SentimentService, requestLogService services.RequestLogService) *PredictionHandler {
	return &PredictionHandler{
		sentimentService:  sentimentService,
		requestLogService: requestLogService,
	}
}

// PredictRequest defines the form fields of POST /predict. Only a blank review
// is rejected; request size is bounded by the server body limit.
type PredictRequest struct {
	Review string `form:"review"`
}

// AnalyzeFileRequest defines the non-file form fields of POST /analyze/file
type AnalyzeFileRequest struct {
	FeatureColumn string `form:"featureColumn" validate:"omitempty,max=255"`
}

// Predict handles POST /predict
func (h *PredictionHandler) Predict(c *fiber.Ctx) error {
	var req PredictRequest
	fileLogger := mw.GetRequestFileLogger(c)

	if err := c.BodyParser(&req); err != nil {
		fileLogger.Warn("Failed to parse predict form data", zap.Error(err))
	}

	result, err := h.sentimentService.AnalyzeText(c.Context(), req.Review)
	if err != nil {
		if errors.Is(err, services.ErrEmptyInput) {
			fileLogger.Info("Predict request without review text")
			h.record(c, services.LogParams{
				RequestType: models.RequestTypeText,
				Error:       services.Ptr(msgNoReviewText),
			})
			return h.textFailure(c, fiber.StatusBadRequest, msgNoReviewText, "")
		}
		review := strings.TrimSpace(req.Review)
		fileLogger.Error("Text analysis failed", zap.Error(err))
		h.record(c, services.LogParams{
			RequestType: models.RequestTypeText,
			Review:      services.Ptr(review),
			Error:       services.Ptr(err.Error()),
		})
		return h.textFailure(c, fiber.StatusInternalServerError, err.Error(), review)
	}

	logID := h.record(c, services.LogParams{
		RequestType: models.RequestTypeText,
		Success:     true,
		Review:      services.Ptr(result.Review),
		Prediction:  services.Ptr(result.Prediction),
		Probability: services.Ptr(result.Probability),
	})
	fileLogger.Info("Text analysis completed",
		zap.String("log_id", logID),
		zap.String("prediction", result.Prediction),
		zap.Float64("probability", result.Probability),
	)

	if !mw.IsAjax(c) {
		return redirectToEntry(c, logID)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"review":      result.Review,
		"prediction":  result.Prediction,
		"probability": result.Probability,
		"log_id":      logID,
	})
}

// AnalyzeFile handles POST /analyze/file (multipart/form-data)
func (h *PredictionHandler) AnalyzeFile(c *fiber.Ctx) error {
	var req AnalyzeFileRequest
	fileLogger := mw.GetRequestFileLogger(c)

	if err := c.BodyParser(&req); err != nil {
		fileLogger.Warn("Failed to parse analyze form data", zap.Error(err))
	}
	if msg := firstValidationMessage(&req); msg != "" {
		fileLogger.Warn("Analyze file request validation failed", zap.String("details", msg))
		h.record(c, services.LogParams{
			RequestType: models.RequestTypeFile,
			Error:       services.Ptr(msg),
		})
		return h.fileFailure(c, msg, req.FeatureColumn)
	}

	result, filename, err := h.analyzeUpload(c, req.FeatureColumn)
	if err != nil {
		fileLogger.Warn("File analysis failed", zap.String("filename", filename), zap.Error(err))
		params := services.LogParams{
			RequestType: models.RequestTypeFile,
			Error:       services.Ptr(err.Error()),
		}
		if filename != "" {
			params.Filename = services.Ptr(filename)
		}
		h.record(c, params)
		return h.fileFailure(c, err.Error(), req.FeatureColumn)
	}

	logID := h.record(c, services.LogParams{
		RequestType: models.RequestTypeFile,
		Success:     true,
		FileType:    services.Ptr(string(result.FileType)),
		Filename:    services.Ptr(filename),
	})
	fileLogger.Info("File analysis completed",
		zap.String("log_id", logID),
		zap.String("filename", filename),
		zap.Int("rows", result.Table.Len()),
	)

	if !mw.IsAjax(c) {
		return redirectToEntry(c, logID)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":   "Sentiment analysis completed",
		"columns":   result.Table.Columns,
		"sentiment": result.Table.Records(),
		"log_id":    logID,
	})
}

// analyzeUpload opens the uploaded file and runs it through the service.
// The returned filename is the client's original name.
func (h *PredictionHandler) analyzeUpload(c *fiber.Ctx, column string) (*services.FileResult, string, error) {
	fh, err := c.FormFile("fileInput")
	if err != nil {
		return nil, "", services.ErrFileNotProvided
	}
	if fh.Filename == "" {
		return nil, "", services.ErrNoFileSelected
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fh.Filename, err
	}
	defer f.Close()

	result, err := h.sentimentService.AnalyzeFile(c.Context(), fh.Filename, f, column)
	return result, fh.Filename, err
}

// record appends to the request history. A failed write is logged and the
// returned id is empty; it never changes the response.
func (h *PredictionHandler) record(c *fiber.Ctx, params services.LogParams) string {
	logID, err := h.requestLogService.Record(c.Context(), params)
	if err != nil {
		mw.GetRequestFileLogger(c).Error("Failed to record request in history", zap.Error(err))
		mw.GetRequestSQLiteLogger(c).Error("Failed to record request in history", zap.Error(err))
		return ""
	}
	return logID
}

func (h *PredictionHandler) textFailure(c *fiber.Ctx, status int, msg, review string) error {
	if mw.IsAjax(c) {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
	return renderPage(c, h.requestLogService, views.PageText, fiber.Map{
		"Title":  "Analyze text",
		"Error":  msg,
		"Review": review,
	})
}

func (h *PredictionHandler) fileFailure(c *fiber.Ctx, msg, column string) error {
	if mw.IsAjax(c) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msg})
	}
	return renderPage(c, h.requestLogService, views.PageFile, fiber.Map{
		"Title":         "Analyze file",
		"Error":         msg,
		"FeatureColumn": column,
	})
}

func redirectToEntry(c *fiber.Ctx, logID string) error {
	if logID == "" {
		return c.Redirect("/", fiber.StatusFound)
	}
	return c.Redirect("/?log_id="+url.QueryEscape(logID), fiber.StatusFound)
}

func firstValidationMessage(payload interface{}) string {
	if errs := validation.ValidateStruct(payload); len(errs) > 0 {
		return errs[0].Message
	}
	return ""
}

// SetupPredictionRoutes registers the analysis submission routes
func (h *PredictionHandler) SetupPredictionRoutes(router fiber.Router) {
	router.Post("/predict", h.Predict)
	router.Post("/analyze/file", h.AnalyzeFile)
}
