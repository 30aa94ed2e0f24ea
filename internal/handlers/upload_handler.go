package handlers

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

const (
	resumeField  = "resume"
	resumesField = "resumes"

	msgTooManyRequests = "Too many analysis requests. Please wait a minute and try again."
)

type UploadHandler struct {
	analyzer    services.AnalyzerService
	batch       services.BatchAnalyzer
	limiter       services.RateLimiter
	maxFileSize   int64
	maxBatchFiles int
	logger        zerolog.Logger
}

func NewUploadHandler(
	analyzer services.AnalyzerService,
	batch services.BatchAnalyzer,
	limiter services.RateLimiter,
	maxFileSize int64,
	maxBatchFiles int,
	logger zerolog.Logger,
) *UploadHandler {
	return &UploadHandler{
		analyzer:      analyzer,
		batch:         batch,
		limiter:       limiter,
		maxFileSize:   maxFileSize,
		maxBatchFiles: maxBatchFiles,
		logger:        logger,
	}
}

// HandleAnalyze handles POST /analyses
func (h *UploadHandler) HandleAnalyze(c *fiber.Ctx) error {
	userID := UserID(c)

	fileHeader, err := c.FormFile(resumeField)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "resume file is required")
	}

	if fileHeader.Size > h.maxFileSize {
		return errorJSON(c, fiber.StatusRequestEntityTooLarge, fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize))
	}

	if !h.allow(c, userID, 1) {
		return errorJSON(c, fiber.StatusTooManyRequests, msgTooManyRequests)
	}

	file, err := readUploadedFile(fileHeader)
	if err != nil {
		status, message := services.UserMessage(err)
		return errorJSON(c, status, message)
	}

	outcome, err := h.analyzer.Analyze(c.UserContext(), userID, file)
	if err != nil {
		status, message := services.UserMessage(err)
		h.logger.Warn().Err(err).Str("user_id", userID).Int("status", status).Msg("⚠️ Analysis request failed")
		return errorJSON(c, status, message)
	}

	return c.Status(fiber.StatusCreated).JSON(models.AnalyzeResponse{
		ID:       outcome.ID,
		FileName: outcome.FileName,
		FileURL:  outcome.FileURL,
		Saved:    outcome.Saved,
		Result:   outcome.Result,
	})
}

// HandleBatch handles POST /analyses/batch
func (h *UploadHandler) HandleBatch(c *fiber.Ctx) error {
	userID := UserID(c)

	form, err := c.MultipartForm()
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "failed to parse multipart form")
	}

	headers := form.File[resumesField]
	if len(headers) == 0 {
		return errorJSON(c, fiber.StatusBadRequest, "at least one resumes file is required")
	}
	if h.maxBatchFiles > 0 && len(headers) > h.maxBatchFiles {
		return errorJSON(c, fiber.StatusBadRequest, fmt.Sprintf("Too many files. Max per batch: %d", h.maxBatchFiles))
	}

	files := make([]models.UploadedFile, 0, len(headers))
	for _, fileHeader := range headers {
		if fileHeader.Size > h.maxFileSize {
			return errorJSON(c, fiber.StatusRequestEntityTooLarge,
				fmt.Sprintf("File %s too large. Max size: %d bytes", fileHeader.Filename, h.maxFileSize))
		}
		file, err := readUploadedFile(fileHeader)
		if err != nil {
			status, message := services.UserMessage(err)
			return errorJSON(c, status, message)
		}
		files = append(files, file)
	}

	// Every file is one model call, so the whole batch is charged up front.
	if !h.allow(c, userID, len(files)) {
		return errorJSON(c, fiber.StatusTooManyRequests, msgTooManyRequests)
	}

	items := h.batch.AnalyzeBatch(c.UserContext(), userID, files)

	response := models.BatchResponse{Items: make([]models.BatchItemResponse, 0, len(items))}
	for _, item := range items {
		entry := models.BatchItemResponse{FileName: item.FileName}
		if item.Err != nil {
			_, message := services.UserMessage(item.Err)
			entry.Error = &message
		} else {
			entry.ID = item.Outcome.ID
			entry.FileURL = item.Outcome.FileURL
			entry.Result = item.Outcome.Result
		}
		response.Items = append(response.Items, entry)
	}

	return c.JSON(response)
}

func (h *UploadHandler) allow(c *fiber.Ctx, userID string, cost int) bool {
	allowed, err := h.limiter.Allow(c.UserContext(), userID, cost)
	if err != nil {
		h.logger.Warn().Err(err).Str("user_id", userID).Int("cost", cost).Msg("⚠️ Rate limiter unavailable")
	}
	return allowed
}

// readUploadedFile reads the part fully. The MIME type comes from the part header.
func readUploadedFile(fileHeader *multipart.FileHeader) (models.UploadedFile, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return models.UploadedFile{}, unreadable(err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return models.UploadedFile{}, unreadable(err)
	}

	return models.UploadedFile{
		Name:     fileHeader.Filename,
		MimeType: fileHeader.Header.Get(fiber.HeaderContentType),
		Data:     data,
	}, nil
}

func unreadable(err error) error {
	return &services.ExtractionError{
		Kind:    services.KindUnreadable,
		Message: services.MsgUnreadableFile,
		Cause:   fmt.Errorf("failed to read uploaded file: %w", err),
	}
}
