package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

type ResultHandler struct {
	analyzer services.AnalyzerService
	logger   zerolog.Logger
}

func NewResultHandler(analyzer services.AnalyzerService, logger zerolog.Logger) *ResultHandler {
	return &ResultHandler{
		analyzer: analyzer,
		logger:   logger,
	}
}

// HandleList handles GET /analyses
func (h *ResultHandler) HandleList(c *fiber.Ctx) error {
	analyses, err := h.analyzer.ListAnalyses(c.UserContext(), UserID(c))
	if err != nil {
		return h.fail(c, err)
	}

	response := make([]models.AnalysisRecordResponse, 0, len(analyses))
	for i := range analyses {
		record, err := toRecordResponse(&analyses[i])
		if err != nil {
			return h.fail(c, err)
		}
		response = append(response, record)
	}

	return c.JSON(response)
}

// HandleGet handles GET /analyses/:id
func (h *ResultHandler) HandleGet(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid analysis ID format")
	}

	analysis, err := h.analyzer.GetAnalysis(c.UserContext(), UserID(c), id)
	if err != nil {
		return h.fail(c, err)
	}

	record, err := toRecordResponse(analysis)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(record)
}

// HandleDelete handles DELETE /analyses/:id
func (h *ResultHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid analysis ID format")
	}

	if err := h.analyzer.DeleteAnalysis(c.UserContext(), UserID(c), id); err != nil {
		return h.fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ResultHandler) fail(c *fiber.Ctx, err error) error {
	status, message := services.UserMessage(err)
	if status >= fiber.StatusInternalServerError {
		h.logger.Error().Err(err).Str("path", c.Path()).Msg("❌ Record request failed")
	}
	return errorJSON(c, status, message)
}

func toRecordResponse(analysis *models.Analysis) (models.AnalysisRecordResponse, error) {
	result, err := analysis.Result()
	if err != nil {
		return models.AnalysisRecordResponse{}, err
	}
	return models.AnalysisRecordResponse{
		ID:        analysis.ID.String(),
		UserID:    analysis.UserID,
		FileName:  analysis.FileName,
		FileURL:   analysis.FileURL,
		Result:    result,
		CreatedAt: analysis.CreatedAt,
	}, nil
}
