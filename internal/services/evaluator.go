package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// EvaluatorService asks the model to grade resume text and normalizes the reply.
type EvaluatorService interface {
	EvaluateText(ctx context.Context, resumeText string) (*models.AnalysisResult, error)
}

type evaluatorService struct {
	geminiService GeminiService
	promptBuilder *PromptBuilder
	logger        zerolog.Logger
}

func NewEvaluatorService(geminiService GeminiService, logger zerolog.Logger) EvaluatorService {
	return &evaluatorService{
		geminiService: geminiService,
		promptBuilder: NewPromptBuilder(),
		logger:        logger,
	}
}

// EvaluateText implements EvaluatorService. Errors are *ServiceError or *ParseError.
func (e *evaluatorService) EvaluateText(ctx context.Context, resumeText string) (*models.AnalysisResult, error) {
	prompt := e.promptBuilder.BuildResumeAnalysisPrompt(resumeText)
	e.logger.Info().
		Str("prompt_version", PromptVersion).
		Int("prompt_chars", len(prompt)).
		Msg("🤖 Evaluating resume with LLM...")

	response, err := e.geminiService.GenerateTextWithRetry(ctx, prompt)
	if err != nil {
		return nil, ClassifyModelError(err)
	}

	e.logger.Info().Int("chars", len(response)).Msg("✅ Evaluation response received")

	result, err := NormalizeResponse(response)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			// The raw reply is untrusted and stays in debug logs only.
			e.logger.Debug().Str("reason", parseErr.Reason).Str("raw", parseErr.Raw).Msg("Unparseable model reply")
		}
		e.logger.Error().Err(err).Msg("❌ Failed to parse evaluation response")
		return nil, err
	}

	return result, nil
}
