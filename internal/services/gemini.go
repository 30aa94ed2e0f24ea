package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

type GeminiService interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateTextWithRetry(ctx context.Context, prompt string) (string, error)
	ModelName() string
}

// contentGenerator is the subset of *genai.Models used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiOptions struct {
	APIKey            string
	Model             string
	Temperature       float32
	Timeout           time.Duration
	MaxAttempts       int
	RetryInitialDelay time.Duration
}

type geminiService struct {
	models            contentGenerator
	modelName         string
	temperature       float32
	timeout           time.Duration
	maxAttempts       int
	retryInitialDelay time.Duration
	logger            zerolog.Logger
}

func NewGeminiService(ctx context.Context, opts GeminiOptions, logger zerolog.Logger) (GeminiService, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return newGeminiService(client.Models, opts, logger), nil
}

func newGeminiService(models contentGenerator, opts GeminiOptions, logger zerolog.Logger) *geminiService {
	if opts.Model == "" {
		opts.Model = DefaultGeminiModel
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.RetryInitialDelay <= 0 {
		opts.RetryInitialDelay = 2 * time.Second
	}

	return &geminiService{
		models:            models,
		modelName:         opts.Model,
		temperature:       opts.Temperature,
		timeout:           opts.Timeout,
		maxAttempts:       opts.MaxAttempts,
		retryInitialDelay: opts.RetryInitialDelay,
		logger:            logger.With().Str("component", "gemini").Logger(),
	}
}

// ModelName implements GeminiService.
func (g *geminiService) ModelName() string {
	return g.modelName
}

// GenerateText implements GeminiService. Failures are *ServiceError.
func (g *geminiService) GenerateText(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	temperature := g.temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	}

	resp, err := g.models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(ctxErr, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
		}
		serviceErr := ClassifyModelError(err)
		g.logger.Error().Err(err).Str("kind", string(serviceErr.Kind)).Msg("❌ Gemini API error")
		return "", serviceErr
	}

	if resp == nil {
		g.logger.Warn().Msg("⚠️ Gemini API returned nil response")
		return "", nil
	}

	text := resp.Text()
	g.logger.Debug().Int("chars", len(text)).Msg("📊 Gemini response received")

	return text, nil
}

// GenerateTextWithRetry implements GeminiService. Only unavailable errors are retried,
// with exponential backoff. With one attempt configured it behaves like GenerateText.
func (g *geminiService) GenerateTextWithRetry(ctx context.Context, prompt string) (string, error) {
	delay := g.retryInitialDelay
	var lastErr error

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		result, err := g.GenerateText(ctx, prompt)
		if err == nil {
			return result, nil
		}
		lastErr = err

		var serviceErr *ServiceError
		if !errors.As(err, &serviceErr) || !serviceErr.Retryable() || attempt == g.maxAttempts {
			break
		}

		g.logger.Warn().Err(err).Int("attempt", attempt).Dur("backoff", delay).Msg("⚠️ Attempt failed. Retrying...")

		select {
		case <-ctx.Done():
			return "", &ServiceError{Kind: ServiceUnknown, Cause: fmt.Errorf("context cancelled: %w", ctx.Err())}
		case <-time.After(delay):
		}
		delay *= 2
	}

	return "", lastErr
}

// Text markers are only consulted when the error carries no genai.APIError.
var (
	unavailableMarkers = []string{"unavailable", "error 503", "overloaded"}
	authMarkers        = []string{"api key not valid", "api_key_invalid", "invalid api key", "permission denied", "permission_denied", "error 401", "error 403"}
)

// ClassifyModelError maps a model call failure onto the service error categories.
func ClassifyModelError(err error) *ServiceError {
	if err == nil {
		return nil
	}

	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &ServiceError{Kind: ServiceUnavailable, Cause: err}
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &ServiceError{Kind: classifyAPIError(apiErr), Cause: err}
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range unavailableMarkers {
		if strings.Contains(msg, marker) {
			return &ServiceError{Kind: ServiceUnavailable, Cause: err}
		}
	}
	for _, marker := range authMarkers {
		if strings.Contains(msg, marker) {
			return &ServiceError{Kind: ServiceAuth, Cause: err}
		}
	}

	return &ServiceError{Kind: ServiceUnknown, Cause: err}
}

// classifyAPIError reads the HTTP code and status of a genai error response. Gemini
// reports an invalid key as 400 INVALID_ARGUMENT, so the message is checked for that.
func classifyAPIError(apiErr genai.APIError) ServiceErrorKind {
	switch {
	case apiErr.Code == 503 || apiErr.Code == 504 || apiErr.Status == "UNAVAILABLE" || apiErr.Status == "DEADLINE_EXCEEDED":
		return ServiceUnavailable
	case apiErr.Code == 401 || apiErr.Code == 403 || apiErr.Status == "UNAUTHENTICATED" || apiErr.Status == "PERMISSION_DENIED":
		return ServiceAuth
	}

	msg := strings.ToLower(apiErr.Message)
	for _, marker := range authMarkers {
		if strings.Contains(msg, marker) {
			return ServiceAuth
		}
	}

	return ServiceUnknown
}
