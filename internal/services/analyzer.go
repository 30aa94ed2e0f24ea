package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
)

// AnalysisOutcome is what a caller receives from Analyze. ID is empty and Saved
// is false when the result could not be recorded.
type AnalysisOutcome struct {
	ID       string
	FileName string
	FileURL  string
	Saved    bool
	Result   *models.AnalysisResult
}

type AnalyzerService interface {
	Analyze(ctx context.Context, userID string, file models.UploadedFile) (*AnalysisOutcome, error)
	ListAnalyses(ctx context.Context, userID string) ([]models.Analysis, error)
	GetAnalysis(ctx context.Context, userID string, id uuid.UUID) (*models.Analysis, error)
	DeleteAnalysis(ctx context.Context, userID string, id uuid.UUID) error
}

type analyzerService struct {
	storage   ObjectStorage
	extractor TextExtractor
	evaluator EvaluatorService
	repo      repositories.AnalysisRepository
	logger    zerolog.Logger
}

func NewAnalyzerService(
	storage ObjectStorage,
	extractor TextExtractor,
	evaluator EvaluatorService,
	repo repositories.AnalysisRepository,
	logger zerolog.Logger,
) AnalyzerService {
	return &analyzerService{
		storage:   storage,
		extractor: extractor,
		evaluator: evaluator,
		repo:      repo,
		logger:    logger,
	}
}

// Analyze implements AnalyzerService: upload, extract, evaluate, then record.
// Every step runs once, in order. Only the final record step may fail without
// failing the call.
func (a *analyzerService) Analyze(ctx context.Context, userID string, file models.UploadedFile) (*AnalysisOutcome, error) {
	logger := a.logger.With().
		Str("user_id", userID).
		Str("file_name", file.Name).
		Str("mime_type", file.MimeType).
		Logger()

	logger.Info().Int("bytes", len(file.Data)).Msg("📤 Uploading resume...")
	fileURL, err := a.storage.Upload(ctx, userID, file)
	if err != nil {
		logger.Error().Err(err).Msg("❌ Upload failed")
		return nil, &UploadError{Cause: err}
	}
	if fileURL == "" {
		logger.Error().Msg("❌ Upload returned no URL")
		return nil, &UploadError{Cause: errors.New("storage returned an empty URL")}
	}

	logger.Info().Msg("📄 Extracting text...")
	text, err := a.extractor.ExtractText(file)
	if err != nil {
		logger.Warn().Err(err).Msg("⚠️ Text extraction failed")
		return nil, err
	}
	logger.Info().Int("chars", len(text)).Msg("📄 Text extracted")

	result, err := a.evaluator.EvaluateText(ctx, text)
	if err != nil {
		return nil, err
	}

	outcome := &AnalysisOutcome{
		FileName: file.Name,
		FileURL:  fileURL,
		Result:   result,
	}

	logger.Info().Msg("💾 Saving analysis results...")
	if id, err := a.save(ctx, userID, file.Name, fileURL, result); err != nil {
		// The user still gets their analysis when history keeping fails.
		logger.Warn().Err(err).Msg("⚠️ Failed to save analysis, returning result anyway")
	} else {
		outcome.ID = id
		outcome.Saved = true
	}

	logger.Info().
		Str("analysis_id", outcome.ID).
		Int("overall", result.Scores.Overall).
		Msg("✅ Analysis completed")
	return outcome, nil
}

func (a *analyzerService) save(ctx context.Context, userID, fileName, fileURL string, result *models.AnalysisResult) (string, error) {
	record := &models.Analysis{
		ID:       uuid.New(),
		UserID:   userID,
		FileName: fileName,
		FileURL:  fileURL,
	}
	if err := record.SetResult(result); err != nil {
		return "", &PersistenceError{Op: "encode", Cause: err}
	}
	if err := a.repo.Create(ctx, record); err != nil {
		return "", &PersistenceError{Op: "create", Cause: err}
	}
	return record.ID.String(), nil
}

// ListAnalyses implements AnalyzerService. Newest first.
func (a *analyzerService) ListAnalyses(ctx context.Context, userID string) ([]models.Analysis, error) {
	analyses, err := a.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, &PersistenceError{Op: "list", Cause: err}
	}
	return analyses, nil
}

// GetAnalysis implements AnalyzerService.
func (a *analyzerService) GetAnalysis(ctx context.Context, userID string, id uuid.UUID) (*models.Analysis, error) {
	analysis, err := a.repo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAnalysisNotFound
		}
		return nil, &PersistenceError{Op: "find", Cause: err}
	}
	return analysis, nil
}

// DeleteAnalysis implements AnalyzerService. The stored file is removed on a best
// effort basis after the record is gone.
func (a *analyzerService) DeleteAnalysis(ctx context.Context, userID string, id uuid.UUID) error {
	analysis, err := a.GetAnalysis(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := a.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrAnalysisNotFound
		}
		return &PersistenceError{Op: "delete", Cause: err}
	}

	if analysis.FileURL != "" {
		if err := a.storage.Delete(ctx, analysis.FileURL); err != nil {
			a.logger.Warn().Err(err).Str("analysis_id", id.String()).Msg("⚠️ Failed to delete stored file")
		}
	}

	a.logger.Info().Str("analysis_id", id.String()).Str("user_id", userID).Msg("🗑️ Analysis deleted")
	return nil
}
