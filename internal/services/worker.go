package services

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// BatchItem is the outcome of one file in a batch. Exactly one of Outcome and Err is set.
type BatchItem struct {
	FileName string
	Outcome  *AnalysisOutcome
	Err      error
}

type BatchAnalyzer interface {
	AnalyzeBatch(ctx context.Context, userID string, files []models.UploadedFile) []BatchItem
}

type batchAnalyzer struct {
	analyzer    AnalyzerService
	concurrency int
	logger      zerolog.Logger
}

func NewBatchAnalyzer(analyzer AnalyzerService, concurrency int, logger zerolog.Logger) BatchAnalyzer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &batchAnalyzer{
		analyzer:    analyzer,
		concurrency: concurrency,
		logger:      logger,
	}
}

// AnalyzeBatch implements BatchAnalyzer. Files are analyzed independently with at
// most concurrency analyses in flight; a failure never stops the others. Items are
// returned in input order.
func (b *batchAnalyzer) AnalyzeBatch(ctx context.Context, userID string, files []models.UploadedFile) []BatchItem {
	items := make([]BatchItem, len(files))

	b.logger.Info().
		Str("user_id", userID).
		Int("files", len(files)).
		Int("concurrency", b.concurrency).
		Msg("🚀 Starting batch analysis")

	var g errgroup.Group
	g.SetLimit(b.concurrency)

	for i, file := range files {
		g.Go(func() error {
			outcome, err := b.analyzer.Analyze(ctx, userID, file)
			items[i] = BatchItem{FileName: file.Name, Outcome: outcome, Err: err}
			if err != nil {
				b.logger.Warn().Err(err).Str("file_name", file.Name).Msg("⚠️ Batch item failed")
			}
			return nil
		})
	}

	_ = g.Wait()

	b.logger.Info().Str("user_id", userID).Msg("✅ Batch analysis finished")
	return items
}
