package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// stubAnalyzer fails files whose name starts with "bad" and tracks concurrency.
type stubAnalyzer struct {
	AnalyzerService

	inFlight atomic.Int32
	peak     atomic.Int32
	mu       sync.Mutex
	seen     []string
}

func (s *stubAnalyzer) Analyze(ctx context.Context, userID string, file models.UploadedFile) (*AnalysisOutcome, error) {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		peak := s.peak.Load()
		if n <= peak || s.peak.CompareAndSwap(peak, n) {
			break
		}
	}

	s.mu.Lock()
	s.seen = append(s.seen, file.Name)
	s.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	if len(file.Name) >= 3 && file.Name[:3] == "bad" {
		return nil, &ExtractionError{Kind: KindNoReadableText, Message: MsgNoReadableText}
	}
	return &AnalysisOutcome{
		ID:       uuid.NewString(),
		FileName: file.Name,
		FileURL:  "https://files/" + userID + "/" + file.Name,
		Saved:    true,
		Result:   models.NewAnalysisResult(),
	}, nil
}

func TestAnalyzeBatch_KeepsOrderAndIsolatesFailures(t *testing.T) {
	stub := &stubAnalyzer{}
	batch := NewBatchAnalyzer(stub, 2, zerolog.Nop())

	files := []models.UploadedFile{
		{Name: "a.pdf"},
		{Name: "bad-scan.pdf"},
		{Name: "c.pdf"},
		{Name: "d.txt"},
		{Name: "bad-empty.pdf"},
	}

	items := batch.AnalyzeBatch(context.Background(), "user-1", files)
	require.Len(t, items, len(files))

	for i, item := range items {
		assert.Equal(t, files[i].Name, item.FileName)
		if i == 1 || i == 4 {
			assert.Nil(t, item.Outcome)
			var extractErr *ExtractionError
			assert.True(t, errors.As(item.Err, &extractErr))
			continue
		}
		require.NoError(t, item.Err)
		require.NotNil(t, item.Outcome)
		assert.Equal(t, files[i].Name, item.Outcome.FileName)
	}

	assert.Len(t, stub.seen, len(files), "every file is analyzed exactly once")
	assert.LessOrEqual(t, stub.peak.Load(), int32(2))
}

func TestAnalyzeBatch_ConcurrencyFloor(t *testing.T) {
	stub := &stubAnalyzer{}
	batch := NewBatchAnalyzer(stub, 0, zerolog.Nop())

	files := make([]models.UploadedFile, 4)
	for i := range files {
		files[i] = models.UploadedFile{Name: fmt.Sprintf("r%d.pdf", i)}
	}

	items := batch.AnalyzeBatch(context.Background(), "user-1", files)
	require.Len(t, items, 4)
	assert.Equal(t, int32(1), stub.peak.Load())
}

func TestAnalyzeBatch_Empty(t *testing.T) {
	batch := NewBatchAnalyzer(&stubAnalyzer{}, 3, zerolog.Nop())
	assert.Empty(t, batch.AnalyzeBatch(context.Background(), "user-1", nil))
}
