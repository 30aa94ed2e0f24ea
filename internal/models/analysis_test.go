package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestAnalysis_ResultRoundTrip(t *testing.T) {
	result := NewAnalysisResult()
	result.Scores = Scores{Overall: 81, ATSCompatibility: 77, KeywordOptimization: 64, Formatting: 92, Impact: 70}
	result.Summary = "Good structure, light on metrics."
	result.Strengths = []string{"Clear headings"}
	result.CriticalIssues = []string{"No dates on roles"}

	var record Analysis
	require.NoError(t, record.SetResult(result))

	var column map[string]any
	require.NoError(t, json.Unmarshal(record.AnalysisResults, &column))
	assert.Contains(t, column, "criticalIssues")
	assert.Contains(t, column["scores"], "atsCompatibility")

	decoded, err := record.Result()
	require.NoError(t, err)
	assert.Equal(t, result, decoded)
}

func TestAnalysis_ResultFillsMissingLists(t *testing.T) {
	record := Analysis{AnalysisResults: datatypes.JSON(`{"scores":{"overall":50},"summary":"ok","strengths":null}`)}

	decoded, err := record.Result()
	require.NoError(t, err)
	assert.Equal(t, 50, decoded.Scores.Overall)
	assert.NotNil(t, decoded.Strengths)
	assert.NotNil(t, decoded.Improvements)
	assert.NotNil(t, decoded.CriticalIssues)
	assert.NotNil(t, decoded.Suggestions)
}

func TestAnalysis_EmptyColumn(t *testing.T) {
	decoded, err := (&Analysis{}).Result()
	require.NoError(t, err)
	assert.Equal(t, NewAnalysisResult(), decoded)
}

func TestAnalysis_CorruptColumn(t *testing.T) {
	_, err := (&Analysis{AnalysisResults: datatypes.JSON(`{"scores":`)}).Result()
	assert.Error(t, err)
}

func TestUploadedFile_BaseMimeType(t *testing.T) {
	tests := map[string]string{
		"application/pdf":           MimePDF,
		"text/plain; charset=utf-8": MimeTextPlain,
		" Application/PDF ":         MimePDF,
		"":                          "",
	}
	for in, want := range tests {
		assert.Equal(t, want, UploadedFile{MimeType: in}.BaseMimeType(), in)
	}
}
