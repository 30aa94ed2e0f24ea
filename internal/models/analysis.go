package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Scores holds the five bounded score fields. Every value is an integer in [0,100].
type Scores struct {
	Overall             int `json:"overall"`
	ATSCompatibility    int `json:"atsCompatibility"`
	KeywordOptimization int `json:"keywordOptimization"`
	Formatting          int `json:"formatting"`
	Impact              int `json:"impact"`
}

// AnalysisResult is the canonical shape every model reply is normalized into.
type AnalysisResult struct {
	Scores         Scores   `json:"scores"`
	Summary        string   `json:"summary"`
	Strengths      []string `json:"strengths"`
	Improvements   []string `json:"improvements"`
	CriticalIssues []string `json:"criticalIssues"`
	Suggestions    []string `json:"suggestions"`
}

// NewAnalysisResult returns a zero result with non-nil lists.
func NewAnalysisResult() *AnalysisResult {
	return &AnalysisResult{
		Strengths:      []string{},
		Improvements:   []string{},
		CriticalIssues: []string{},
		Suggestions:    []string{},
	}
}

// Analysis is a stored analysis record.
type Analysis struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID          string         `gorm:"type:text;not null;index" json:"user_id"`
	FileName        string         `gorm:"type:text" json:"file_name"`
	FileURL         string         `gorm:"type:text" json:"file_url"`
	AnalysisResults datatypes.JSON `gorm:"type:jsonb" json:"analysis_results"`
	CreatedAt       time.Time      `gorm:"default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

func (Analysis) TableName() string {
	return "analyses"
}

// SetResult serializes result into the AnalysisResults column.
func (a *Analysis) SetResult(result *AnalysisResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode analysis result: %w", err)
	}
	a.AnalysisResults = datatypes.JSON(raw)
	return nil
}

// Result decodes the AnalysisResults column.
func (a *Analysis) Result() (*AnalysisResult, error) {
	result := NewAnalysisResult()
	if len(a.AnalysisResults) == 0 {
		return result, nil
	}
	if err := json.Unmarshal(a.AnalysisResults, result); err != nil {
		return nil, fmt.Errorf("failed to decode analysis result: %w", err)
	}
	result.ensureLists()
	return result, nil
}

func (r *AnalysisResult) ensureLists() {
	if r.Strengths == nil {
		r.Strengths = []string{}
	}
	if r.Improvements == nil {
		r.Improvements = []string{}
	}
	if r.CriticalIssues == nil {
		r.CriticalIssues = []string{}
	}
	if r.Suggestions == nil {
		r.Suggestions = []string{}
	}
}
