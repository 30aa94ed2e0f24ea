package models

import "time"

type AnalyzeResponse struct {
	ID       string          `json:"id,omitempty"`
	FileName string          `json:"file_name"`
	FileURL  string          `json:"file_url"`
	Saved    bool            `json:"saved"`
	Result   *AnalysisResult `json:"result"`
}

type BatchItemResponse struct {
	FileName string          `json:"file_name"`
	ID       string          `json:"id,omitempty"`
	FileURL  string          `json:"file_url,omitempty"`
	Result   *AnalysisResult `json:"result,omitempty"`
	Error    *string         `json:"error,omitempty"`
}

type BatchResponse struct {
	Items []BatchItemResponse `json:"items"`
}

type AnalysisRecordResponse struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	FileName  string          `json:"file_name"`
	FileURL   string          `json:"file_url"`
	Result    *AnalysisResult `json:"analysis_results"`
	CreatedAt time.Time       `json:"created_at"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
