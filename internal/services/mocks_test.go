package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"alfredoptarigan/resume-analyzer/internal/models"
)

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) Upload(ctx context.Context, userID string, file models.UploadedFile) (string, error) {
	args := m.Called(ctx, userID, file)
	return args.String(0), args.Error(1)
}

func (m *mockStorage) Delete(ctx context.Context, fileURL string) error {
	return m.Called(ctx, fileURL).Error(0)
}

func (m *mockStorage) EnsureReady(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) ExtractText(file models.UploadedFile) (string, error) {
	args := m.Called(file)
	return args.String(0), args.Error(1)
}

type mockEvaluator struct {
	mock.Mock
}

func (m *mockEvaluator) EvaluateText(ctx context.Context, resumeText string) (*models.AnalysisResult, error) {
	args := m.Called(ctx, resumeText)
	result, _ := args.Get(0).(*models.AnalysisResult)
	return result, args.Error(1)
}

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, analysis *models.Analysis) error {
	return m.Called(ctx, analysis).Error(0)
}

func (m *mockRepository) FindByID(ctx context.Context, userID string, id uuid.UUID) (*models.Analysis, error) {
	args := m.Called(ctx, userID, id)
	analysis, _ := args.Get(0).(*models.Analysis)
	return analysis, args.Error(1)
}

func (m *mockRepository) ListByUser(ctx context.Context, userID string) ([]models.Analysis, error) {
	args := m.Called(ctx, userID)
	analyses, _ := args.Get(0).([]models.Analysis)
	return analyses, args.Error(1)
}

func (m *mockRepository) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}

type mockGemini struct {
	mock.Mock
}

func (m *mockGemini) GenerateText(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *mockGemini) GenerateTextWithRetry(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *mockGemini) ModelName() string {
	return "mock-model"
}
