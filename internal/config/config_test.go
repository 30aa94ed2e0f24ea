package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 60*time.Second, cfg.Gemini.Timeout)
	assert.InDelta(t, 0.3, cfg.Gemini.Temperature, 1e-6)
	assert.Equal(t, StorageDriverLocal, cfg.Storage.Driver)
	assert.Equal(t, int64(10485760), cfg.Storage.MaxFileSize)
	assert.Equal(t, 10, cfg.Storage.MaxBatchFiles)
	assert.Equal(t, 3, cfg.Worker.Concurrency)
	assert.Equal(t, 1, cfg.Worker.RetryMaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Worker.RetryInitialDelay)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("GEMINI_TIMEOUT", "90s")
	t.Setenv("GEMINI_TEMPERATURE", "0.7")
	t.Setenv("MAX_FILE_SIZE", "2048")
	t.Setenv("MAX_BATCH_FILES", "25")
	t.Setenv("WORKER_CONCURRENCY", "5")
	t.Setenv("RETRY_MAX_ATTEMPTS", "3")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 90*time.Second, cfg.Gemini.Timeout)
	assert.InDelta(t, 0.7, cfg.Gemini.Temperature, 1e-6)
	assert.Equal(t, int64(2048), cfg.Storage.MaxFileSize)
	assert.Equal(t, 25, cfg.Storage.MaxBatchFiles)
	assert.Equal(t, 5, cfg.Worker.Concurrency)
	assert.Equal(t, 3, cfg.Worker.RetryMaxAttempts)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GEMINI_TIMEOUT", "soon")
	t.Setenv("WORKER_CONCURRENCY", "many")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, 3, cfg.Worker.Concurrency)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing api key", map[string]string{"JWT_SECRET": "s"}},
		{"missing jwt secret", map[string]string{"GEMINI_API_KEY": "k"}},
		{"unknown storage driver", map[string]string{"GEMINI_API_KEY": "k", "JWT_SECRET": "s", "STORAGE_DRIVER": "ftp"}},
		{"minio without credentials", map[string]string{"GEMINI_API_KEY": "k", "JWT_SECRET": "s", "STORAGE_DRIVER": "minio"}},
		{"zero concurrency", map[string]string{"GEMINI_API_KEY": "k", "JWT_SECRET": "s", "WORKER_CONCURRENCY": "0"}},
		{"zero batch size", map[string]string{"GEMINI_API_KEY": "k", "JWT_SECRET": "s", "MAX_BATCH_FILES": "0"}},
		{"bad log level", map[string]string{"GEMINI_API_KEY": "k", "JWT_SECRET": "s", "LOG_LEVEL": "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GEMINI_API_KEY", "")
			t.Setenv("JWT_SECRET", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			assert.Nil(t, cfg)
			assert.ErrorContains(t, err, "invalid configuration")
		})
	}
}

func TestLoad_MinIOWithCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STORAGE_DRIVER", "minio")
	t.Setenv("MINIO_ACCESS_KEY", "minioadmin")
	t.Setenv("MINIO_SECRET_KEY", "minioadmin")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageDriverMinIO, cfg.Storage.Driver)
	assert.Equal(t, "resumes", cfg.MinIO.Bucket)
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: "5432", User: "app", Password: "pw", DBName: "resumes", SSLMode: "disable",
	}}
	assert.Equal(t, "host=db port=5432 user=app password=pw dbname=resumes sslmode=disable", cfg.GetDatabaseDSN())
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Info, gormLogLevel(&Config{Server: ServerConfig{Env: "development"}}))
	assert.Equal(t, logger.Info, gormLogLevel(&Config{Server: ServerConfig{Env: "production"}, Log: LogConfig{Level: "debug"}}))
	assert.Equal(t, logger.Silent, gormLogLevel(&Config{Server: ServerConfig{Env: "production"}, Log: LogConfig{Level: "info"}}))
}

func TestNewLogger_JSON(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.DebugLevel) })

	var buf bytes.Buffer
	log := newLogger(LogConfig{Level: "warn", Format: "json"}, &buf)

	log.Info().Msg("hidden")
	log.Warn().Str("file_name", "cv.pdf").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"file_name":"cv.pdf"`)
	assert.Contains(t, out, `"service":"resume-analyzer"`)
}
