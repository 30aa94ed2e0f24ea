package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// ObjectStorage stores uploaded resumes and hands out public URLs for them.
type ObjectStorage interface {
	Upload(ctx context.Context, userID string, file models.UploadedFile) (string, error)
	Delete(ctx context.Context, fileURL string) error
	EnsureReady(ctx context.Context) error
}

// LocalFilesRoute is where the local driver's files are served from.
const LocalFilesRoute = "/files"

var _ ObjectStorage = (*localStorage)(nil)

type localStorage struct {
	uploadPath string
	urls       objectURLs
}

// NewLocalStorage stores files on disk under uploadPath. They are expected to be
// served at publicBaseURL + LocalFilesRoute.
func NewLocalStorage(uploadPath, publicBaseURL string) ObjectStorage {
	return &localStorage{
		uploadPath: uploadPath,
		urls:       objectURLs{base: strings.TrimRight(publicBaseURL, "/") + LocalFilesRoute},
	}
}

// EnsureReady implements ObjectStorage.
func (s *localStorage) EnsureReady(ctx context.Context) error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// Upload implements ObjectStorage.
func (s *localStorage) Upload(ctx context.Context, userID string, file models.UploadedFile) (string, error) {
	key := objectKey(userID, file.Name)
	filePath := filepath.Join(s.uploadPath, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create destination directory: %w", err)
	}

	if err := os.WriteFile(filePath, file.Data, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return s.urls.url(key), nil
}

// Delete implements ObjectStorage.
func (s *localStorage) Delete(ctx context.Context, fileURL string) error {
	key, err := s.urls.key(fileURL)
	if err != nil {
		return err
	}

	filePath := filepath.Join(s.uploadPath, filepath.FromSlash(key))
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// objectKey builds "<user>/<uuid><ext>"; the original name only contributes its extension.
func objectKey(userID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !isSafeSegment(strings.TrimPrefix(ext, ".")) {
		ext = ""
	}
	return fmt.Sprintf("%s/%s%s", safeSegment(userID), uuid.New().String(), ext)
}

func safeSegment(s string) string {
	if s == "" {
		return "anonymous"
	}
	var b strings.Builder
	for _, r := range s {
		if isSafeRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func isSafeSegment(s string) bool {
	for _, r := range s {
		if !isSafeRune(r) {
			return false
		}
	}
	return true
}

func isSafeRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_'
}

// objectURLs converts between object keys and their public URLs.
type objectURLs struct {
	base string
}

func (o objectURLs) url(key string) string {
	return o.base + "/" + key
}

func (o objectURLs) key(fileURL string) (string, error) {
	prefix := o.base + "/"
	if !strings.HasPrefix(fileURL, prefix) {
		return "", fmt.Errorf("file URL %q does not belong to this storage", fileURL)
	}

	key := strings.TrimPrefix(fileURL, prefix)
	parts := strings.Split(key, "/")
	if len(parts) != 2 || !isSafeSegment(parts[0]) || parts[1] == "" || strings.Contains(parts[1], "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return key, nil
}
