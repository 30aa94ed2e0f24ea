package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"alfredoptarigan/resume-analyzer/internal/models"
)

var extensionMimeTypes = map[string]string{
	".pdf":  models.MimePDF,
	".txt":  models.MimeTextPlain,
	".text": models.MimeTextPlain,
	".md":   models.MimeTextPlain,
	".doc":  models.MimeMSWord,
	".docx": models.MimeDocx,
}

// mimeForPath guesses the MIME type from the extension. Unknown extensions get
// application/octet-stream, which the extractor will try as PDF.
func mimeForPath(path string) string {
	if mt, ok := extensionMimeTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return mt
	}
	return "application/octet-stream"
}

func loadFile(path, mimeOverride string) (models.UploadedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.UploadedFile{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	mimeType := mimeOverride
	if mimeType == "" {
		mimeType = mimeForPath(path)
	}

	return models.UploadedFile{
		Name:     filepath.Base(path),
		MimeType: mimeType,
		Data:     data,
	}, nil
}
