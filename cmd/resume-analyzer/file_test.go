package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-analyzer/internal/models"
)

func TestMimeForPath(t *testing.T) {
	tests := map[string]string{
		"cv.pdf":          models.MimePDF,
		"CV.PDF":          models.MimePDF,
		"notes.txt":       models.MimeTextPlain,
		"resume.docx":     models.MimeDocx,
		"resume.doc":      models.MimeMSWord,
		"scan":            "application/octet-stream",
		"dir.v2/scan.png": "application/octet-stream",
	}
	for path, want := range tests {
		assert.Equal(t, want, mimeForPath(path), path)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jane.txt")
	require.NoError(t, os.WriteFile(path, []byte("Jane Doe"), 0o644))

	file, err := loadFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, "jane.txt", file.Name)
	assert.Equal(t, models.MimeTextPlain, file.MimeType)
	assert.Equal(t, []byte("Jane Doe"), file.Data)

	file, err = loadFile(path, models.MimePDF)
	require.NoError(t, err)
	assert.Equal(t, models.MimePDF, file.MimeType)

	_, err = loadFile(filepath.Join(t.TempDir(), "missing.pdf"), "")
	assert.Error(t, err)
}

func TestPromptCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jane.txt")
	require.NoError(t, os.WriteFile(path, []byte("Jane Doe, Go engineer"), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"prompt", path})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.True(t, strings.HasSuffix(out.String(), "RESUME:\nJane Doe, Go engineer"), out.String())
}

func TestPromptCommand_WordRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jane.docx")
	require.NoError(t, os.WriteFile(path, []byte("PK"), 0o644))

	rootCmd.SetArgs([]string{"prompt", path})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Word documents are not supported")
}
