package models

import "strings"

const (
	MimeTextPlain = "text/plain"
	MimePDF       = "application/pdf"
	MimeMSWord    = "application/msword"
	MimeDocx      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// UploadedFile is a file as received from the caller. It is never mutated.
type UploadedFile struct {
	Name     string
	MimeType string
	Data     []byte
}

// BaseMimeType returns the lower-cased media type without parameters.
func (f UploadedFile) BaseMimeType() string {
	mt := f.MimeType
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = mt[:i]
	}
	return strings.ToLower(strings.TrimSpace(mt))
}
