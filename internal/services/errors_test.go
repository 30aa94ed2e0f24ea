package services

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"word document", &ExtractionError{Kind: KindUnsupportedWord, Message: MsgWordNotSupported}, http.StatusUnprocessableEntity, MsgWordNotSupported},
		{"scanned pdf", &ExtractionError{Kind: KindNoReadableText, Message: MsgNoReadableText}, http.StatusUnprocessableEntity, MsgNoReadableText},
		{"unavailable", &ServiceError{Kind: ServiceUnavailable}, http.StatusServiceUnavailable, MsgServiceUnavailable},
		{"bad key", &ServiceError{Kind: ServiceAuth}, http.StatusBadGateway, MsgInvalidAPIKey},
		{"unknown model failure", &ServiceError{Kind: ServiceUnknown}, http.StatusInternalServerError, MsgAnalysisFailed},
		{"parse", &ParseError{Reason: ReasonMalformedPayload, Raw: "secret raw text"}, http.StatusBadGateway, MsgParseFailed},
		{"upload", &UploadError{Cause: errors.New("s3 down")}, http.StatusBadGateway, MsgUploadFailed},
		{"not found", fmt.Errorf("lookup: %w", ErrAnalysisNotFound), http.StatusNotFound, "Analysis not found"},
		{"persistence", &PersistenceError{Op: "list", Cause: errors.New("db")}, http.StatusInternalServerError, MsgAnalysisFailed},
		{"wrapped extraction", fmt.Errorf("batch item: %w", &ExtractionError{Kind: KindUnsupportedType, Message: MsgUnsupportedType}), http.StatusUnprocessableEntity, MsgUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := UserMessage(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, message)
		})
	}
}

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("root cause")

	assert.ErrorIs(t, &ExtractionError{Kind: KindUnreadable, Message: MsgUnreadableFile, Cause: cause}, cause)
	assert.ErrorIs(t, &ServiceError{Kind: ServiceUnknown, Cause: cause}, cause)
	assert.ErrorIs(t, &ParseError{Reason: ReasonMalformedPayload, Cause: cause}, cause)
	assert.ErrorIs(t, &UploadError{Cause: cause}, cause)
	assert.ErrorIs(t, &PersistenceError{Op: "create", Cause: cause}, cause)
}
