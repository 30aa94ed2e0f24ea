package services

import (
	"errors"
	"fmt"
	"net/http"
)

type ExtractionKind string

const (
	KindUnsupportedWord ExtractionKind = "unsupported_word"
	KindUnsupportedType ExtractionKind = "unsupported_type"
	KindNoReadableText  ExtractionKind = "no_readable_text"
	KindUnreadable      ExtractionKind = "unreadable"
)

const (
	MsgWordNotSupported = "Word documents are not supported. Please convert your resume to PDF or plain text and try again."
	MsgNoReadableText   = "No readable text found in the PDF. It is likely a scanned or image-based PDF."
	MsgUnsupportedType  = "Unsupported file type. Please upload a PDF or plain text file."
	MsgUnreadableFile   = "Could not read the uploaded file."

	MsgServiceUnavailable = "The analysis service is temporarily unavailable. Please retry later."
	MsgInvalidAPIKey      = "Invalid API key. Please check the configuration."
	MsgAnalysisFailed     = "Failed to analyze resume. Please try again."
	MsgParseFailed        = "Failed to parse analysis results. Please try again."
	MsgUploadFailed       = "Upload failed. Please try again."

	ReasonNoPayload        = "no structured payload found"
	ReasonMalformedPayload = "malformed payload"
)

// ExtractionError is returned when a file cannot be turned into text.
// Message is safe to show to the end user as is.
type ExtractionError struct {
	Kind    ExtractionKind
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction failed: %s", e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

type ServiceErrorKind string

const (
	ServiceUnavailable ServiceErrorKind = "unavailable"
	ServiceAuth        ServiceErrorKind = "auth"
	ServiceUnknown     ServiceErrorKind = "unknown"
)

// ServiceError is a classified failure of the model call.
type ServiceError struct {
	Kind  ServiceErrorKind
	Cause error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("model service error (%s): %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("model service error (%s)", e.Kind)
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// UserMessage returns the category specific message for the end user.
func (e *ServiceError) UserMessage() string {
	switch e.Kind {
	case ServiceUnavailable:
		return MsgServiceUnavailable
	case ServiceAuth:
		return MsgInvalidAPIKey
	default:
		return MsgAnalysisFailed
	}
}

// Retryable reports whether repeating the call may succeed.
func (e *ServiceError) Retryable() bool {
	return e.Kind == ServiceUnavailable
}

// ParseError is returned when no usable payload can be read from a model reply.
// Raw holds the untrusted text for diagnostic logging only.
type ParseError struct {
	Reason string
	Raw    string
	Cause  error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// UploadError aborts an analysis before any extraction happens.
type UploadError struct {
	Cause error
}

func (e *UploadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("upload failed: %v", e.Cause)
	}
	return "upload failed"
}

func (e *UploadError) Unwrap() error {
	return e.Cause
}

// PersistenceError wraps record store failures.
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s analysis record: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

// ErrAnalysisNotFound is returned when a record does not exist or belongs to another user.
var ErrAnalysisNotFound = errors.New("analysis not found")

// UserMessage maps a pipeline error to an HTTP status and the message shown to the user.
// Raw model output and internal causes are never part of the message.
func UserMessage(err error) (int, string) {
	var extractErr *ExtractionError
	var serviceErr *ServiceError
	var parseErr *ParseError
	var uploadErr *UploadError

	switch {
	case errors.As(err, &extractErr):
		return http.StatusUnprocessableEntity, extractErr.Message
	case errors.As(err, &serviceErr):
		switch serviceErr.Kind {
		case ServiceUnavailable:
			return http.StatusServiceUnavailable, serviceErr.UserMessage()
		case ServiceAuth:
			return http.StatusBadGateway, serviceErr.UserMessage()
		default:
			return http.StatusInternalServerError, serviceErr.UserMessage()
		}
	case errors.As(err, &parseErr):
		return http.StatusBadGateway, MsgParseFailed
	case errors.As(err, &uploadErr):
		return http.StatusBadGateway, MsgUploadFailed
	case errors.Is(err, ErrAnalysisNotFound):
		return http.StatusNotFound, "Analysis not found"
	default:
		return http.StatusInternalServerError, MsgAnalysisFailed
	}
}
