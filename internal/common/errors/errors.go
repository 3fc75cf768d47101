// Package errors provides standardized error handling for the permit API.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidRequestBody ErrorCode = "INVALID_REQUEST_BODY"
	ErrCodeInvalidFileType    ErrorCode = "INVALID_FILE_TYPE"
	ErrCodeFileTooLarge       ErrorCode = "FILE_TOO_LARGE"
	ErrCodeInvalidProjectData ErrorCode = "INVALID_PROJECT_DATA"
	ErrCodeInvalidExportType  ErrorCode = "INVALID_EXPORT_TYPE"

	ErrCodeGeocodingFailed    ErrorCode = "GEOCODING_FAILED"
	ErrCodeMunicipalAPIFailed ErrorCode = "MUNICIPAL_API_FAILED"

	ErrCodeAIAnalysisFailed       ErrorCode = "AI_ANALYSIS_FAILED"
	ErrCodeAIResponseParseFailed  ErrorCode = "AI_RESPONSE_PARSE_FAILED"
	ErrCodeVisualGenerationFailed ErrorCode = "VISUAL_GENERATION_FAILED"

	ErrCodeDocumentExtractionFailed ErrorCode = "DOCUMENT_EXTRACTION_FAILED"
	ErrCodeUnsupportedFileFormat    ErrorCode = "UNSUPPORTED_FILE_FORMAT"
	ErrCodeExportFailed             ErrorCode = "EXPORT_FAILED"
	ErrCodeUploadSaveFailed         ErrorCode = "UPLOAD_SAVE_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInvalidRequestBodyError creates a non-retryable client input error.
func NewInvalidRequestBodyError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequestBody,
		Message:   "Request body failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidFileTypeError creates a non-retryable upload validation error.
func NewInvalidFileTypeError(extension string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidFileType,
		Message:   "Invalid file type or size",
		Details:   fmt.Sprintf("extension: %s", extension),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFileTooLargeError creates a non-retryable upload validation error.
func NewFileTooLargeError(sizeBytes, maxBytes int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeFileTooLarge,
		Message:   "Invalid file type or size",
		Details:   fmt.Sprintf("size: %d bytes, max: %d bytes", sizeBytes, maxBytes),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidProjectDataError creates a non-retryable error for malformed project_data JSON.
func NewInvalidProjectDataError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidProjectData,
		Message:   "Invalid project data format",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidExportTypeError creates a non-retryable error for an unrecognized export type.
func NewInvalidExportTypeError(exportType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidExportType,
		Message:   "Invalid export type",
		Details:   fmt.Sprintf("type: %s", exportType),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewGeocodingFailedError creates a retryable geocoding error.
// The zoning resolver swallows it; the code exists so it can be logged uniformly.
func NewGeocodingFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGeocodingFailed,
		Message:   "Geocoding lookup failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMunicipalAPIFailedError creates a retryable municipal API error.
func NewMunicipalAPIFailedError(city string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMunicipalAPIFailed,
		Message:   "Municipal zoning API lookup failed",
		Details:   fmt.Sprintf("city: %s, error: %s", city, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAIAnalysisFailedError creates a retryable upstream model error.
func NewAIAnalysisFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAIAnalysisFailed,
		Message:   fmt.Sprintf("AI %s call failed", operation),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDocumentExtractionFailedError wraps an extraction failure with context.
func NewDocumentExtractionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDocumentExtractionFailed,
		Message:   "Failed to extract text from document",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnsupportedFileFormatError creates a non-retryable extraction dispatch error.
func NewUnsupportedFileFormatError(extension string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnsupportedFileFormat,
		Message:   "Unsupported file format",
		Details:   fmt.Sprintf("extension: %s", extension),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewExportFailedError creates a non-retryable document export error.
func NewExportFailedError(exportType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExportFailed,
		Message:   "Document export failed",
		Details:   fmt.Sprintf("type: %s, error: %s", exportType, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUploadSaveFailedError creates a retryable temp file error.
func NewUploadSaveFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUploadSaveFailed,
		Message:   "Failed to save uploaded file",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. HTTP Mapping
// ==========================

// httpStatusMapping maps internal error codes to HTTP status codes.
// Anything not listed surfaces as 500.
var httpStatusMapping = map[ErrorCode]int{
	ErrCodeInvalidRequestBody: http.StatusBadRequest,
	ErrCodeInvalidFileType:    http.StatusBadRequest,
	ErrCodeFileTooLarge:       http.StatusBadRequest,
	ErrCodeInvalidProjectData: http.StatusBadRequest,
	ErrCodeInvalidExportType:  http.StatusBadRequest,
}

// HTTPStatus returns the response status for an error. Client input errors map
// to 400; everything else, including unclassified errors, maps to 500.
func HTTPStatus(err error) int {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		if status, ok := httpStatusMapping[stdErr.Code]; ok {
			return status
		}
	}
	return http.StatusInternalServerError
}

// ==========================
// 4. Utility Functions
// ==========================

// IsClientError reports whether the error maps to a 4xx response.
func IsClientError(err error) bool {
	return HTTPStatus(err) == http.StatusBadRequest
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "FILE") || strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "GEOCODING") || strings.Contains(codeStr, "MUNICIPAL"):
		return "ZONING"
	case strings.Contains(codeStr, "AI") || strings.Contains(codeStr, "VISUAL"):
		return "AI"
	case strings.Contains(codeStr, "DOCUMENT") || strings.Contains(codeStr, "EXPORT") || strings.Contains(codeStr, "UPLOAD"):
		return "DOCUMENT"
	default:
		return "OTHER"
	}
}
