// Package errors provides categorized errors with HTTP status mapping for the
// FlipperZap service.
package errors

import (
	"fmt"
	"net/http"

	"github.com/flipperzap/internal/types"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	// CategoryUserInput represents user input errors (4xx)
	CategoryUserInput ErrorCategory = "user_input"
	// CategoryNotFound represents not found errors
	CategoryNotFound ErrorCategory = "not_found"
	// CategoryProvider represents AI/marketplace provider errors
	CategoryProvider ErrorCategory = "provider"
	// CategorySystem represents internal system errors (5xx)
	CategorySystem ErrorCategory = "system"
	// CategoryOverload represents queue/backpressure errors
	CategoryOverload ErrorCategory = "overload"
)

// CategorizedError represents an error with category and HTTP status code
type CategorizedError struct {
	Category   ErrorCategory
	StatusCode int
	Code       string
	Message    string
	Details    map[string]interface{}
	Cause      error
}

// Error implements the error interface
func (e *CategorizedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *CategorizedError) Unwrap() error {
	return e.Cause
}

// ToServiceError converts to a ServiceError
func (e *CategorizedError) ToServiceError() *types.ServiceError {
	return &types.ServiceError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}
}

// NewMissingImageError signals an analyze request without an image part
func NewMissingImageError() *CategorizedError {
	return &CategorizedError{
		Category:   CategoryUserInput,
		StatusCode: http.StatusBadRequest,
		Code:       "MISSING_IMAGE",
		Message:    "No image file provided",
	}
}

// NewInvalidUploadError signals an upload that violates size or type limits
func NewInvalidUploadError(reason string) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryUserInput,
		StatusCode: http.StatusBadRequest,
		Code:       "INVALID_UPLOAD",
		Message:    reason,
	}
}

// NewInvalidInputError signals a malformed or invalid request body
func NewInvalidInputError(reason string) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryUserInput,
		StatusCode: http.StatusBadRequest,
		Code:       "INVALID_INPUT",
		Message:    reason,
	}
}

// NewScanNotFoundError signals a lookup for an unknown scan id
func NewScanNotFoundError(scanID string) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryNotFound,
		StatusCode: http.StatusNotFound,
		Code:       "SCAN_NOT_FOUND",
		Message:    "Scan not found",
		Details:    map[string]interface{}{"scanId": scanID},
	}
}

// NewListingNotFoundError signals a lookup for an unknown listing id
func NewListingNotFoundError(listingID string) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryNotFound,
		StatusCode: http.StatusNotFound,
		Code:       "LISTING_NOT_FOUND",
		Message:    "Listing not found",
		Details:    map[string]interface{}{"listingId": listingID},
	}
}

// NewUnsupportedMarketplaceError signals an unknown marketplace identifier
func NewUnsupportedMarketplaceError(marketplace string) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryUserInput,
		StatusCode: http.StatusBadRequest,
		Code:       "UNSUPPORTED_MARKETPLACE",
		Message:    fmt.Sprintf("unsupported marketplace: %s", marketplace),
		Details:    map[string]interface{}{"marketplace": marketplace},
	}
}

// NewProviderError wraps a failure from an external AI or marketplace provider
func NewProviderError(provider string, cause error) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryProvider,
		StatusCode: http.StatusInternalServerError,
		Code:       "PROVIDER_ERROR",
		Message:    fmt.Sprintf("%s provider request failed", provider),
		Cause:      cause,
	}
}

// NewQueueFullError signals that the analysis queue rejected a job
func NewQueueFullError() *CategorizedError {
	return &CategorizedError{
		Category:   CategoryOverload,
		StatusCode: http.StatusServiceUnavailable,
		Code:       "QUEUE_FULL",
		Message:    "Analysis queue is full, try again later",
	}
}

// NewInternalError wraps an unexpected internal failure
func NewInternalError(cause error) *CategorizedError {
	return &CategorizedError{
		Category:   CategorySystem,
		StatusCode: http.StatusInternalServerError,
		Code:       "INTERNAL_ERROR",
		Message:    "An internal error occurred",
		Cause:      cause,
	}
}
