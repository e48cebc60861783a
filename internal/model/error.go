package model

import "errors"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Standard error codes for API responses
const (
	ErrCodeImageRequired        = "IMAGE_REQUIRED"
	ErrCodeImageTooLarge        = "IMAGE_TOO_LARGE"
	ErrCodeUnsupportedImage     = "UNSUPPORTED_IMAGE"
	ErrCodeItemNameRequired     = "ITEM_NAME_REQUIRED"
	ErrCodeInvalidStep          = "INVALID_STEP"
	ErrCodeInvalidIndex         = "INVALID_INDEX"
	ErrCodeInvalidField         = "INVALID_FIELD"
	ErrCodeInvalidDragID        = "INVALID_DRAG_ID"
	ErrCodeNoMenuData           = "NO_MENU_DATA"
	ErrCodeSessionNotFound      = "SESSION_NOT_FOUND"
	ErrCodeStaleDrag            = "STALE_DRAG"
	ErrCodeExtractionInProgress = "EXTRACTION_IN_PROGRESS"
	ErrCodeModelUnavailable     = "MODEL_UNAVAILABLE"
	ErrCodeNoImageData          = "NO_IMAGE_DATA"
	ErrCodeImageGeneration      = "IMAGE_GENERATION_FAILED"
	ErrCodeExportFailed         = "EXPORT_FAILED"
)

// DomainError is a business-level error with a stable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrImageRequired        = NewDomainError(ErrCodeImageRequired, "Image file is required")
	ErrImageTooLarge        = NewDomainError(ErrCodeImageTooLarge, "Image file is too large")
	ErrUnsupportedImage     = NewDomainError(ErrCodeUnsupportedImage, "File must be an image")
	ErrItemNameRequired     = NewDomainError(ErrCodeItemNameRequired, "Item name is required")
	ErrInvalidStep          = NewDomainError(ErrCodeInvalidStep, "Step must be upload, process or refine")
	ErrInvalidIndex         = NewDomainError(ErrCodeInvalidIndex, "Category or item index out of range")
	ErrInvalidField         = NewDomainError(ErrCodeInvalidField, "Unsupported item field or value")
	ErrInvalidDragID        = NewDomainError(ErrCodeInvalidDragID, "Malformed drag identifier")
	ErrNoMenuData           = NewDomainError(ErrCodeNoMenuData, "No menu data to refine")
	ErrSessionNotFound      = NewDomainError(ErrCodeSessionNotFound, "Session not found")
	ErrStaleDrag            = NewDomainError(ErrCodeStaleDrag, "Menu changed while the item was being dragged")
	ErrExtractionInProgress = NewDomainError(ErrCodeExtractionInProgress, "An extraction is already running for this session")
	ErrModelUnavailable     = NewDomainError(ErrCodeModelUnavailable, "Failed to process menu image")
	ErrNoImageData          = NewDomainError(ErrCodeNoImageData, "No image data returned from model")
	ErrImageGeneration      = NewDomainError(ErrCodeImageGeneration, "Failed to generate image")
	ErrExportFailed         = NewDomainError(ErrCodeExportFailed, "Failed to export menu")
)

// CodeOf returns the domain code carried by err, or an empty string.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
