package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrValidation          = errors.New("validation failed")
	ErrInvoiceFinalized    = errors.New("invoice is finalized and cannot be modified")
	ErrSequenceUnavailable = errors.New("invoice number sequence unavailable")
	ErrDuplicateProfile    = errors.New("business profile already exists for this user")
	ErrUnsupportedUpload   = errors.New("unsupported upload; a .csv file is required")
	ErrUploadTooLarge      = errors.New("upload exceeds maximum allowed size")
)

// Validationf wraps ErrValidation with a formatted reason so callers
// can both match with errors.Is and surface the message.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
