package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"gstbill/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and
// error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_FAILED", err.Error()
	case errors.Is(err, domain.ErrInvoiceFinalized):
		return http.StatusConflict, "INVOICE_FINALIZED", "invoice is finalized and cannot be modified"
	case errors.Is(err, domain.ErrSequenceUnavailable):
		return http.StatusServiceUnavailable, "SEQUENCE_UNAVAILABLE", "invoice number allocation failed; please retry"
	case errors.Is(err, domain.ErrUnsupportedUpload):
		return http.StatusBadRequest, "UNSUPPORTED_UPLOAD", "unsupported upload; a .csv file is required"
	case errors.Is(err, domain.ErrUploadTooLarge):
		return http.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE", "upload exceeds maximum allowed size"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred"
	}
}

// HandleError maps an error and sends the corresponding response,
// logging unexpected errors.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	RespondError(c, status, code, msg)
}
