package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	// Authentication errors
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeTokenNotValid      = "token_not_valid"

	// Validation errors
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeParseError    = "PARSE_ERROR"
	ErrCodeUnprocessable = "UNPROCESSABLE"

	// Resource errors
	ErrCodeNotFound = "NOT_FOUND"

	// Service errors
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// APIError represents a standardized API error response. Detail is the
// human-readable message clients display.
type APIError struct {
	Code   string      `json:"code"`
	Detail string      `json:"detail"`
	Fields FieldErrors `json:"fields,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Detail
}

// NewAPIError creates a new APIError
func NewAPIError(code, detail string) *APIError {
	return &APIError{
		Code:   code,
		Detail: detail,
	}
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, detail string) {
	if detail == "" {
		detail = "Authentication credentials were not provided."
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeUnauthorized, detail))
}

// TokenNotValid sends a 401 response for a rejected token
func TokenNotValid(c *gin.Context, detail string) {
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeTokenNotValid, detail))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, detail string) {
	if detail == "" {
		detail = "Not found."
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, detail))
}

// ParseError sends a 400 response for a body that could not be decoded
func ParseError(c *gin.Context, detail string) {
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeParseError, detail))
}

// InvalidCredentials sends a 401 response for a failed login
func InvalidCredentials(c *gin.Context, detail string) {
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeInvalidCredentials, detail))
}

// ValidationFailed sends a 400 response listing the errors of each field. The
// field map is also flattened into the top level of the body, so a client can
// read either body.fields.name or body.name.
func ValidationFailed(c *gin.Context, fields FieldErrors) {
	body := gin.H{
		"code":   ErrCodeInvalidInput,
		"detail": "Invalid input.",
		"fields": fields,
	}
	for field, messages := range fields {
		if _, reserved := body[field]; !reserved {
			body[field] = messages
		}
	}
	c.JSON(http.StatusBadRequest, body)
}

// UnprocessableEntity sends a 422 response
func UnprocessableEntity(c *gin.Context, detail string) {
	RespondWithError(c, http.StatusUnprocessableEntity, NewAPIError(ErrCodeUnprocessable, detail))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, detail string) {
	if detail == "" {
		detail = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, detail))
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *gin.Context, detail string) {
	if detail == "" {
		detail = "Service temporarily unavailable"
	}
	RespondWithError(c, http.StatusServiceUnavailable, NewAPIError(ErrCodeServiceUnavailable, detail))
}
