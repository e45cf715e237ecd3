package services

import (
	"errors"
	"sort"
	"strings"

	apperrors "github.com/yukikurage/project-tracker-api/internal/errors"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTokenInvalid       = errors.New("token is invalid or expired")
	ErrProjectNotFound    = errors.New("project not found")
	ErrTaskNotFound       = errors.New("task not found")

	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoValidTasks         = errors.New("no valid tasks could be drafted from the text")
	ErrAITooManyTasks         = errors.New("AI drafted too many tasks")
)

// Field messages produced by the services
const (
	MsgProjectNameTaken = "project with this name already exists."
	MsgUsernameTaken    = "A user with that username already exists."
)

// ValidationError reports input rejected for per-field reasons, such as a
// duplicate name or a reference to a row that does not exist.
type ValidationError struct {
	Fields apperrors.FieldErrors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

func fieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: apperrors.FieldErrors{field: {message}}}
}
