package handlers

import (
	"errors"
	"io"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/yukikurage/project-tracker-api/internal/errors"
	"github.com/yukikurage/project-tracker-api/internal/logger"
	"github.com/yukikurage/project-tracker-api/internal/middleware"
	"github.com/yukikurage/project-tracker-api/internal/services"
	"go.uber.org/zap"
)

// Response details shared with clients
const (
	msgProjectNotFound    = "No Project matches the given query."
	msgTaskNotFound       = "No Task matches the given query."
	msgBadCredentials     = "No active account found with the given credentials"
	msgTokenInvalid       = "Token is invalid or expired"
	msgUserNotFound       = "User not found"
	msgAINotConfigured    = "AI service is not configured. Please set OPENAI_API_KEY environment variable."
	msgInvalidWholeNumber = "A valid integer is required."
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
	}
}

// jsonFieldName reports validation errors under the request's JSON keys.
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// bindJSON decodes and validates the body into req, answering 400 itself on
// failure. An empty body is validated as an empty object.
func bindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(req)
	}
	if err == nil {
		return true
	}

	fields, detail := apierrors.FromBindError(err)
	if fields != nil {
		apierrors.ValidationFailed(c, fields)
	} else {
		apierrors.ParseError(c, detail)
	}
	return false
}

// resourceID returns the id parsed by middleware.RequireResourceID.
func resourceID(c *gin.Context, notFound string) (uint64, bool) {
	id, ok := middleware.GetResourceID(c)
	if !ok {
		apierrors.NotFound(c, notFound)
		return 0, false
	}
	return id, true
}

// respondError maps a service error onto the HTTP response.
func respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		apierrors.ValidationFailed(c, verr.Fields)
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, msgProjectNotFound)
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, msgTaskNotFound)
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, msgBadCredentials)
	case errors.Is(err, services.ErrTokenInvalid):
		apierrors.TokenNotValid(c, msgTokenInvalid)
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.Unauthorized(c, msgUserNotFound)
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, msgAINotConfigured)
	case errors.Is(err, services.ErrAINoValidTasks),
		errors.Is(err, services.ErrAITooManyTasks):
		apierrors.UnprocessableEntity(c, err.Error())
	default:
		logger.L().Error("request failed",
			zap.String("id", middleware.GetRequestID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		_ = c.Error(err)
		apierrors.InternalError(c, "")
	}
}
