package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-tracker-api/internal/auth"
	"github.com/yukikurage/project-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/project-tracker-api/internal/errors"
	"github.com/yukikurage/project-tracker-api/internal/logger"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TokenVerifier validates access tokens.
type TokenVerifier interface {
	VerifyAccess(accessToken string) (*auth.Claims, error)
}

// UserFinder loads the user a token was issued to.
type UserFinder interface {
	FindByID(ctx context.Context, id uint64) (*models.User, error)
}

const bearerPrefix = "Bearer"

// RequireAuth checks the bearer access token and that its user still exists
func RequireAuth(tokens TokenVerifier, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		scheme, token, _ := strings.Cut(header, " ")
		if header == "" || scheme != bearerPrefix {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		token = strings.TrimSpace(token)
		if token == "" {
			apierrors.Unauthorized(c, "Invalid Authorization header. No credentials provided.")
			c.Abort()
			return
		}

		claims, err := tokens.VerifyAccess(token)
		if err != nil {
			apierrors.TokenNotValid(c, "Given token not valid for any token type")
			c.Abort()
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierrors.Unauthorized(c, "User not found")
			} else {
				logger.L().Error("failed to load token user", zap.Uint64("user_id", claims.UserID), zap.Error(err))
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	id, ok := userID.(uint64)
	return id, ok
}
