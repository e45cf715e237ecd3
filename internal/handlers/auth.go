package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/project-tracker-api/internal/errors"
	"github.com/yukikurage/project-tracker-api/internal/middleware"
	"github.com/yukikurage/project-tracker-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Signup registers a new user.
func (h *AuthHandler) Signup(c *gin.Context) {
	type SignupRequest struct {
		Username *string `json:"username" binding:"required,max=150,username"`
		Email    string  `json:"email" binding:"omitempty,email,max=254"`
		Password *string `json:"password" binding:"required"`
	}

	var req SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), services.SignupInput{
		Username: *req.Username,
		Email:    req.Email,
		Password: *req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSignupResponse(*user))
}

// Login checks the credentials and returns a refresh/access token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username *string `json:"username" binding:"required"`
		Password *string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Username: *req.Username,
		Password: *req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenPairResponse{Refresh: pair.Refresh, Access: pair.Access})
}

// Refresh exchanges a refresh token for a new access token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	type RefreshRequest struct {
		Refresh *string `json:"refresh" binding:"required"`
	}

	var req RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	access, err := h.authService.Refresh(*req.Refresh)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AccessTokenResponse{Access: access})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
