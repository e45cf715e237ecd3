package services

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yukikurage/project-tracker-api/internal/auth"
	"github.com/yukikurage/project-tracker-api/internal/constants"
	apperrors "github.com/yukikurage/project-tracker-api/internal/errors"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   auth.TokenManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens auth.TokenManager) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// Signup creates a new user with a bcrypt-hashed password.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)

	fields := apperrors.FieldErrors{}
	if username == "" {
		fields.Add("username", apperrors.MsgBlank)
	} else if utf8.RuneCountInString(username) > constants.MaxUsernameLength {
		fields.Add("username", apperrors.MsgMaxLength(constants.MaxUsernameLength))
	}
	if input.Password == "" {
		fields.Add("password", apperrors.MsgBlank)
	}
	if !fields.Empty() {
		return nil, &ValidationError{Fields: fields}
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, fieldError("username", MsgUsernameTaken)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword(passwordKey(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fieldError("username", MsgUsernameTaken)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and issues an access/refresh token pair.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (auth.TokenPair, error) {
	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return auth.TokenPair{}, ErrInvalidCredentials
		}
		return auth.TokenPair{}, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), passwordKey(input.Password)); err != nil {
		return auth.TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return pair, nil
}

// Refresh exchanges a refresh token for a new access token.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	access, err := s.tokens.Refresh(refreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrTokenInvalid) || errors.Is(err, auth.ErrWrongTokenType) {
			return "", fmt.Errorf("%w: %v", ErrTokenInvalid, err)
		}
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}
	return access, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// bcrypt only reads the first 72 bytes. Longer passwords are reduced to a
// base64 SHA-256 digest first so every byte counts.
const bcryptMaxPasswordBytes = 72

func passwordKey(password string) []byte {
	if len(password) <= bcryptMaxPasswordBytes {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
