package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token types carried in the token_type claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrTokenInvalid   = errors.New("token is invalid or expired")
	ErrWrongTokenType = errors.New("token has wrong type")
)

type Claims struct {
	UserID    uint64 `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair is returned on login.
type TokenPair struct {
	Access  string
	Refresh string
}

// TokenManager issues and verifies the access/refresh tokens.
type TokenManager interface {
	IssuePair(userID uint64) (TokenPair, error)
	Refresh(refreshToken string) (string, error)
	VerifyAccess(accessToken string) (*Claims, error)
}

// JWTManager is an HS256 TokenManager.
type JWTManager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewJWTManager creates a new JWTManager.
func NewJWTManager(secret, issuer string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// IssuePair signs a fresh access and refresh token for userID.
func (m *JWTManager) IssuePair(userID uint64) (TokenPair, error) {
	access, err := m.sign(userID, TokenTypeAccess, m.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := m.sign(userID, TokenTypeRefresh, m.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (m *JWTManager) Refresh(refreshToken string) (string, error) {
	claims, err := m.parse(refreshToken, TokenTypeRefresh)
	if err != nil {
		return "", err
	}
	return m.sign(claims.UserID, TokenTypeAccess, m.accessTTL)
}

// VerifyAccess validates an access token and returns its claims.
func (m *JWTManager) VerifyAccess(accessToken string) (*Claims, error) {
	return m.parse(accessToken, TokenTypeAccess)
}

func (m *JWTManager) sign(userID uint64, tokenType string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := &Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenStr, nil
}

func (m *JWTManager) parse(tokenStr, wantType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.TokenType != wantType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
