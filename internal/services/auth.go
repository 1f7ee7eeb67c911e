package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 365 * 24 * time.Hour

// Caller is the authenticated identity attached to a request
type Caller struct {
	UserID        string
	EmailVerified bool
}

// AuthService verifies the bearer tokens issued by the identity provider
type AuthService struct {
	jwtSecret string
}

// NewAuthService creates a new auth service
func NewAuthService(jwtSecret string) *AuthService {
	return &AuthService{jwtSecret: jwtSecret}
}

// IssueToken signs a token for a user. Production tokens come from the identity
// provider; this exists for local development and tests.
func (s *AuthService) IssueToken(userID string, emailVerified bool) (string, error) {
	claims := jwt.MapClaims{
		"user_id":        userID,
		"email_verified": emailVerified,
		"exp":            time.Now().Add(tokenTTL).Unix(),
		"iat":            time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateJWT validates a JWT token and returns the caller it identifies
func (s *AuthService) ValidateJWT(tokenString string) (Caller, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return Caller{}, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return Caller{}, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Caller{}, fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Caller{}, fmt.Errorf("user_id not found in token")
	}

	verified, _ := claims["email_verified"].(bool)

	return Caller{UserID: userID, EmailVerified: verified}, nil
}
