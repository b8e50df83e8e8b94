package services

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// TokenConfig carries the process-wide token settings. It is built once
// at startup and passed to NewTokenService; nothing mutates it afterwards.
type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenService issues and validates signed, expiring bearer tokens. A
// token embeds the subject user ID and an absolute expiry, signed HS256
// with the configured secret.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService creates a TokenService from an immutable config.
func NewTokenService(cfg TokenConfig) *TokenService {
	return &TokenService{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}
}

// Issue signs a token for the given user expiring after ttl.
func (s *TokenService) Issue(userID uint, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"exp": time.Now().Add(ttl).Unix(),
		"iat": time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// IssueAccess issues a short-lived access token.
func (s *TokenService) IssueAccess(userID uint) (string, error) {
	return s.Issue(userID, s.accessTTL)
}

// IssueRefresh issues a long-lived refresh token. Refresh tokens are
// validated through the same path as access tokens; the TTL is the only
// difference between the two.
func (s *TokenService) IssueRefresh(userID uint) (string, error) {
	return s.Issue(userID, s.refreshTTL)
}

// Validate verifies signature and expiry and extracts the subject user
// ID. Every failure mode is collapsed into ErrInvalidToken; the cause is
// logged, never surfaced.
func (s *TokenService) Validate(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		log.Printf("Token is missing a subject claim")
		return 0, ErrInvalidToken
	}
	userID, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		log.Printf("Token subject is not a user ID: %v", err)
		return 0, ErrInvalidToken
	}
	return uint(userID), nil
}
