package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode"

	"pedidos/internal/models"
	"pedidos/internal/repositories"
	"pedidos/pkg/hash"

	"github.com/go-playground/validator/v10"
)

// TokenPair is the result of a successful signin.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AuthService handles signup, signin, token resolution and the
// owner-or-admin authorization rule.
type AuthService struct {
	userRepo repositories.UserRepository
	hasher   *hash.Hasher
	tokens   *TokenService
	validate *validator.Validate
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, hasher *hash.Hasher, tokens *TokenService) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		validate: validator.New(),
	}
}

// Signup registers a regular user. Public signups can never create an
// admin, whatever the request claims.
func (s *AuthService) Signup(name, email, password string, active bool) (*models.User, error) {
	return s.createUser(name, email, password, active, false)
}

// CreateAdmin registers an admin user. Only an existing admin may call it.
func (s *AuthService) CreateAdmin(acting *models.User, name, email, password string, active bool) (*models.User, error) {
	if !acting.Admin {
		return nil, ErrNotPermitted
	}
	return s.createUser(name, email, password, active, true)
}

func (s *AuthService) createUser(name, email, password string, active, admin bool) (*models.User, error) {
	email = strings.TrimSpace(email)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, newValidationError("invalid email format")
	}
	if !isValidPassword(password) {
		return nil, newValidationError("password must be at least 8 characters with a letter and a digit")
	}

	// Lookup before insert; the store's unique index is the backstop.
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, newValidationError("email already registered")
	} else if !errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(name),
		Email:    email,
		Password: hashed,
		Active:   active,
		Admin:    admin,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// Signin authenticates by email and password and issues an access and a
// refresh token. The error never reveals whether the email exists.
func (s *AuthService) Signin(email, password string) (*TokenPair, error) {
	user, err := s.userRepo.GetByEmail(strings.TrimSpace(email))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(password, user.Password)
	if err != nil {
		// A hash that cannot be parsed is corrupt stored data, not a
		// wrong password.
		return nil, fmt.Errorf("stored password hash for user %d is corrupt: %w", user.ID, err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.tokens.IssueAccess(user.ID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
	}, nil
}

// Refresh issues a fresh access token for an already-resolved user.
func (s *AuthService) Refresh(acting *models.User) (string, error) {
	return s.tokens.IssueAccess(acting.ID)
}

// ResolveToken validates a bearer token and loads the user it asserts.
// Any failure, including an unknown subject, surfaces as ErrInvalidToken.
func (s *AuthService) ResolveToken(tokenString string) (*models.User, error) {
	userID, err := s.tokens.Validate(tokenString)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		log.Printf("Token subject %d has no matching user: %v", userID, err)
		return nil, ErrInvalidToken
	}
	return user, nil
}

// Authorize reports whether the acting user may act on a resource owned
// by ownerID: admins always, everyone else only on their own resources.
func (s *AuthService) Authorize(acting *models.User, ownerID uint) bool {
	return acting.Admin || acting.ID == ownerID
}

// isValidPassword enforces the signup policy: at least 8 characters,
// one letter and one digit.
func isValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
