package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService guards the API for a single-operator deployment: one
// configured bcrypt hash, no user accounts.
type AuthService struct {
	passwordHash []byte
	tokens       *TokenService
}

func NewAuthService(passwordHash string, tokens *TokenService) *AuthService {
	return &AuthService{
		passwordHash: []byte(passwordHash),
		tokens:       tokens,
	}
}

func (s *AuthService) Login(password string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.tokens.GenerateToken()
}
