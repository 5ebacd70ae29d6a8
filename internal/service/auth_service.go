package service

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"promptscore/internal/config"
	"promptscore/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrAuthDisabled       = errors.New("authentication is not configured")
)

const tokenTTL = 24 * time.Hour

// AuthService issues and validates client tokens for the analyze endpoints
type AuthService struct {
	username  string
	password  string
	jwtSecret []byte
	now       func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(cfg config.AuthConfig) *AuthService {
	return &AuthService{
		username:  cfg.Username,
		password:  cfg.Password,
		jwtSecret: []byte(cfg.JWTSecret),
		now:       time.Now,
	}
}

// Enabled reports whether tokens are required
func (s *AuthService) Enabled() bool {
	return len(s.jwtSecret) > 0
}

// Login validates credentials and returns a signed token
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if !s.Enabled() {
		return nil, ErrAuthDisabled
	}
	if s.username == "" || s.password == "" ||
		subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) != 1 ||
		subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) != 1 {
		return nil, ErrInvalidCredentials
	}

	clientID := "client_" + uuid.New().String()[:8]
	issued := s.now()
	expires := issued.Add(tokenTTL)

	claims := &model.ClientClaims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:     tokenString,
		ClientID:  clientID,
		ExpiresAt: expires.Unix(),
	}, nil
}

// ValidateToken validates a client JWT and returns its claims
func (s *AuthService) ValidateToken(tokenString string) (*model.ClientClaims, error) {
	if !s.Enabled() {
		return nil, ErrAuthDisabled
	}

	token, err := jwt.ParseWithClaims(tokenString, &model.ClientClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.ClientClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
