package services

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 12 * time.Hour

// AuthService authenticates the scoring operator and issues the bearer
// token the mutating endpoints require.
type AuthService interface {
	Login(ctx context.Context, name, password string) (string, error)
}

type authService struct {
	operatorName string
	passwordHash string
	jwtSecret    string
	logger       *slog.Logger
}

func NewAuthService(operatorName, passwordHash, jwtSecret string, logger *slog.Logger) AuthService {
	return &authService{
		operatorName: operatorName,
		passwordHash: passwordHash,
		jwtSecret:    jwtSecret,
		logger:       logger,
	}
}

func (s *authService) Login(_ context.Context, name, password string) (string, error) {
	nameMatches := subtle.ConstantTimeCompare([]byte(name), []byte(s.operatorName)) == 1
	passwordErr := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password))
	if !nameMatches || passwordErr != nil {
		s.logger.Warn("failed login attempt", slog.String("name", name))
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   s.operatorName,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}
	return signed, nil
}
