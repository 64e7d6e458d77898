package services

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("court-side-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	svc := NewAuthService("scorekeeper", string(hash), "test-secret", testLogger())

	t.Run("valid credentials", func(t *testing.T) {
		token, err := svc.Login(context.Background(), "scorekeeper", "court-side-pass")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if token == "" {
			t.Fatal("expected a signed token")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "scorekeeper", "wrong")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("wrong operator name", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "someone", "court-side-pass")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}
