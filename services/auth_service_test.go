package services

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v4"
)

const testJWTSecret = "test-secret"

func TestRegisterAndLogin(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), testJWTSecret)

	user, token, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Organizer",
		Email:    "org@example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatal(err)
	}
	if user.ID == 0 || token == "" {
		t.Fatalf("registration should return a stored user and a token: %+v %q", user, token)
	}
	if user.PasswordHash != "" {
		t.Error("password hash must not leak out of the service")
	}

	loggedIn, token, err := svc.Login(context.Background(), LoginInput{
		Email:    "org@example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatal(err)
	}
	if loggedIn.ID != user.ID || token == "" {
		t.Fatalf("login should return the same user and a token")
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token should verify against the configured secret: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if int(claims["user_id"].(float64)) != user.ID {
		t.Errorf("token should carry the user ID, got %v", claims["user_id"])
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), testJWTSecret)
	_, _, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Organizer",
		Email:    "org@example.com",
		Password: "short",
	})
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), testJWTSecret)
	input := RegisterInput{Name: "Organizer", Email: "org@example.com", Password: "correct horse"}
	if _, _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.Register(context.Background(), input); !errors.Is(err, ErrAuthEmailTaken) {
		t.Fatalf("expected ErrAuthEmailTaken, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), testJWTSecret)
	if _, _, err := svc.Register(context.Background(), RegisterInput{
		Name: "Organizer", Email: "org@example.com", Password: "correct horse",
	}); err != nil {
		t.Fatal(err)
	}

	if _, _, err := svc.Login(context.Background(), LoginInput{
		Email: "org@example.com", Password: "wrong",
	}); !errors.Is(err, ErrAuthInvalidCredentials) {
		t.Fatalf("expected ErrAuthInvalidCredentials for bad password, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), LoginInput{
		Email: "unknown@example.com", Password: "correct horse",
	}); !errors.Is(err, ErrAuthInvalidCredentials) {
		t.Fatalf("expected ErrAuthInvalidCredentials for unknown email, got %v", err)
	}
}
