package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := New("test-secret", time.Hour)

	token, err := svc.IssueToken("member-42")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	playerID, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if playerID != "member-42" {
		t.Errorf("expected member-42, got %s", playerID)
	}
}

func TestExpiredToken(t *testing.T) {
	svc := New("test-secret", -time.Minute)

	token, err := svc.IssueToken("member-42")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	_, err = svc.ValidateToken(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestWrongSecret(t *testing.T) {
	issuer := New("secret-a", time.Hour)
	validator := New("secret-b", time.Hour)

	token, _ := issuer.IssueToken("member-42")

	if _, err := validator.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestGarbageToken(t *testing.T) {
	svc := New("test-secret", time.Hour)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := svc.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("token %q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}
