package utils

import (
	"testing"
	"time"
)

func TestManagerJWTRoundTrip(t *testing.T) {
	m, err := NewManager("test-key")
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	token, err := m.NewJWT(7, "user", time.Hour)
	if err != nil {
		t.Fatalf("new jwt: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("user id: got %d, want 7", claims.UserID)
	}
	if claims.Role != "user" {
		t.Errorf("role: got %q, want %q", claims.Role, "user")
	}

	// срок жизни берётся из аргумента
	exp := time.Unix(claims.ExpiresAt, 0)
	want := time.Now().Add(time.Hour)
	if diff := exp.Sub(want); diff < -5*time.Second || diff > 5*time.Second {
		t.Errorf("expiry off by %v", diff)
	}
}

func TestManagerParse_WrongKey(t *testing.T) {
	m, err := NewManager("test-key")
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	token, err := m.NewJWT(7, "user", time.Hour)
	if err != nil {
		t.Fatalf("new jwt: %v", err)
	}

	other, err := NewManager("other-key")
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if _, err := other.Parse(token); err == nil {
		t.Fatalf("expected error for token signed with a different key")
	}
}

func TestManagerParse_Expired(t *testing.T) {
	m, err := NewManager("test-key")
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	token, err := m.NewJWT(7, "user", -time.Minute)
	if err != nil {
		t.Fatalf("new jwt: %v", err)
	}
	if _, err := m.Parse(token); err == nil {
		t.Fatalf("expected error for expired token")
	}
}

func TestNewManager_EmptyKey(t *testing.T) {
	if _, err := NewManager(""); err == nil {
		t.Fatalf("expected error for empty signing key")
	}
}

func TestNewRefreshToken(t *testing.T) {
	m, err := NewManager("test-key")
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	a, err := m.NewRefreshToken()
	if err != nil {
		t.Fatalf("refresh token: %v", err)
	}
	b, err := m.NewRefreshToken()
	if err != nil {
		t.Fatalf("refresh token: %v", err)
	}
	if len(a) != 64 {
		t.Errorf("token length: got %d, want 64", len(a))
	}
	if a == b {
		t.Errorf("refresh tokens must not repeat")
	}
}
