package share

import (
	"strings"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	s := NewSigner("test-secret")

	token, err := s.Token("user-1", "list-42")
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}

	userID, listID, err := s.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if userID != "user-1" {
		t.Errorf("userID = %q, want %q", userID, "user-1")
	}
	if listID != "list-42" {
		t.Errorf("listID = %q, want %q", listID, "list-42")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewSigner("secret-a").Token("user-1", "list-1")
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}

	if _, _, err := NewSigner("secret-b").Verify(token); err == nil {
		t.Error("expected error for token signed with different secret")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	s := NewSigner("test-secret")
	s.ttl = -time.Minute

	token, err := s.Token("user-1", "list-1")
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}

	if _, _, err := s.Verify(token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	s := NewSigner("test-secret")
	if _, _, err := s.Verify("not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestTokenRequiresSecret(t *testing.T) {
	_, err := NewSigner("").Token("u", "l")
	if err == nil {
		t.Fatal("expected error when secret is empty")
	}
	if !strings.Contains(err.Error(), "secret") {
		t.Errorf("error = %q, want mention of secret", err.Error())
	}
}
