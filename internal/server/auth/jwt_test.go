package auth

import (
	"testing"
	"time"

	"github.com/jkalnina/docshelf/internal/common"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	ownerID := "owner-123"

	tok, err := GenerateToken(ownerID, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	gotOwnerID, err := GetOwnerIDFromToken(tok, secret)
	if err != nil {
		t.Fatalf("GetOwnerIDFromToken error: %v", err)
	}
	if gotOwnerID != ownerID {
		t.Fatalf("ownerID mismatch: got %q want %q", gotOwnerID, ownerID)
	}
}

func TestGetOwnerIDFromToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := GenerateToken("u1", secret, -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = GetOwnerIDFromToken(tok, secret)
	if err == nil {
		t.Fatalf("expected error for expired token, got nil")
	}
	if err != common.ErrInvalidToken {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestGetOwnerIDFromToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("u2", []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = GetOwnerIDFromToken(tok, []byte("wrong-secret"))
	if err == nil {
		t.Fatalf("expected error for invalid signature, got nil")
	}
}

func TestGetOwnerIDFromToken_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := GetOwnerIDFromToken("not.a.jwt", []byte("k"))
	if err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
}
