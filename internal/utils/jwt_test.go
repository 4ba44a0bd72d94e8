package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewAccessTokenRoundTrip(t *testing.T) {
	access, err := NewAccessToken("secret", 42, "admin", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if access.Token == "" {
		t.Fatal("empty token")
	}
	if remaining := time.Until(access.Exp); remaining < 14*time.Minute || remaining > 15*time.Minute {
		t.Fatalf("unexpected expiry window: %v", remaining)
	}

	tok, err := jwt.Parse(access.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("parse failed: %v", err)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if claims["sub"].(float64) != 42 {
		t.Fatalf("sub = %v, want 42", claims["sub"])
	}
	if claims["role"] != "admin" {
		t.Fatalf("role = %v, want admin", claims["role"])
	}
}

func TestNewRefreshTokenUnique(t *testing.T) {
	a, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	b, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if a.Raw == b.Raw {
		t.Fatal("two refresh tokens should never collide")
	}
	if len(a.Raw) != 96 {
		t.Fatalf("raw length = %d, want 96", len(a.Raw))
	}
}

func TestHashRefreshRawStable(t *testing.T) {
	h1 := HashRefreshRaw("abc")
	h2 := HashRefreshRaw("abc")
	if h1 != h2 {
		t.Fatal("hash must be deterministic")
	}
	if len(h1) != 64 {
		t.Fatalf("hash length = %d, want 64", len(h1))
	}
	if HashRefreshRaw("abd") == h1 {
		t.Fatal("different inputs should not collide")
	}
}
