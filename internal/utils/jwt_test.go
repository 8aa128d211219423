package utils_test

import (
	"testing"
	"time"

	"debate_arena/internal/utils"
)

func TestGenerateAndParseToken(t *testing.T) {
	secret := []byte("test-secret")

	token, err := utils.GenerateToken(42, "Alice", secret, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := utils.ParseToken(token, secret)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != 42 || claims.DisplayName != "Alice" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := utils.GenerateToken(42, "Alice", []byte("right"), time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := utils.ParseToken(token, []byte("wrong")); err == nil {
		t.Fatal("token signed with another secret should not parse")
	}
}

func TestParseExpiredToken(t *testing.T) {
	secret := []byte("test-secret")
	token, err := utils.GenerateToken(42, "Alice", secret, -time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := utils.ParseToken(token, secret); err == nil {
		t.Fatal("expired token should not parse")
	}
}
