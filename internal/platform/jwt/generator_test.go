package jwtmw

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestNewGenerator は各種設定でGeneratorが正しく生成されることを検証します。
func TestNewGenerator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		secret     string
		expiration time.Duration
	}{
		{"standard config", "my-secret-key", time.Hour},
		{"long expiration", "secret", 24 * time.Hour * 30},
		{"short expiration", "s", time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen := NewGenerator(tt.secret, tt.expiration)

			if gen == nil {
				t.Fatal("expected generator to be non-nil")
			}
			if string(gen.secret) != tt.secret {
				t.Errorf("expected secret %q, got %q", tt.secret, string(gen.secret))
			}
			if gen.expiration != tt.expiration {
				t.Errorf("expected expiration %v, got %v", tt.expiration, gen.expiration)
			}
		})
	}
}

// TestGenerator_GenerateToken は生成されたJWTトークンが有効で正しいクレームを含むことを検証します。
func TestGenerator_GenerateToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		userID     uint
		username   string
		expiration time.Duration
	}{
		{"basic user", 1, "leo", time.Hour},
		{"username with punctuation", 42, "test.author_1", time.Hour},
		{"large user id", 999999, "prolific", 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			const secret = "test-secret"
			gen := NewGenerator(secret, tt.expiration)

			signed, err := gen.GenerateToken(tt.userID, tt.username)
			if err != nil {
				t.Fatalf("GenerateToken returned error: %v", err)
			}
			if signed == "" {
				t.Fatal("expected non-empty token")
			}

			token, err := jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			})
			if err != nil {
				t.Fatalf("failed to parse token: %v", err)
			}
			if !token.Valid {
				t.Fatal("expected token to be valid")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				t.Fatal("expected MapClaims")
			}
			if sub, _ := claims["sub"].(float64); uint(sub) != tt.userID {
				t.Errorf("expected sub %d, got %v", tt.userID, claims["sub"])
			}
			if username, _ := claims["username"].(string); username != tt.username {
				t.Errorf("expected username %q, got %v", tt.username, claims["username"])
			}
		})
	}
}

// TestGenerator_GenerateToken_WrongSecret は異なるシークレットでの検証が失敗することを検証します。
func TestGenerator_GenerateToken_WrongSecret(t *testing.T) {
	t.Parallel()

	gen := NewGenerator("correct-secret", time.Hour)
	signed, err := gen.GenerateToken(1, "leo")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	_, err = jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		return []byte("wrong-secret"), nil
	})
	if err == nil {
		t.Fatal("expected parse with wrong secret to fail")
	}
}
