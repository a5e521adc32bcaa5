package jwt

import (
	"testing"

	"github.com/spf13/viper"
)

func initTestJWT(t *testing.T) {
	t.Helper()
	cfg := viper.New()
	cfg.Set("jwt.access_secret", "test-access-secret")
	cfg.Set("jwt.refresh_secret", "test-refresh-secret")
	cfg.Set("jwt.access_expire_seconds", 60)
	cfg.Set("jwt.refresh_expire_seconds", 3600)
	MustInit(cfg)
}

func TestTokenRoundTrip(t *testing.T) {
	initTestJWT(t)

	token, err := GenAccessToken(42, "ci-bot")
	if err != nil {
		t.Fatalf("GenAccessToken failed: %v", err)
	}
	claims, err := ParseAccessToken(token)
	if err != nil {
		t.Fatalf("ParseAccessToken failed: %v", err)
	}
	if claims.ClientId != 42 || claims.ClientName != "ci-bot" {
		t.Errorf("claims = %d/%s, want 42/ci-bot", claims.ClientId, claims.ClientName)
	}
}

func TestTokenTypeMismatch(t *testing.T) {
	initTestJWT(t)

	// access token 不能当 refresh token 用，两者密钥不同
	token, err := GenAccessToken(1, "client")
	if err != nil {
		t.Fatalf("GenAccessToken failed: %v", err)
	}
	if _, err := ParseRefreshToken(token); err == nil {
		t.Error("ParseRefreshToken should reject access token")
	}
}

func TestParseInvalidToken(t *testing.T) {
	initTestJWT(t)

	if _, err := ParseAccessToken("not-a-token"); err == nil {
		t.Error("ParseAccessToken should reject malformed token")
	}
}
