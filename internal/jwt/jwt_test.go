package jwt

import (
	"testing"
	"time"

	"github.com/Adelodunpeter25/url-shortener/config"
)

func testConfig() *config.JWTConfig {
	return &config.JWTConfig{
		Access:     "access-secret",
		AccessExp:  time.Minute,
		Refresh:    "refresh-secret",
		RefreshExp: time.Hour,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := testConfig()
	signed, _, err := GenerateAccessToken("user-1", cfg)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := ParseAccessToken(signed, cfg.Access)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q", claims.UserID)
	}
}

func TestRefreshTokenNotValidAsAccess(t *testing.T) {
	cfg := testConfig()
	refresh, _, err := GenerateRefreshToken("user-1", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseAccessToken(refresh, cfg.Refresh); err == nil {
		t.Fatal("refresh token accepted as access token")
	}
}

func TestWrongSecretRejected(t *testing.T) {
	cfg := testConfig()
	signed, _, err := GenerateAccessToken("user-1", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseAccessToken(signed, "other-secret"); err == nil {
		t.Fatal("token with wrong secret accepted")
	}
}
