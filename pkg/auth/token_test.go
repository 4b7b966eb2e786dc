package auth

import (
	"testing"
	"time"

	"github.com/SaraKachchaf/flowermarketneo4j/pkg/config"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/enums"
)

func tokenConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "unit-test-secret",
		Issuer:            "flowermarket",
		ExpirationMinutes: 60,
	}
}

func TestMintAndParseRoundTrip(t *testing.T) {
	t.Parallel()
	cfg := tokenConfig()

	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID:   "user-1",
		Email:    "amal@example.com",
		FullName: "Amal B",
		Role:     enums.RolePrestataire,
	})
	if err != nil {
		t.Fatalf("minting: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != enums.RolePrestataire {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.Email != "amal@example.com" || claims.FullName != "Amal B" {
		t.Fatalf("profile claims lost: %+v", claims)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	t.Parallel()
	cfg := tokenConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: "user-1", Role: enums.RoleClient})
	if err != nil {
		t.Fatalf("minting: %v", err)
	}

	other := cfg
	other.Secret = "different-secret"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected signature mismatch")
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	t.Parallel()
	cfg := tokenConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: "user-1", Role: enums.RoleClient})
	if err != nil {
		t.Fatalf("minting: %v", err)
	}

	other := cfg
	other.Issuer = "someone-else"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected issuer mismatch")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	t.Parallel()
	cfg := tokenConfig()
	issued := time.Now().Add(-2 * time.Hour)
	token, err := MintAccessToken(cfg, issued, AccessTokenPayload{UserID: "user-1", Role: enums.RoleClient})
	if err != nil {
		t.Fatalf("minting: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestMintRejectsUnknownRole(t *testing.T) {
	t.Parallel()
	_, err := MintAccessToken(tokenConfig(), time.Now(), AccessTokenPayload{UserID: "user-1", Role: "Superuser"})
	if err == nil {
		t.Fatal("expected invalid role to be rejected")
	}
}
