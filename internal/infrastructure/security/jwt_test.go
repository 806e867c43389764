package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func mintToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestValidateJWTRoundTrip(t *testing.T) {
	secret := "unit-test-secret"
	signed := mintToken(t, secret, jwt.MapClaims{
		"sub": "subject-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	claims, err := ValidateJWT(signed, secret)
	if err != nil {
		t.Fatalf("expected valid token, got error: %v", err)
	}
	if claims["sub"] != "subject-1" {
		t.Errorf("expected sub claim subject-1, got %v", claims["sub"])
	}
}

func TestValidateJWTWrongSecret(t *testing.T) {
	signed := mintToken(t, "right-secret", jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if _, err := ValidateJWT(signed, "wrong-secret"); err == nil {
		t.Error("expected validation to fail with the wrong secret")
	}
}

func TestValidateJWTExpired(t *testing.T) {
	secret := "unit-test-secret"
	signed := mintToken(t, secret, jwt.MapClaims{
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	if _, err := ValidateJWT(signed, secret); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestIdentityClaimsFromToken(t *testing.T) {
	secret := "idp-secret"
	signed := mintToken(t, secret, jwt.MapClaims{
		"sub":                "sub-22",
		"preferred_username": "imogen",
		"custom:account_ids": `["acct-1","acct-2"]`,
		"exp":                time.Now().Add(time.Hour).Unix(),
	})

	claims, err := IdentityClaimsFromToken(signed, secret,
		"custom:account_ids", "custom:account_id", "preferred_username")
	if err != nil {
		t.Fatalf("expected identity token to decode, got %v", err)
	}
	if claims.Subject != "sub-22" {
		t.Errorf("expected subject sub-22, got %q", claims.Subject)
	}
	if claims.Username != "imogen" {
		t.Errorf("expected username imogen, got %q", claims.Username)
	}
	if claims.AccountList != `["acct-1","acct-2"]` {
		t.Errorf("expected raw account list preserved, got %q", claims.AccountList)
	}
}

func TestGenerateULIDUnique(t *testing.T) {
	a := GenerateULID()
	b := GenerateULID()
	if len(a) != 26 || len(b) != 26 {
		t.Errorf("expected 26-character ulids, got %q and %q", a, b)
	}
	if a == b {
		t.Error("expected distinct ulids")
	}
}

func TestGenerateSecureKeyLength(t *testing.T) {
	key, err := GenerateSecureKey(64)
	if err != nil {
		t.Fatalf("expected key generation to succeed: %v", err)
	}
	if len(key) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(key))
	}
}
