package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken(testSecret, 42, "u1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if !tok.Exp.IsZero() {
		t.Fatalf("ttl 0 should not set an expiry, got %v", tok.Exp)
	}
	claims, err := ParseAccessToken(testSecret, tok.Token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 || claims.UserName != "u1" {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.ExpiresAt != nil {
		t.Fatal("unexpected exp claim")
	}
}

func TestAccessTokenWithTTL(t *testing.T) {
	tok, err := NewAccessToken(testSecret, 1, "seller", 15)
	if err != nil {
		t.Fatal(err)
	}
	if d := time.Until(tok.Exp); d < 14*time.Minute || d > 16*time.Minute {
		t.Fatalf("unexpected expiry distance %v", d)
	}
	if _, err := ParseAccessToken(testSecret, tok.Token); err != nil {
		t.Fatalf("parse: %v", err)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, _ := NewAccessToken(testSecret, 1, "u1", 0)
	_, err := ParseAccessToken("other-secret", tok.Token)
	if !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		t.Fatalf("expected signature error, got %v", err)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	claims := Claims{
		UserID:   1,
		UserName: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	raw, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if _, err := ParseAccessToken(testSecret, raw); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected expiry error, got %v", err)
	}
}

func TestParseRejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{UserID: 1, UserName: "u1"}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseAccessToken(testSecret, raw); err == nil {
		t.Fatal("HS512 token must be rejected")
	}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseAccessToken(testSecret, unsigned); err == nil {
		t.Fatal("alg=none token must be rejected")
	}
}

func TestParseRejectsMissingIdentity(t *testing.T) {
	raw, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserName: "nobody"}).SignedString([]byte(testSecret))
	if _, err := ParseAccessToken(testSecret, raw); !errors.Is(err, ErrMissingIdentity) {
		t.Fatalf("expected ErrMissingIdentity, got %v", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := ParseAccessToken(testSecret, "invalidtoken"); err == nil {
		t.Fatal("garbage must not parse")
	}
}

func TestHashTokenIsStableHex(t *testing.T) {
	a, b := HashToken("abc"), HashToken("abc")
	if a != b || len(a) != 64 {
		t.Fatalf("hash unstable or wrong length: %q %q", a, b)
	}
	if HashToken("abd") == a {
		t.Fatal("different inputs share a hash")
	}
}
