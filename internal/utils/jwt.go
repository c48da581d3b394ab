package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/sha256" // SHA‑256 digest of issued tokens for the session table
	"encoding/hex"  // hex encoding of the digest
	"errors"        // sentinel for missing identity claims
	"time"          // time utilities for issued-at and expiry

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens
)

// ErrMissingIdentity is returned by ParseAccessToken when a correctly signed
// token carries no user_id or user_name.
var ErrMissingIdentity = errors.New("token carries no user identity")

// Claims is the payload of an access token.  user_id and user_name are the
// identity the API attaches to a request; the registered claims carry iat
// and, when a TTL is configured, exp.
type Claims struct {
	UserID   uint64 `json:"user_id"`
	UserName string `json:"user_name"`
	jwt.RegisteredClaims
}

// AccessToken represents a signed JWT along with its expiry.  Exp is the
// zero time when the token was issued without an exp claim.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time, zero when unbounded
}

// NewAccessToken builds and signs an HS256 JWT for a user.  A ttlMin of
// zero or less issues a token without an exp claim; revocation then relies
// entirely on the session table.
func NewAccessToken(secret string, userID uint64, userName string, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID:   userID,
		UserName: userName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	var exp time.Time
	if ttlMin > 0 {
		exp = now.Add(time.Duration(ttlMin) * time.Minute)
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	// Create a new token object specifying the signing method (HS256) and
	// include the claims.
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies the signature of raw with secret and returns its
// claims.  Only HMAC-SHA256 is accepted; any other algorithm, a malformed
// token, a bad signature or an elapsed exp claim yields an error.
func ParseAccessToken(secret, raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuedAt())
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	if claims.UserID == 0 || claims.UserName == "" {
		return nil, ErrMissingIdentity
	}
	return claims, nil
}

// HashToken returns the SHA‑256 hash of a raw token as a hex string.  The
// session table stores only this digest so a leaked table row cannot be
// replayed as a bearer token.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
