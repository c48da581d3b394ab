// Package auth turns the Authorization header of a request into an
// identity. A token is only honoured while its user still holds an active
// session, so logout revokes tokens that are otherwise still valid.
package auth

import (
	"context"
	"strings"

	"github.com/iliyamo/ecommerce-backend/internal/apperror"
	"github.com/iliyamo/ecommerce-backend/internal/utils"
)

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID   uint64 `json:"user_id"`
	UserName string `json:"user_name"`
}

// SessionChecker is the slice of the session registry the authenticator
// needs. *repository.SessionRepo satisfies it.
type SessionChecker interface {
	HasActive(ctx context.Context, userID uint64) (bool, error)
}

// Authenticator verifies bearer tokens against the signing secret and the
// session registry.
type Authenticator struct {
	secret   string
	sessions SessionChecker
}

func NewAuthenticator(secret string, sessions SessionChecker) *Authenticator {
	return &Authenticator{secret: secret, sessions: sessions}
}

// BearerToken extracts the token from an Authorization header value. It
// returns "" when the header is empty, has no "Bearer " segment or carries
// an empty token.
func BearerToken(header string) string {
	const prefix = "Bearer "
	i := strings.Index(header, prefix)
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(header[i+len(prefix):])
}

// Authenticate resolves header to an identity. A nil identity with a nil
// error means the request is anonymous. A token that is present but fails
// verification, or whose user has no active session, yields an
// AuthenticationError; such requests are never downgraded to anonymous.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (*Identity, error) {
	raw := BearerToken(header)
	if raw == "" {
		return nil, nil
	}
	claims, err := utils.ParseAccessToken(a.secret, raw)
	if err != nil {
		return nil, apperror.Authentication("Unauthorized", err)
	}
	ok, err := a.sessions.HasActive(ctx, claims.UserID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !ok {
		return nil, apperror.Authentication("Unauthorized", nil)
	}
	return &Identity{UserID: claims.UserID, UserName: claims.UserName}, nil
}
