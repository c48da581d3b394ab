package middleware

// identity.go holds the context key for the authenticated caller and the
// helpers that read it back. Handlers call CurrentUser; the rate limiter
// uses userKey to build per-user bucket keys.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ecommerce-backend/internal/auth"
)

const identityKey = "identity"

// CurrentUser returns the identity attached by Authenticate, if any.
func CurrentUser(c echo.Context) (*auth.Identity, bool) {
	id, ok := c.Get(identityKey).(*auth.Identity)
	return id, ok && id != nil
}

// SetUser attaches id to the context.  It exists for handler tests that
// bypass the middleware chain.
func SetUser(c echo.Context, id *auth.Identity) { c.Set(identityKey, id) }

// userKey returns the caller's user id as a string, or "anon".
func userKey(c echo.Context) string {
	if id, ok := CurrentUser(c); ok {
		return strconv.FormatUint(id.UserID, 10)
	}
	return "anon"
}
