package middleware // middleware provides shared request processing for handlers

import (
	"github.com/labstack/echo/v4" // echo provides middleware chaining and context

	"github.com/iliyamo/ecommerce-backend/internal/apperror"
	"github.com/iliyamo/ecommerce-backend/internal/auth"
)

// Authenticate returns an Echo middleware that resolves the Authorization
// header to an identity and stores it in the context under identityKey.
// Requests without a bearer token proceed anonymously; a token that fails
// verification or belongs to a user without an active session aborts the
// request with the authenticator's error, which the central error handler
// turns into a 401.
func Authenticate(a *auth.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := a.Authenticate(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}
			if id != nil {
				c.Set(identityKey, id)
			}
			return next(c)
		}
	}
}

// RequireUser rejects anonymous requests.  It must be registered after
// Authenticate.
func RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := CurrentUser(c); !ok {
			return apperror.Authentication("Unauthorized", nil)
		}
		return next(c)
	}
}

// RequireSelf returns a middleware that only lets a request through when the
// caller's user name equals the route parameter named param.
func RequireSelf(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := CurrentUser(c)
			if !ok {
				return apperror.Authentication("Unauthorized", nil)
			}
			if id.UserName != c.Param(param) {
				return apperror.Authorization("Unauthorized")
			}
			return next(c)
		}
	}
}
