package handler

import (
	"context"  // provides context with cancellation for DB calls
	"errors"   // sentinel matching on repository errors
	"net/http" // HTTP status codes and primitives

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/ecommerce-backend/internal/apperror"   // client-facing error kinds
	"github.com/iliyamo/ecommerce-backend/internal/config"     // app configuration
	"github.com/iliyamo/ecommerce-backend/internal/metrics"    // auth event counters
	"github.com/iliyamo/ecommerce-backend/internal/model"      // user input types
	"github.com/iliyamo/ecommerce-backend/internal/repository" // repository sentinels
	"github.com/iliyamo/ecommerce-backend/internal/utils"      // token issuing
	"github.com/iliyamo/ecommerce-backend/internal/validation" // validation error messages
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    UserStore
	Sessions SessionStore
	Metrics  *metrics.Metrics
}

func NewAuthHandler(cfg config.Config, u UserStore, s SessionStore, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Sessions: s, Metrics: m}
}

// ----- DTOs -----

type registerReq struct {
	UserName  string `json:"user_name" validate:"required,max=30,nowhitespace"`
	Password  string `json:"password" validate:"required,min=8,maxbytes=72"`
	FirstName string `json:"first_name" validate:"required,max=30"`
	LastName  string `json:"last_name" validate:"required,max=30"`
	Email     string `json:"email" validate:"required,email,max=60"`
}

type loginReq struct {
	UserName string `json:"user_name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type messageResp struct {
	Message string `json:"message"`
}

type tokenResp struct {
	Token string `json:"token"`
}

// Register creates a user.  It does not log the user in.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.Create(ctx, model.NewUser{
		UserName:  req.UserName,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameTaken):
			return apperror.Conflict("Username already taken")
		case errors.Is(err, repository.ErrPasswordTooLong):
			return validation.Failed("password must be at most 72 bytes")
		}
		return apperror.Internal(err)
	}
	h.Metrics.AuthEvent("register")
	return c.JSON(http.StatusOK, messageResp{Message: u.UserName + " has registered; you can now login."})
}

// Login verifies the credentials, issues a token and records a session for
// it.  Every login adds a session; earlier ones stay active until logout.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.Authenticate(ctx, req.UserName, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidCredentials) {
			h.Metrics.AuthEvent("login_failure")
			return apperror.Authentication("Invalid username/password", nil)
		}
		return apperror.Internal(err)
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.UserName, h.Cfg.TokenTTLMin)
	if err != nil {
		return apperror.Internal(err)
	}
	if err := h.Sessions.Create(ctx, u.ID, access.Token); err != nil {
		return apperror.Internal(err)
	}
	h.Metrics.AuthEvent("login_success")
	return c.JSON(http.StatusOK, tokenResp{Token: access.Token})
}

// Logout deactivates every active session of the caller, so all tokens the
// user holds stop working, not only the one presented.
func (h *AuthHandler) Logout(c echo.Context) error {
	id, err := currentUser(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Sessions.DeactivateAll(ctx, id.UserID); err != nil {
		return apperror.Internal(err)
	}
	h.Metrics.AuthEvent("logout")
	return c.JSON(http.StatusOK, messageResp{Message: "Logged out successfully."})
}
