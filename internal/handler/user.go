package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ecommerce-backend/internal/apperror"
	"github.com/iliyamo/ecommerce-backend/internal/repository"
)

// UserHandler serves profiles and the caller's cart.
type UserHandler struct {
	Users UserStore
	Cart  CartStore
}

func NewUserHandler(u UserStore, cart CartStore) *UserHandler {
	return &UserHandler{Users: u, Cart: cart}
}

type cartItemReq struct {
	ProductID uint64 `json:"product_id" validate:"required,gt=0"`
}

var errUserNotFound = apperror.NotFound("User not found")

// Me returns the caller's profile.
func (h *UserHandler) Me(c echo.Context) error {
	id, err := currentUser(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errUserNotFound
		}
		return apperror.Internal(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

// ByUserName returns a profile by user name.  The route is guarded by
// RequireSelf, so callers only ever read their own.
func (h *UserHandler) ByUserName(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByUserName(ctx, c.Param("user_name"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errUserNotFound
		}
		return apperror.Internal(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

// CartItems lists the caller's cart.
func (h *UserHandler) CartItems(c echo.Context) error {
	id, err := currentUser(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, err := h.Cart.Items(ctx, id.UserID)
	if err != nil {
		return apperror.Internal(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"result": items})
}

// CartAdd puts an active product in the caller's cart.  Adding a product
// that is already in the cart changes nothing.
func (h *UserHandler) CartAdd(c echo.Context) error {
	id, err := currentUser(c)
	if err != nil {
		return err
	}
	var req cartItemReq
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	added, err := h.Cart.Add(ctx, id.UserID, req.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errProductNotFound
		}
		return apperror.Internal(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"added": added})
}

// CartRemove takes a product out of the caller's cart.
func (h *UserHandler) CartRemove(c echo.Context) error {
	id, err := currentUser(c)
	if err != nil {
		return err
	}
	var req cartItemReq
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	removed, err := h.Cart.Remove(ctx, id.UserID, req.ProductID)
	if err != nil {
		return apperror.Internal(err)
	}
	if !removed {
		return apperror.Validation("Failed to remove item from cart. Product might not be in cart.")
	}
	return c.JSON(http.StatusOK, messageResp{Message: "Deleted successfully."})
}
