package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ecommerce-backend/internal/apperror"
	"github.com/iliyamo/ecommerce-backend/internal/repository"
)

// TagHandler manages the tag catalog products refer to.
type TagHandler struct {
	Tags TagStore
}

func NewTagHandler(t TagStore) *TagHandler { return &TagHandler{Tags: t} }

type createTagReq struct {
	Name string `json:"tag_name" validate:"required,max=30"`
}

// List returns every active tag.
func (h *TagHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	tags, err := h.Tags.All(ctx)
	if err != nil {
		return apperror.Internal(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tags": tags})
}

// Create adds a tag.  Tag names are unique.
func (h *TagHandler) Create(c echo.Context) error {
	var req createTagReq
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	tag, err := h.Tags.Create(ctx, req.Name)
	if err != nil {
		if errors.Is(err, repository.ErrTagExists) {
			return apperror.Conflict("Tag already exists")
		}
		return apperror.Internal(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tag": tag})
}
