package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ecommerce-backend/internal/apperror"
	"github.com/iliyamo/ecommerce-backend/internal/metrics"
	"github.com/iliyamo/ecommerce-backend/internal/model"
	"github.com/iliyamo/ecommerce-backend/internal/queue"
	"github.com/iliyamo/ecommerce-backend/internal/repository"
	"github.com/iliyamo/ecommerce-backend/internal/validation"
)

// ProductHandler serves the product aggregate and its reviews.
type ProductHandler struct {
	Products ProductStore
	Reviews  ReviewStore
	hooks    catalogHooks
}

func NewProductHandler(p ProductStore, r ReviewStore, cache CachePurger, events EventPublisher, m *metrics.Metrics) *ProductHandler {
	if p == nil || r == nil {
		panic("nil store passed to NewProductHandler")
	}
	return &ProductHandler{Products: p, Reviews: r, hooks: catalogHooks{cache: cache, events: events, metrics: m}}
}

type createProductReq struct {
	Name        string           `json:"product_name" validate:"required,max=100"`
	Description string           `json:"product_description" validate:"max=2000"`
	Price       *float64         `json:"price" validate:"required,gte=0"`
	Tags        []model.TagRef   `json:"tags" validate:"omitempty,dive"`
	Images      []model.ImageRef `json:"images" validate:"omitempty,dive"`
}

// updateProductReq is a partial update: absent fields keep their value.
// "tags": [] clears the tag set, an absent "tags" leaves it alone.
type updateProductReq struct {
	Name        *string         `json:"product_name" validate:"omitnil,min=1,max=100"`
	Description *string         `json:"product_description" validate:"omitnil,max=2000"`
	Price       *float64        `json:"price" validate:"omitnil,gte=0"`
	Tags        *[]model.TagRef `json:"tags" validate:"omitnil,dive"`
}

type rateReq struct {
	Rating     int     `json:"rating" validate:"required,gte=1,lte=5"`
	ReviewText *string `json:"review_text" validate:"omitnil,max=2000"`
}

var (
	errProductNotFound = apperror.NotFound("Product not found")
	errNotOwner        = apperror.Authorization("Unauthorized.")
	errUnknownTag      = validation.Failed("tags must reference existing tags")
	errSecondReview    = apperror.Conflict("ONE review per person")
)

// Create inserts a product owned by the caller.
func (h *ProductHandler) Create(c echo.Context) error {
	id, err := currentUser(c)
	if err != nil {
		return err
	}
	var req createProductReq
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	created, err := h.Products.Create(ctx, model.NewProduct{
		SellerID:    id.UserID,
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Tags:        req.Tags,
		Images:      req.Images,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUnknownReference) {
			return errUnknownTag
		}
		return apperror.Internal(err)
	}

	ev := queue.NewCatalogEvent(queue.ProductCreated, created.ID, id.UserID)
	ev.ProductName = created.Name
	h.hooks.written(c, ev)
	return c.JSON(http.StatusOK, echo.Map{"created": created})
}

// List returns every active product.
func (h *ProductHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	results, err := h.Products.All(ctx)
	if err != nil {
		return apperror.Internal(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"results": results})
}

// Get returns one product with tags, images and reviews.
func (h *ProductHandler) Get(c echo.Context) error {
	pid, err := parseID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	product, err := h.Products.ByID(ctx, pid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errProductNotFound
		}
		return apperror.Internal(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"product": product})
}

// ByTag lists the active products carrying a tag.
func (h *ProductHandler) ByTag(c echo.Context) error {
	tagID, err := parseID(c, "tag_id")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	products, err := h.Products.ByTagID(ctx, tagID)
	if err != nil {
		return apperror.Internal(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"products": products})
}

// authorizeSeller resolves the owner of pid.  A missing product is reported
// before ownership is compared, so non-owners also get a 404 for it.
func (h *ProductHandler) authorizeSeller(ctx context.Context, pid, userID uint64) error {
	sellerID, err := h.Products.SellerID(ctx, pid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errProductNotFound
		}
		return apperror.Internal(err)
	}
	if sellerID != userID {
		return errNotOwner
	}
	return nil
}

// Update applies a partial update on behalf of the product's seller.
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := currentUser(c)
	if err != nil {
		return err
	}
	pid, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req updateProductReq
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.authorizeSeller(ctx, pid, id.UserID); err != nil {
		return err
	}
	product, err := h.Products.Update(ctx, pid, model.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Tags:        req.Tags,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			// deleted between the ownership check and the update
			return errProductNotFound
		case errors.Is(err, repository.ErrUnknownReference):
			return errUnknownTag
		}
		return apperror.Internal(err)
	}

	ev := queue.NewCatalogEvent(queue.ProductUpdated, pid, id.UserID)
	ev.ProductName = product.Name
	h.hooks.written(c, ev)
	return c.JSON(http.StatusOK, echo.Map{"product": product})
}

// Delete soft-deletes a product on behalf of its seller.
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := currentUser(c)
	if err != nil {
		return err
	}
	pid, err := parseID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.authorizeSeller(ctx, pid, id.UserID); err != nil {
		return err
	}
	if err := h.Products.Delete(ctx, pid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errProductNotFound
		}
		return apperror.Internal(err)
	}

	h.hooks.written(c, queue.NewCatalogEvent(queue.ProductDeleted, pid, id.UserID))
	return c.JSON(http.StatusOK, echo.Map{"product_deleted": model.DeleteResult{Message: "Product deleted."}})
}

// Rate adds the caller's review to a product.  A user reviews a product at
// most once; the review table's unique key backs the check below when two
// submissions race.
func (h *ProductHandler) Rate(c echo.Context) error {
	id, err := currentUser(c)
	if err != nil {
		return err
	}
	pid, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req rateReq
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Products.SellerID(ctx, pid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errProductNotFound
		}
		return apperror.Internal(err)
	}
	reviews, err := h.Reviews.ListByProduct(ctx, pid)
	if err != nil {
		return apperror.Internal(err)
	}
	for _, r := range reviews {
		if r.UserID == id.UserID {
			return errSecondReview
		}
	}

	text := ""
	if req.ReviewText != nil {
		text = *req.ReviewText
	}
	review, err := h.Reviews.Create(ctx, model.NewReview{
		UserID:     id.UserID,
		ProductID:  pid,
		Rating:     req.Rating,
		ReviewText: text,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateReview):
			return errSecondReview
		case errors.Is(err, repository.ErrUnknownReference):
			return errProductNotFound
		}
		return apperror.Internal(err)
	}

	ev := queue.NewCatalogEvent(queue.ReviewCreated, pid, id.UserID)
	ev.Rating = review.Rating
	h.hooks.written(c, ev)
	return c.JSON(http.StatusOK, echo.Map{"review": review})
}
