package handler

import (
	"context"

	"github.com/iliyamo/ecommerce-backend/internal/model"
	"github.com/iliyamo/ecommerce-backend/internal/queue"
)

// The interfaces below are the slices of the repositories each handler
// uses.  The *repository.XxxRepo types satisfy them; tests use in-memory
// fakes.

type UserStore interface {
	Create(ctx context.Context, in model.NewUser) (model.User, error)
	Authenticate(ctx context.Context, userName, password string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	GetByUserName(ctx context.Context, userName string) (model.User, error)
}

type SessionStore interface {
	Create(ctx context.Context, userID uint64, token string) error
	DeactivateAll(ctx context.Context, userID uint64) (int64, error)
}

type ProductStore interface {
	Create(ctx context.Context, in model.NewProduct) (*model.CreatedProduct, error)
	Update(ctx context.Context, id uint64, upd model.ProductUpdate) (*model.UpdatedProduct, error)
	Delete(ctx context.Context, id uint64) error
	All(ctx context.Context) ([]model.ProductListing, error)
	ByTagID(ctx context.Context, tagID uint64) ([]model.ProductListing, error)
	ByID(ctx context.Context, id uint64) (*model.ProductDetail, error)
	SellerID(ctx context.Context, id uint64) (uint64, error)
}

type ReviewStore interface {
	ListByProduct(ctx context.Context, productID uint64) ([]model.Review, error)
	Create(ctx context.Context, in model.NewReview) (model.Review, error)
}

type TagStore interface {
	Create(ctx context.Context, name string) (model.Tag, error)
	All(ctx context.Context) ([]model.Tag, error)
}

type CartStore interface {
	Items(ctx context.Context, userID uint64) ([]model.CartItem, error)
	Add(ctx context.Context, userID, productID uint64) (model.CartEntry, error)
	Remove(ctx context.Context, userID, productID uint64) (bool, error)
}

// EventPublisher delivers catalog events to the broker.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.CatalogEvent) error
}

// CachePurger drops cached catalog responses.
type CachePurger interface {
	Purge(ctx context.Context) error
}
