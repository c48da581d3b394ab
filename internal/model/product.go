package model

import "time"

// Product mirrors a row of the `products` table.
type Product struct {
	ID          uint64    `db:"id" json:"id"`
	SellerID    uint64    `db:"seller_id" json:"seller_id"`
	Name        string    `db:"product_name" json:"product_name"`
	Description string    `db:"product_description" json:"product_description"`
	Price       float64   `db:"price" json:"price"`
	IsActive    bool      `db:"is_active" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// TagRef is a client-supplied reference to an existing tag.
type TagRef struct {
	TagID uint64 `json:"tag_id" validate:"required,gt=0"`
}

// ImageRef is a client-supplied image URL.
type ImageRef struct {
	ImageURL string `json:"image_url" validate:"required,url,max=2048"`
}

// Image is an active product_image row as exposed to clients.
type Image struct {
	ImageURL string `db:"image_url" json:"image_url"`
}

// NewProduct is the input of the aggregate create operation.
type NewProduct struct {
	SellerID    uint64
	Name        string
	Description string
	Price       float64
	Tags        []TagRef
	Images      []ImageRef
}

// CreatedProduct is returned by create.  Tags and Images echo the input and
// are only present when tags were supplied.
type CreatedProduct struct {
	Product
	Tags   []TagRef   `json:"tags,omitempty"`
	Images []ImageRef `json:"images,omitempty"`
}

// ProductUpdate carries a partial update.  Nil scalars keep their stored
// value.  A nil Tags leaves associations untouched; a non-nil (possibly
// empty) Tags replaces them.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Tags        *[]TagRef
}

// UpdatedProduct is returned by update with the re-queried tag list.
type UpdatedProduct struct {
	ID          uint64  `db:"id" json:"id"`
	Name        string  `db:"product_name" json:"product_name"`
	Description string  `db:"product_description" json:"product_description"`
	Price       float64 `db:"price" json:"price"`
	Tags        []Tag   `db:"-" json:"tags"`
}

// ProductListing is an active product joined to its active seller with its
// current tags and images, as returned by the list endpoints.
type ProductListing struct {
	ID          uint64    `db:"id" json:"id"`
	SellerID    uint64    `db:"seller_id" json:"seller_id"`
	SellerName  string    `db:"user_name" json:"user_name"`
	Name        string    `db:"product_name" json:"product_name"`
	Description string    `db:"product_description" json:"product_description"`
	Price       float64   `db:"price" json:"price"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	Tags        []Tag     `db:"-" json:"tags"`
	Images      []Image   `db:"-" json:"images"`
}

// ProductDetail extends a listing with the product's active reviews.
type ProductDetail struct {
	ProductListing
	Reviews []Review `db:"-" json:"reviews"`
}

// DeleteResult is the body of a successful delete.
type DeleteResult struct {
	Message string `json:"message"`
}
