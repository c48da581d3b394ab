// Package repository contains data access logic separated from HTTP handlers.
// This file implements the product aggregate: a products row together with
// its product_tag_map associations, product_image rows and reviews. Every
// multi-statement write runs in one transaction so a product is never left
// with a partial tag or image set.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/ecommerce-backend/internal/model"
)

const listingColumns = `p.id, p.seller_id, u.user_name, p.product_name,
	p.product_description, p.price, p.created_at`

// ProductRepo encapsulates all queries for the product aggregate.
type ProductRepo struct {
	db *sqlx.DB
}

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

// Create inserts the product and, when supplied, its tag associations and
// image rows. The returned value echoes tags and images only when tags were
// given; otherwise it carries the bare product fields.
func (r *ProductRepo) Create(ctx context.Context, in model.NewProduct) (*model.CreatedProduct, error) {
	out := &model.CreatedProduct{}
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO products (seller_id, product_name, product_description, price, is_active)
			 VALUES (?, ?, ?, ?, true)`,
			in.SellerID, in.Name, in.Description, in.Price)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		if err := insertTags(ctx, tx, uint64(id), in.Tags); err != nil {
			return err
		}
		for _, img := range in.Images {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO product_image (product_id, image_url, is_active) VALUES (?, ?, true)",
				id, img.ImageURL); err != nil {
				return err
			}
		}
		// read back to pick up created_at and the stored price precision
		return tx.GetContext(ctx, &out.Product,
			`SELECT id, seller_id, product_name, product_description, price, is_active, created_at
			 FROM products WHERE id = ?`, id)
	})
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	if len(in.Tags) > 0 {
		out.Tags = in.Tags
		out.Images = in.Images
	}
	return out, nil
}

// Update changes the scalar fields of an active product and, when upd.Tags
// is non-nil, replaces its tag set. It returns ErrNotFound when no active
// product has the id. The tag list in the result is always re-queried.
func (r *ProductRepo) Update(ctx context.Context, id uint64, upd model.ProductUpdate) (*model.UpdatedProduct, error) {
	out := &model.UpdatedProduct{}
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var locked uint64
		if err := tx.GetContext(ctx, &locked,
			"SELECT id FROM products WHERE id = ? AND is_active = true FOR UPDATE", id); err != nil {
			return notFound(err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE products
			 SET product_name = COALESCE(?, product_name),
			     product_description = COALESCE(?, product_description),
			     price = COALESCE(?, price)
			 WHERE id = ? AND is_active = true`,
			upd.Name, upd.Description, upd.Price, id); err != nil {
			return err
		}
		if upd.Tags != nil {
			if _, err := tx.ExecContext(ctx, "DELETE FROM product_tag_map WHERE product_id = ?", id); err != nil {
				return err
			}
			if err := insertTags(ctx, tx, id, *upd.Tags); err != nil {
				return err
			}
		}
		if err := tx.GetContext(ctx, out,
			"SELECT id, product_name, product_description, price FROM products WHERE id = ?", id); err != nil {
			return err
		}
		tags, err := productTags(ctx, tx, id)
		if err != nil {
			return err
		}
		out.Tags = tags
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}
	return out, nil
}

// Delete soft-deletes the product and hard-deletes its tag associations.
// Images and reviews are left in place; every read path filters on the
// product's own active flag.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE products SET is_active = false WHERE id = ? AND is_active = true", id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		_, err = tx.ExecContext(ctx, "DELETE FROM product_tag_map WHERE product_id = ?", id)
		return err
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return err
}

// All lists every active product of an active seller with tags and images.
func (r *ProductRepo) All(ctx context.Context) ([]model.ProductListing, error) {
	out := []model.ProductListing{}
	if err := r.db.SelectContext(ctx, &out,
		`SELECT `+listingColumns+`
		 FROM products p JOIN users u ON u.id = p.seller_id
		 WHERE p.is_active = true AND u.is_active = true
		 ORDER BY p.id`); err != nil {
		return nil, err
	}
	return out, r.attach(ctx, out)
}

// ByTagID lists the active products associated with an active tag.
func (r *ProductRepo) ByTagID(ctx context.Context, tagID uint64) ([]model.ProductListing, error) {
	out := []model.ProductListing{}
	if err := r.db.SelectContext(ctx, &out,
		`SELECT `+listingColumns+`
		 FROM products p
		 JOIN users u ON u.id = p.seller_id
		 JOIN product_tag_map m ON m.product_id = p.id
		 JOIN tag t ON t.id = m.tag_id
		 WHERE m.tag_id = ? AND t.is_active = true AND p.is_active = true AND u.is_active = true
		 ORDER BY p.id`, tagID); err != nil {
		return nil, err
	}
	return out, r.attach(ctx, out)
}

// ByID returns one active product with tags, images and reviews, or
// ErrNotFound.
func (r *ProductRepo) ByID(ctx context.Context, id uint64) (*model.ProductDetail, error) {
	var listing model.ProductListing
	err := r.db.GetContext(ctx, &listing,
		`SELECT `+listingColumns+`
		 FROM products p JOIN users u ON u.id = p.seller_id
		 WHERE p.id = ? AND p.is_active = true AND u.is_active = true`, id)
	if err != nil {
		return nil, notFound(err)
	}
	items := []model.ProductListing{listing}
	if err := r.attach(ctx, items); err != nil {
		return nil, err
	}
	reviews, err := productReviews(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	return &model.ProductDetail{ProductListing: items[0], Reviews: reviews}, nil
}

// SellerID returns the owner of an active product, or ErrNotFound.
func (r *ProductRepo) SellerID(ctx context.Context, id uint64) (uint64, error) {
	var sellerID uint64
	err := r.db.GetContext(ctx, &sellerID,
		"SELECT seller_id FROM products WHERE id = ? AND is_active = true", id)
	return sellerID, notFound(err)
}

// attach fills Tags and Images for each listing, one query pair per product.
func (r *ProductRepo) attach(ctx context.Context, items []model.ProductListing) error {
	for i := range items {
		tags, err := productTags(ctx, r.db, items[i].ID)
		if err != nil {
			return err
		}
		images, err := productImages(ctx, r.db, items[i].ID)
		if err != nil {
			return err
		}
		items[i].Tags = tags
		items[i].Images = images
	}
	return nil
}

// insertTags writes one association per distinct tag id. Unknown tag ids
// surface as ErrUnknownReference.
func insertTags(ctx context.Context, q DBTX, productID uint64, tags []model.TagRef) error {
	seen := make(map[uint64]struct{}, len(tags))
	for _, t := range tags {
		if _, dup := seen[t.TagID]; dup {
			continue
		}
		seen[t.TagID] = struct{}{}
		if _, err := q.ExecContext(ctx,
			"INSERT INTO product_tag_map (product_id, tag_id) VALUES (?, ?)", productID, t.TagID); err != nil {
			if isMissingReference(err) {
				return fmt.Errorf("tag %d: %w", t.TagID, ErrUnknownReference)
			}
			return err
		}
	}
	return nil
}

func productTags(ctx context.Context, q DBTX, productID uint64) ([]model.Tag, error) {
	tags := []model.Tag{}
	err := q.SelectContext(ctx, &tags,
		`SELECT t.id AS tag_id, t.tag_name
		 FROM tag t JOIN product_tag_map m ON m.tag_id = t.id
		 WHERE m.product_id = ? AND t.is_active = true
		 ORDER BY t.id`, productID)
	return tags, err
}

func productImages(ctx context.Context, q DBTX, productID uint64) ([]model.Image, error) {
	images := []model.Image{}
	err := q.SelectContext(ctx, &images,
		"SELECT image_url FROM product_image WHERE product_id = ? AND is_active = true ORDER BY id", productID)
	return images, err
}
