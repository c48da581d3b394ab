package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/ecommerce-backend/internal/model"
)

// CartRepo manages cart entries. Removal is a soft delete; a removed
// product can be added again, which writes a new row.
type CartRepo struct{ DB *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{DB: db} }

// Items lists the user's active cart entries joined to active products.
func (r *CartRepo) Items(ctx context.Context, userID uint64) ([]model.CartItem, error) {
	items := []model.CartItem{}
	err := r.DB.SelectContext(ctx, &items,
		`SELECT p.id AS product_id, p.product_name, p.product_description, p.price
		 FROM cart c JOIN products p ON p.id = c.product_id
		 WHERE c.user_id = ? AND c.is_active = true AND p.is_active = true
		 ORDER BY c.id`, userID)
	return items, err
}

// Add puts an active product in the user's cart. It returns ErrNotFound when
// the product does not exist or is inactive. Adding a product that already
// has an active entry returns that entry without writing a duplicate.
func (r *CartRepo) Add(ctx context.Context, userID, productID uint64) (model.CartEntry, error) {
	entry := model.CartEntry{UserID: userID, ProductID: productID}
	err := withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		var pid uint64
		if err := tx.GetContext(ctx, &pid,
			"SELECT id FROM products WHERE id = ? AND is_active = true", productID); err != nil {
			return notFound(err)
		}
		var existing int
		if err := tx.GetContext(ctx, &existing,
			"SELECT COUNT(*) FROM cart WHERE user_id = ? AND product_id = ? AND is_active = true",
			userID, productID); err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO cart (user_id, product_id, is_active) VALUES (?, ?, true)", userID, productID)
		return err
	})
	if err != nil {
		return model.CartEntry{}, err
	}
	return entry, nil
}

// Remove soft-deletes the user's active entries for productID and reports
// whether anything was removed.
func (r *CartRepo) Remove(ctx context.Context, userID, productID uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE cart SET is_active = false WHERE user_id = ? AND product_id = ? AND is_active = true",
		userID, productID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
