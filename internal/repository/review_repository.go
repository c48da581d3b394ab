package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/ecommerce-backend/internal/model"
)

// ReviewRepo persists product reviews.
type ReviewRepo struct{ DB *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

// ListByProduct returns the active reviews of a product with reviewer names.
func (r *ReviewRepo) ListByProduct(ctx context.Context, productID uint64) ([]model.Review, error) {
	return productReviews(ctx, r.DB, productID)
}

// Create inserts an active review. A second review for the same
// (user, product) pair fails with ErrDuplicateReview.
func (r *ReviewRepo) Create(ctx context.Context, in model.NewReview) (model.Review, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO review (user_id, product_id, rating, review_text, is_active)
		 VALUES (?, ?, ?, ?, true)`,
		in.UserID, in.ProductID, in.Rating, in.ReviewText)
	if err != nil {
		switch {
		case isDuplicateKey(err):
			return model.Review{}, ErrDuplicateReview
		case isMissingReference(err):
			return model.Review{}, ErrUnknownReference
		}
		return model.Review{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Review{}, err
	}
	var out model.Review
	err = r.DB.GetContext(ctx, &out,
		`SELECT id, user_id, product_id, rating, review_text, created_at
		 FROM review WHERE id = ?`, id)
	return out, err
}

func productReviews(ctx context.Context, q DBTX, productID uint64) ([]model.Review, error) {
	reviews := []model.Review{}
	err := q.SelectContext(ctx, &reviews,
		`SELECT r.id, r.user_id, u.user_name, r.product_id, r.rating, r.review_text, r.created_at
		 FROM review r JOIN users u ON u.id = r.user_id
		 WHERE r.product_id = ? AND r.is_active = true
		 ORDER BY r.created_at, r.id`, productID)
	return reviews, err
}
