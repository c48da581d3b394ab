package model

import "time"

// Review mirrors the `review` table.  UserName is filled only by queries
// that join the reviewer.
type Review struct {
	ID         uint64    `db:"id" json:"id"`
	UserID     uint64    `db:"user_id" json:"user_id"`
	UserName   string    `db:"user_name" json:"user_name,omitempty"`
	ProductID  uint64    `db:"product_id" json:"product_id"`
	Rating     int       `db:"rating" json:"rating"`
	ReviewText string    `db:"review_text" json:"review_text"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// NewReview is the input of review creation.
type NewReview struct {
	UserID     uint64
	ProductID  uint64
	Rating     int
	ReviewText string
}
