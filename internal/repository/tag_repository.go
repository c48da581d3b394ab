package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/ecommerce-backend/internal/model"
)

// TagRepo manages the tag catalog.
type TagRepo struct{ DB *sqlx.DB }

func NewTagRepo(db *sqlx.DB) *TagRepo { return &TagRepo{DB: db} }

// Create inserts an active tag and returns it.
func (r *TagRepo) Create(ctx context.Context, name string) (model.Tag, error) {
	res, err := r.DB.ExecContext(ctx, "INSERT INTO tag (tag_name, is_active) VALUES (?, true)", name)
	if err != nil {
		if isDuplicateKey(err) {
			return model.Tag{}, ErrTagExists
		}
		return model.Tag{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Tag{}, err
	}
	return model.Tag{ID: uint64(id), Name: name}, nil
}

// All returns every active tag ordered by id.
func (r *TagRepo) All(ctx context.Context) ([]model.Tag, error) {
	tags := []model.Tag{}
	err := r.DB.SelectContext(ctx, &tags,
		"SELECT id AS tag_id, tag_name FROM tag WHERE is_active = true ORDER BY id")
	return tags, err
}
