package model

// Tag is an active row of the `tag` table.
type Tag struct {
	ID   uint64 `db:"tag_id" json:"tag_id"`
	Name string `db:"tag_name" json:"tag_name"`
}
