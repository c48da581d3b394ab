package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestTagCreate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(q("INSERT INTO tag (tag_name, is_active) VALUES (?, true)")).
		WithArgs("shoes").
		WillReturnResult(sqlmock.NewResult(4, 1))

	tag, err := NewTagRepo(db).Create(context.Background(), "shoes")
	if err != nil {
		t.Fatal(err)
	}
	if tag.ID != 4 || tag.Name != "shoes" {
		t.Fatalf("got %+v", tag)
	}
}

func TestTagCreateDuplicate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(q("INSERT INTO tag")).
		WithArgs("shoes").
		WillReturnError(errDuplicate)

	_, err := NewTagRepo(db).Create(context.Background(), "shoes")
	if !errors.Is(err, ErrTagExists) {
		t.Fatalf("want ErrTagExists, got %v", err)
	}
}

func TestTagAllEmptyIsNotNil(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(q("SELECT id AS tag_id, tag_name FROM tag WHERE is_active = true ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"tag_id", "tag_name"}))

	tags, err := NewTagRepo(db).All(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if tags == nil || len(tags) != 0 {
		t.Fatalf("want empty slice, got %#v", tags)
	}
}
