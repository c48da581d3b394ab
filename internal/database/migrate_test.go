package database

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func TestStatementsStripCommentsAndSplit(t *testing.T) {
	stmts := Statements()
	if len(stmts) != 8 {
		t.Fatalf("expected 8 statements, got %d", len(stmts))
	}
	for _, s := range stmts {
		if !strings.HasPrefix(s, "CREATE TABLE IF NOT EXISTS") {
			t.Errorf("unexpected statement start: %.40q", s)
		}
		if strings.Contains(s, "--") {
			t.Errorf("comment leaked into statement: %.40q", s)
		}
	}
}

func TestReviewTableHasUniqueUserProduct(t *testing.T) {
	for _, s := range Statements() {
		if strings.Contains(s, "CREATE TABLE IF NOT EXISTS review ") {
			if !strings.Contains(s, "UNIQUE KEY uq_review_user_product (user_id, product_id)") {
				t.Fatal("review table lacks the (user_id, product_id) unique key")
			}
			return
		}
	}
	t.Fatal("review table not found in schema")
}

func TestMigrateExecutesEveryStatement(t *testing.T) {
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer raw.Close()
	db := sqlx.NewDb(raw, "mysql")

	for range Statements() {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
