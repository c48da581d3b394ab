package repository

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// newMock returns a sqlx handle backed by sqlmock. Expectations are checked
// when the test finishes.
func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		raw.Close()
	})
	return sqlx.NewDb(raw, "mysql"), mock
}

// q escapes a SQL fragment for sqlmock's regexp matcher.
func q(fragment string) string { return regexp.QuoteMeta(fragment) }

var (
	errDuplicate  = &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	errForeignKey = &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}
)
