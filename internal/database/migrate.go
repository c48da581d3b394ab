package database

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:embed schema.sql
var schema string

// Statements splits the embedded schema into individual DDL statements.
// The go-sql-driver does not accept multi-statement strings unless the DSN
// enables multiStatements, so each one is executed on its own.
func Statements() []string {
	var out []string
	for _, chunk := range strings.Split(schema, ";") {
		var lines []string
		for _, line := range strings.Split(chunk, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "--") {
				continue
			}
			lines = append(lines, line)
		}
		stmt := strings.TrimSpace(strings.Join(lines, "\n"))
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out
}

// Migrate creates every table that does not exist yet.  All statements are
// CREATE TABLE IF NOT EXISTS, so running it against an up-to-date database
// is a no-op.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range Statements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
