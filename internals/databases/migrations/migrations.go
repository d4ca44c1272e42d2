// Package migrations holds the hand-written SQL that runs after AutoMigrate:
// CHECK constraints, foreign keys and expression indexes.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"sort"
	"strings"
)

//go:embed *.sql
var files embed.FS

const createTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version    VARCHAR(100) PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Versions lists the embedded migration files in apply order.
func Versions() ([]string, error) {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Run applies every migration not yet recorded in schema_migrations, each in
// its own transaction. It returns the versions it applied.
func Run(ctx context.Context, db *sql.DB) ([]string, error) {
	log.Println("Running database migrations...")
	if _, err := db.ExecContext(ctx, createTable); err != nil {
		return nil, err
	}

	done := map[string]bool{}
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return nil, err
		}
		done[v] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	versions, err := Versions()
	if err != nil {
		return nil, err
	}
	var applied []string
	for _, v := range versions {
		if done[v] {
			continue
		}
		if err := apply(ctx, db, v); err != nil {
			return applied, fmt.Errorf("migration %s: %w", v, err)
		}
		log.Printf("✅ applied %s", v)
		applied = append(applied, v)
	}
	log.Println("Database migrations completed successfully")
	return applied, nil
}

func apply(ctx context.Context, db *sql.DB, version string) error {
	body, err := files.ReadFile(version)
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, strings.TrimSpace(string(body))); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
		return err
	}
	return tx.Commit()
}
