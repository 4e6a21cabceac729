package db

import (
	"database/sql"
	_ "embed"
	"fmt"

	// _ import for sqlite driver registration
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// ApplyMigrations applies the embedded schema SQL to the database and
// performs lightweight post-creation migrations (adding new columns when needed).
func ApplyMigrations(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	// Ensure new columns exist on upgrades
	if err := ensureScriptRunColumns(db); err != nil {
		return err
	}
	return nil
}

// ensureScriptRunColumns checks for columns added after the first release and
// creates them when missing.
func ensureScriptRunColumns(db *sql.DB) error {
	cols, err := tableColumns(db, "script_runs")
	if err != nil {
		return err
	}
	if !cols["duration_ms"] {
		if _, err := db.Exec("ALTER TABLE script_runs ADD COLUMN duration_ms INTEGER NOT NULL DEFAULT 0"); err != nil {
			return err
		}
	}
	if !cols["run_id"] {
		if _, err := db.Exec("ALTER TABLE script_runs ADD COLUMN run_id TEXT NOT NULL DEFAULT ''"); err != nil {
			return err
		}
	}
	return nil
}

func tableColumns(db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	cols := map[string]bool{}
	for rows.Next() {
		var cid int
		var name string
		var ctype string
		var notnull int
		var dflt interface{}
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols[name] = true
	}
	return cols, rows.Err()
}
