package db

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func TestTriggersRejectEmptyInserts(t *testing.T) {
	// in-memory DB
	db, err := sql.Open("sqlite", "file:test_triggers?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	if err := ApplyMigrations(db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	// blank script name should fail
	if _, err := db.Exec("INSERT INTO script_runs (run_id, script, started_at) VALUES (?, ?, datetime('now'))", "run-1", "   "); err == nil {
		t.Fatalf("expected insert with blank script to be rejected by trigger")
	}

	// good insert should succeed
	if _, err := db.Exec("INSERT INTO script_runs (run_id, script, started_at) VALUES (?, ?, datetime('now'))", "run-1", "update"); err != nil {
		t.Fatalf("unexpected insert error: %v", err)
	}

	// blank error message should fail
	if _, err := db.Exec("INSERT INTO error_log (script, message, created_at) VALUES (?, ?, datetime('now'))", "update", ""); err == nil {
		t.Fatalf("expected insert with empty message to be rejected by trigger")
	}

	// good error insert should succeed
	if _, err := db.Exec("INSERT INTO error_log (script, message, created_at) VALUES (?, ?, datetime('now'))", "update", "exit status 1"); err != nil {
		t.Fatalf("unexpected insert error: %v", err)
	}
}
