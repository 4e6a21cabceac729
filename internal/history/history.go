// Package history persists script runs and reported errors in the upkeep
// database and answers queries over them.
package history

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	_ "modernc.org/sqlite"

	"github.com/upkeepcli/upkeep/internal/report"
	"github.com/upkeepcli/upkeep/internal/script"
)

// Stored timestamps use the sqlite datetime('now') layout, UTC.
const timeLayout = "2006-01-02 15:04:05"

// Run is one recorded script execution.
type Run struct {
	ID        int64
	RunID     string
	Script    string
	Args      string
	Elevated  bool
	DryRun    bool
	ExitCode  int
	OK        bool
	Output    string
	StartedAt time.Time
	Duration  time.Duration
}

// ErrorEntry is one persisted failure report.
type ErrorEntry struct {
	ID        int64
	Script    string
	Command   string
	Message   string
	CreatedAt time.Time
}

// Stats summarizes the stored history for the status view.
type Stats struct {
	Runs    int
	Failed  int
	Errors  int
	LastRun time.Time
	HasRuns bool
}

// Store reads and writes history rows. It doubles as the persistent sink
// behind the in-process error channel and the script runner's recorder.
type Store struct {
	db  *sql.DB
	Log *slog.Logger
}

// NewStore creates a Store over db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}

// RecordRun persists one run record. Failures are logged, not returned, so
// a broken history database never turns a successful script into an error.
func (s *Store) RecordRun(rec script.RunRecord) {
	if err := s.InsertRun(rec); err != nil {
		s.logger().Warn("recording run failed", "script", rec.Script, "error", err)
	}
}

// InsertRun persists one run record.
func (s *Store) InsertRun(rec script.RunRecord) error {
	_, err := s.db.Exec(`INSERT INTO script_runs
		(run_id, script, args, elevated, dry_run, exit_code, ok, output, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Script, shellquote.Join(rec.Args...),
		rec.Elevated, rec.DryRun, rec.ExitCode, rec.OK, rec.Output,
		rec.StartedAt.UTC().Format(timeLayout), rec.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecordError is the report.Log subscriber that persists every reported
// failure. Insert failures are logged, not surfaced.
func (s *Store) RecordError(e report.Entry) {
	if err := s.InsertError(e); err != nil {
		s.logger().Warn("recording error failed", "script", e.Script, "error", err)
	}
}

// InsertError persists one reported failure.
func (s *Store) InsertError(e report.Entry) error {
	_, err := s.db.Exec(
		"INSERT INTO error_log (script, command, message, created_at) VALUES (?, ?, ?, ?)",
		e.Script, shellquote.Join(e.Command...), e.Message, e.At.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert error: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first. script filters to one
// script name when non-empty; failedOnly keeps only non-zero exits.
func (s *Store) ListRuns(scriptName string, limit int, failedOnly bool) ([]Run, error) {
	query := `SELECT id, run_id, script, args, elevated, dry_run, exit_code, ok, output, started_at, duration_ms
		FROM script_runs`
	var conds []string
	var params []any
	if scriptName != "" {
		conds = append(conds, "script = ?")
		params = append(params, scriptName)
	}
	if failedOnly {
		conds = append(conds, "ok = 0")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		params = append(params, limit)
	}

	rows, err := s.db.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		var startedAt string
		var durationMS int64
		if err := rows.Scan(&r.ID, &r.RunID, &r.Script, &r.Args, &r.Elevated, &r.DryRun,
			&r.ExitCode, &r.OK, &r.Output, &startedAt, &durationMS); err != nil {
			return nil, err
		}
		r.StartedAt, _ = time.Parse(timeLayout, startedAt)
		r.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ListErrors returns the most recent persisted failures, newest first.
func (s *Store) ListErrors(limit int) ([]ErrorEntry, error) {
	query := "SELECT id, script, command, message, created_at FROM error_log ORDER BY id DESC"
	var params []any
	if limit > 0 {
		query += " LIMIT ?"
		params = append(params, limit)
	}
	rows, err := s.db.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("select errors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []ErrorEntry
	for rows.Next() {
		e, err := scanError(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetError returns one persisted failure by row id.
func (s *Store) GetError(id int64) (*ErrorEntry, error) {
	row := s.db.QueryRow("SELECT id, script, command, message, created_at FROM error_log WHERE id = ?", id)
	e, err := scanError(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no error entry with id %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanError(row scanner) (ErrorEntry, error) {
	var e ErrorEntry
	var createdAt string
	if err := row.Scan(&e.ID, &e.Script, &e.Command, &e.Message, &createdAt); err != nil {
		return ErrorEntry{}, err
	}
	e.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return e, nil
}

// Stats counts the stored history.
func (s *Store) Stats() (Stats, error) {
	var st Stats
	if err := s.db.QueryRow("SELECT count(*), count(CASE WHEN ok = 0 THEN 1 END) FROM script_runs").
		Scan(&st.Runs, &st.Failed); err != nil {
		return st, fmt.Errorf("count runs: %w", err)
	}
	if err := s.db.QueryRow("SELECT count(*) FROM error_log").Scan(&st.Errors); err != nil {
		return st, fmt.Errorf("count errors: %w", err)
	}
	var last sql.NullString
	if err := s.db.QueryRow("SELECT max(started_at) FROM script_runs").Scan(&last); err != nil {
		return st, fmt.Errorf("last run: %w", err)
	}
	if last.Valid {
		st.LastRun, _ = time.Parse(timeLayout, last.String)
		st.HasRuns = true
	}
	return st, nil
}

// ExportTo writes a compacted copy of the history database to dstPath,
// replacing any existing file.
func (s *Store) ExportTo(dstPath string) error {
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return fmt.Errorf("create dst dir: %w", err)
	}
	if err := os.Remove(dstPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("replace export target: %w", err)
	}
	// VACUUM INTO snapshots a live database safely, unlike a file copy.
	if _, err := s.db.Exec("VACUUM INTO ?", dstPath); err != nil {
		return fmt.Errorf("export history: %w", err)
	}
	return nil
}

// ImportFrom merges runs and errors from another history database into this
// one. Runs whose run id is already present are skipped; error entries are
// always appended. Returns how many rows of each kind were imported.
func (s *Store) ImportFrom(srcPath string) (runs, errs int, err error) {
	if _, err := os.Stat(srcPath); err != nil {
		return 0, 0, fmt.Errorf("open source: %w", err)
	}
	src, err := sql.Open("sqlite", srcPath)
	if err != nil {
		return 0, 0, fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = src.Close() }()

	runs, err = s.importRuns(src)
	if err != nil {
		return runs, 0, err
	}
	errs, err = s.importErrors(src)
	return runs, errs, err
}

func (s *Store) importRuns(src *sql.DB) (int, error) {
	rows, err := src.Query(`SELECT run_id, script, args, elevated, dry_run, exit_code, ok, output, started_at, duration_ms
		FROM script_runs ORDER BY id`)
	if err != nil {
		return 0, fmt.Errorf("read source runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	imported := 0
	for rows.Next() {
		var runID, scriptName, args, output, startedAt string
		var elevated, dryRun, ok bool
		var exitCode int
		var durationMS int64
		if err := rows.Scan(&runID, &scriptName, &args, &elevated, &dryRun,
			&exitCode, &ok, &output, &startedAt, &durationMS); err != nil {
			return imported, err
		}
		if runID != "" {
			dup, err := s.hasRun(runID)
			if err != nil {
				return imported, err
			}
			if dup {
				continue
			}
		}
		_, err := s.db.Exec(`INSERT INTO script_runs
			(run_id, script, args, elevated, dry_run, exit_code, ok, output, started_at, duration_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, scriptName, args, elevated, dryRun, exitCode, ok, output, startedAt, durationMS)
		if err != nil {
			return imported, fmt.Errorf("insert run: %w", err)
		}
		imported++
	}
	return imported, rows.Err()
}

func (s *Store) importErrors(src *sql.DB) (int, error) {
	rows, err := src.Query("SELECT script, command, message, created_at FROM error_log ORDER BY id")
	if err != nil {
		return 0, fmt.Errorf("read source errors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	imported := 0
	for rows.Next() {
		var scriptName, command, message, createdAt string
		if err := rows.Scan(&scriptName, &command, &message, &createdAt); err != nil {
			return imported, err
		}
		if _, err := s.db.Exec(
			"INSERT INTO error_log (script, command, message, created_at) VALUES (?, ?, ?, ?)",
			scriptName, command, message, createdAt); err != nil {
			return imported, fmt.Errorf("insert error: %w", err)
		}
		imported++
	}
	return imported, rows.Err()
}

func (s *Store) hasRun(runID string) (bool, error) {
	var cnt int
	if err := s.db.QueryRow("SELECT count(*) FROM script_runs WHERE run_id = ?", runID).Scan(&cnt); err != nil {
		return false, err
	}
	return cnt > 0, nil
}
