package history

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Dialect names accepted by NewSQLStore.
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// SQLStore implements Store on top of database/sql, using SQLite or
// PostgreSQL.
type SQLStore struct {
	db      *sql.DB
	dialect string
}

// NewSQLStore opens the database, pings it and applies migrations.
func NewSQLStore(dialect, dsn string) (*SQLStore, error) {
	db, err := sql.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLStore{db: db, dialect: dialect}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *SQLStore) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		test_name TEXT NOT NULL,
		query TEXT NOT NULL,
		scale TEXT NOT NULL,
		result_dir TEXT NOT NULL,
		exit_code INTEGER NOT NULL,
		status TEXT NOT NULL,
		expected_samples INTEGER NOT NULL,
		found_samples INTEGER NOT NULL,
		mean DOUBLE PRECISION,
		ci_low DOUBLE PRECISION,
		ci_high DOUBLE PRECISION,
		started_at TIMESTAMP NOT NULL,
		duration_ms BIGINT NOT NULL
	);
	`
	_, err := s.db.Exec(query)
	return err
}

// rebind rewrites '?' placeholders to '$n' for PostgreSQL.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Save inserts a run record.
func (s *SQLStore) Save(rec RunRecord) error {
	query := s.rebind(`INSERT INTO runs (id, test_name, query, scale, result_dir, exit_code, status,
		expected_samples, found_samples, mean, ci_low, ci_high, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := s.db.Exec(query,
		rec.ID, rec.TestName, rec.Query, rec.Scale, rec.ResultDir, rec.ExitCode, rec.Status,
		rec.Expected, rec.Found, rec.Mean, rec.CILow, rec.CIHigh,
		rec.StartedAt.UTC(), rec.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", rec.ID, err)
	}
	return nil
}

const selectRuns = `SELECT id, test_name, query, scale, result_dir, exit_code, status,
	expected_samples, found_samples, mean, ci_low, ci_high, started_at, duration_ms FROM runs`

// LoadAll returns every record, oldest first.
func (s *SQLStore) LoadAll() ([]RunRecord, error) {
	rows, err := s.db.Query(selectRuns + ` ORDER BY started_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []RunRecord{}
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// LoadLatest returns the most recently started record, or nil.
func (s *SQLStore) LoadLatest() (*RunRecord, error) {
	rows, err := s.db.Query(selectRuns + ` ORDER BY started_at DESC LIMIT 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	rec, err := scanRun(rows)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func scanRun(rows *sql.Rows) (RunRecord, error) {
	var rec RunRecord
	var mean, ciLow, ciHigh sql.NullFloat64
	var durationMs int64
	err := rows.Scan(&rec.ID, &rec.TestName, &rec.Query, &rec.Scale, &rec.ResultDir,
		&rec.ExitCode, &rec.Status, &rec.Expected, &rec.Found,
		&mean, &ciLow, &ciHigh, &rec.StartedAt, &durationMs)
	if err != nil {
		return rec, err
	}
	rec.Mean = mean.Float64
	rec.CILow = ciLow.Float64
	rec.CIHigh = ciHigh.Float64
	rec.Duration = time.Duration(durationMs) * time.Millisecond
	return rec, nil
}
