// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/daviddagyei/ai-scholarship-agent/pkg/types"
)

// columnNames are the SQL column names in row order.
var columnNames = []string{
	"id", "title", "description", "amount", "deadline", "eligibility",
	"requirements", "application_url", "provider", "category", "status",
	"created_at", "modified_at", "created_by", "modified_by",
}

// SQLite stores rows in a scholarships table.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and its schema.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) createSchema() error {
	cols := make([]string, len(columnNames))
	for i, c := range columnNames {
		cols[i] = c + " TEXT"
	}
	cols[0] = "id TEXT NOT NULL UNIQUE"
	cols[1] = "title TEXT NOT NULL"

	statements := []string{
		`CREATE TABLE IF NOT EXISTS scholarships (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			` + strings.Join(cols, ",\n\t\t\t") + `
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scholarships_title ON scholarships(lower(trim(title)))`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Init implements Initializer; the schema already exists after open.
func (s *SQLite) Init(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ExistingTitles implements Sink.
func (s *SQLite) ExistingTitles(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT title FROM scholarships ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying titles: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scanning title: %w", err)
		}
		titles = append(titles, t)
	}
	return titles, rows.Err()
}

// AppendRow implements Sink. A row whose id is already stored is ignored.
func (s *SQLite) AppendRow(ctx context.Context, row []string) error {
	if len(row) != len(columnNames) {
		return fmt.Errorf("row has %d columns, want %d", len(row), len(columnNames))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columnNames)), ", ")
	query := `INSERT INTO scholarships (` + strings.Join(columnNames, ", ") + `)
		VALUES (` + placeholders + `)
		ON CONFLICT(id) DO NOTHING`

	args := make([]any, len(row))
	for i, v := range row {
		args[i] = v
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting row: %w", err)
	}
	return nil
}

// Records returns every stored row as a Record, oldest first.
func (s *SQLite) Records(ctx context.Context) ([]types.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, description, amount, deadline, eligibility,
		requirements, application_url, provider, category, status, created_by, modified_by
		FROM scholarships ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var out []types.Record
	for rows.Next() {
		var r types.Record
		var status string
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.Amount, &r.Deadline, &r.Eligibility,
			&r.Requirements, &r.ApplicationURL, &r.Provider, &r.Category, &status, &r.CreatedBy, &r.ModifiedBy); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		r.Status = types.Status(status)
		out = append(out, r)
	}
	return out, rows.Err()
}
