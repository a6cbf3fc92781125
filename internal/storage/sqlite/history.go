// ABOUTME: Iteration history persistence for SQLite
// ABOUTME: Indexes iteration metadata across projects for listing and filtering
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when an iteration id has no history row.
var ErrNotFound = errors.New("iteration not found in history")

// Entry is one indexed iteration.
type Entry struct {
	IterationID     string
	ProjectRoot     string
	Model           string
	ScopeMode       string
	PromptUnits     int
	PromptTokens    int
	ResponseUnits   int
	ResponseSnippet string
	CreatedAt       time.Time
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	ProjectRoot string
	Model       string
	Since       time.Time
	Limit       int
}

// HistoryStore handles iteration history persistence
type HistoryStore struct {
	db *DB
}

// NewHistoryStore creates a new HistoryStore
func NewHistoryStore(db *DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// Record inserts or replaces an entry.
func (s *HistoryStore) Record(e Entry) error {
	if e.IterationID == "" {
		return errors.New("iteration id is required")
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.conn.Exec(`
		INSERT INTO iterations (id, project_root, model, scope_mode, prompt_units, prompt_tokens,
			response_units, response_snippet, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			model = excluded.model,
			scope_mode = excluded.scope_mode,
			prompt_units = excluded.prompt_units,
			prompt_tokens = excluded.prompt_tokens,
			response_units = excluded.response_units,
			response_snippet = excluded.response_snippet
	`, e.IterationID, e.ProjectRoot, e.Model, e.ScopeMode, e.PromptUnits, e.PromptTokens,
		e.ResponseUnits, e.ResponseSnippet, e.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("recording iteration %s: %w", e.IterationID, err)
	}
	return nil
}

// Get returns the entry for id.
func (s *HistoryStore) Get(id string) (Entry, error) {
	row := s.db.conn.QueryRow(selectEntry+` WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, err
}

// List returns matching entries, newest first.
func (s *HistoryStore) List(f Filter) ([]Entry, error) {
	var where []string
	var args []any
	if f.ProjectRoot != "" {
		where = append(where, "project_root = ?")
		args = append(args, f.ProjectRoot)
	}
	if f.Model != "" {
		where = append(where, "model = ?")
		args = append(args, f.Model)
	}
	if !f.Since.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, f.Since.UnixMilli())
	}

	query := selectEntry
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete removes an entry. Missing ids are not an error.
func (s *HistoryStore) Delete(id string) error {
	_, err := s.db.conn.Exec(`DELETE FROM iterations WHERE id = ?`, id)
	return err
}

const selectEntry = `SELECT id, project_root, model, scope_mode, prompt_units, prompt_tokens,
	response_units, response_snippet, created_at FROM iterations`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var e Entry
	var snippet sql.NullString
	var created int64
	if err := row.Scan(&e.IterationID, &e.ProjectRoot, &e.Model, &e.ScopeMode, &e.PromptUnits,
		&e.PromptTokens, &e.ResponseUnits, &snippet, &created); err != nil {
		return Entry{}, err
	}
	e.ResponseSnippet = snippet.String
	e.CreatedAt = time.UnixMilli(created).UTC()
	return e, nil
}
