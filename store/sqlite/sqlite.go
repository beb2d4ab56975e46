// Package sqlite implements core.TicketStore and core.KnowledgeStore on an
// embedded SQLite database (modernc.org/sqlite, no cgo).
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/hupe1980/supportmesh/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS tickets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	category TEXT,
	priority INTEGER,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS knowledge_base (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	category TEXT,
	tags TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_knowledge_category ON knowledge_base(category);
`

// openDB is replaced in tests.
var openDB = sql.Open

// Store is a SQLite backed ticket and knowledge store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("%w: create directory: %w", core.ErrStorage, err)
		}
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %w", core.ErrStorage, err)
	}
	// A single connection keeps ":memory:" databases shared and serializes
	// writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: create schema: %w", core.ErrStorage, err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// SaveTicket inserts t and returns its id. Zero category and priority are
// stored as NULL.
func (s *Store) SaveTicket(ctx context.Context, t core.Ticket) (int64, error) {
	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tickets (title, description, category, priority, created_at) VALUES (?, ?, ?, ?, ?)`,
		t.Title, t.Description, nullString(t.Category), nullInt(t.Priority), createdAt)
	if err != nil {
		return 0, fmt.Errorf("%w: save ticket: %w", core.ErrStorage, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: save ticket: %w", core.ErrStorage, err)
	}
	return id, nil
}

// GetTicket returns the ticket with id or core.ErrNotFound.
func (s *Store) GetTicket(ctx context.Context, id int64) (core.Ticket, error) {
	var (
		t        core.Ticket
		category sql.NullString
		priority sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, category, priority, created_at FROM tickets WHERE id = ?`, id).
		Scan(&t.ID, &t.Title, &t.Description, &category, &priority, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Ticket{}, fmt.Errorf("ticket %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Ticket{}, fmt.Errorf("%w: get ticket: %w", core.ErrStorage, err)
	}
	t.Category = category.String
	t.Priority = int(priority.Int64)
	return t, nil
}

// KnowledgeBaseEntries lists entries in insertion order, filtered by
// category when it is non-empty.
func (s *Store) KnowledgeBaseEntries(ctx context.Context, category string) ([]core.KnowledgeEntry, error) {
	query := `SELECT id, title, content, category, tags FROM knowledge_base`
	var args []any
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list knowledge base: %w", core.ErrStorage, err)
	}
	defer rows.Close()

	entries := []core.KnowledgeEntry{}
	for rows.Next() {
		var (
			e        core.KnowledgeEntry
			cat      sql.NullString
			tagsJSON string
		)
		if err := rows.Scan(&e.ID, &e.Title, &e.Content, &cat, &tagsJSON); err != nil {
			return nil, fmt.Errorf("%w: scan knowledge entry: %w", core.ErrStorage, err)
		}
		e.Category = cat.String
		if err := json.Unmarshal([]byte(tagsJSON), &e.Tags); err != nil {
			return nil, fmt.Errorf("%w: decode tags of entry %d: %w", core.ErrStorage, e.ID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list knowledge base: %w", core.ErrStorage, err)
	}
	return entries, nil
}

// AddKnowledgeEntry inserts e and returns its id.
func (s *Store) AddKnowledgeEntry(ctx context.Context, e core.KnowledgeEntry) (int64, error) {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return 0, fmt.Errorf("%w: encode tags: %w", core.ErrStorage, err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO knowledge_base (title, content, category, tags) VALUES (?, ?, ?, ?)`,
		e.Title, e.Content, nullString(e.Category), string(tagsJSON))
	if err != nil {
		return 0, fmt.Errorf("%w: add knowledge entry: %w", core.ErrStorage, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: add knowledge entry: %w", core.ErrStorage, err)
	}
	return id, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}
