// Package postgres implements core.TicketStore and core.KnowledgeStore on
// PostgreSQL through a pgx connection pool. The schema matches the tables
// used by the original ticket intake deployment (tickets, knowledge_base
// with TEXT[] tags) and is created on Open if missing.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hupe1980/supportmesh/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS tickets (
	id SERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	category TEXT,
	priority INTEGER,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS knowledge_base (
	id SERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	category TEXT,
	tags TEXT[]
);
`

// Store is a PostgreSQL backed ticket and knowledge store.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to dsn, pings the server and applies the schema. An empty
// dsn falls back to the libpq environment (PGHOST, PGDATABASE, PGUSER,
// PGPASSWORD, PGPORT).
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: parse dsn: %w", core.ErrStorage, err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: create pool: %w", core.ErrStorage, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping: %w", core.ErrStorage, err)
	}

	s := NewStore(pool)
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewStore wraps an existing pool. The schema is not applied.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("%w: create schema: %w", core.ErrStorage, err)
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// SaveTicket inserts t and returns its id. Zero category and priority are
// stored as NULL.
func (s *Store) SaveTicket(ctx context.Context, t core.Ticket) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO tickets (title, description, category, priority)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		t.Title, t.Description, optional(t.Category), optional(t.Priority)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%w: save ticket: %w", core.ErrStorage, err)
	}
	return id, nil
}

// GetTicket returns the ticket with id or core.ErrNotFound.
func (s *Store) GetTicket(ctx context.Context, id int64) (core.Ticket, error) {
	var (
		t        core.Ticket
		category *string
		priority *int32
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, title, description, category, priority, created_at FROM tickets WHERE id = $1`, id).
		Scan(&t.ID, &t.Title, &t.Description, &category, &priority, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Ticket{}, fmt.Errorf("ticket %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Ticket{}, fmt.Errorf("%w: get ticket: %w", core.ErrStorage, err)
	}
	if category != nil {
		t.Category = *category
	}
	if priority != nil {
		t.Priority = int(*priority)
	}
	return t, nil
}

// KnowledgeBaseEntries lists entries in id order, filtered by category when
// it is non-empty.
func (s *Store) KnowledgeBaseEntries(ctx context.Context, category string) ([]core.KnowledgeEntry, error) {
	query := `SELECT id, title, content, category, tags FROM knowledge_base`
	var args []any
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY id`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list knowledge base: %w", core.ErrStorage, err)
	}
	defer rows.Close()

	entries := []core.KnowledgeEntry{}
	for rows.Next() {
		var (
			e   core.KnowledgeEntry
			id  int32
			cat *string
		)
		if err := rows.Scan(&id, &e.Title, &e.Content, &cat, &e.Tags); err != nil {
			return nil, fmt.Errorf("%w: scan knowledge entry: %w", core.ErrStorage, err)
		}
		e.ID = int64(id)
		if cat != nil {
			e.Category = *cat
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
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO knowledge_base (title, content, category, tags)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		e.Title, e.Content, optional(e.Category), tags).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%w: add knowledge entry: %w", core.ErrStorage, err)
	}
	return id, nil
}

// optional maps zero values to SQL NULL.
func optional[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}
