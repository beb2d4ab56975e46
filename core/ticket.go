package core

import (
	"context"
	"time"
)

// Ticket is a free-text support request. Agents only read Title and
// Description; the remaining fields belong to the persistence layer.
type Ticket struct {
	ID          int64     `json:"id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category,omitempty"`
	Priority    int       `json:"priority,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// KnowledgeEntry is a knowledge base article offered to the search agent.
type KnowledgeEntry struct {
	ID       int64    `json:"id,omitempty" yaml:"id,omitempty"`
	Title    string   `json:"title" yaml:"title"`
	Content  string   `json:"content" yaml:"content"`
	Category string   `json:"category" yaml:"category"`
	Tags     []string `json:"tags" yaml:"tags"`
}

// TicketStore persists submitted tickets. Category and priority are
// optional; zero values are stored as NULL by SQL backends. GetTicket
// returns ErrNotFound for unknown ids.
type TicketStore interface {
	SaveTicket(ctx context.Context, t Ticket) (int64, error)
	GetTicket(ctx context.Context, id int64) (Ticket, error)
}

// KnowledgeStore lists knowledge base entries, optionally filtered by
// category (empty means all), in insertion order.
type KnowledgeStore interface {
	KnowledgeBaseEntries(ctx context.Context, category string) ([]KnowledgeEntry, error)
	AddKnowledgeEntry(ctx context.Context, e KnowledgeEntry) (int64, error)
}
