package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/supportmesh/core"
)

// InMemoryStore is a process-local ticket and knowledge store. Ids are
// assigned sequentially starting at 1 and entries are listed in insertion
// order.
//
// Concurrency: protected by RWMutex.
type InMemoryStore struct {
	mu        sync.RWMutex
	tickets   []core.Ticket
	knowledge []core.KnowledgeEntry
}

// NewInMemoryStore creates an empty store, optionally seeded with entries.
func NewInMemoryStore(entries ...core.KnowledgeEntry) *InMemoryStore {
	s := &InMemoryStore{}
	for _, e := range entries {
		s.knowledge = append(s.knowledge, cloneEntry(e, int64(len(s.knowledge)+1)))
	}
	return s
}

// SaveTicket stores t and returns its new id. CreatedAt defaults to now.
func (s *InMemoryStore) SaveTicket(ctx context.Context, t core.Ticket) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %w", core.ErrStorage, err)
	}
	if strings.TrimSpace(t.Title) == "" || strings.TrimSpace(t.Description) == "" {
		return 0, fmt.Errorf("%w: ticket title and description are required", core.ErrStorage)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = int64(len(s.tickets) + 1)
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	s.tickets = append(s.tickets, t)
	return t.ID, nil
}

// GetTicket returns the ticket with id or core.ErrNotFound.
func (s *InMemoryStore) GetTicket(_ context.Context, id int64) (core.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id < 1 || id > int64(len(s.tickets)) {
		return core.Ticket{}, fmt.Errorf("ticket %d: %w", id, core.ErrNotFound)
	}
	return s.tickets[id-1], nil
}

// KnowledgeBaseEntries returns copies of all entries, or only those whose
// category equals category when it is non-empty.
func (s *InMemoryStore) KnowledgeBaseEntries(ctx context.Context, category string) ([]core.KnowledgeEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrStorage, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.KnowledgeEntry, 0, len(s.knowledge))
	for _, e := range s.knowledge {
		if category != "" && e.Category != category {
			continue
		}
		out = append(out, cloneEntry(e, e.ID))
	}
	return out, nil
}

// AddKnowledgeEntry appends e and returns its new id.
func (s *InMemoryStore) AddKnowledgeEntry(ctx context.Context, e core.KnowledgeEntry) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %w", core.ErrStorage, err)
	}
	if strings.TrimSpace(e.Title) == "" {
		return 0, fmt.Errorf("%w: knowledge entry title is required", core.ErrStorage)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := int64(len(s.knowledge) + 1)
	s.knowledge = append(s.knowledge, cloneEntry(e, id))
	return id, nil
}

// Close is a no-op that lets InMemoryStore stand in for SQL backends.
func (s *InMemoryStore) Close() error { return nil }

func cloneEntry(e core.KnowledgeEntry, id int64) core.KnowledgeEntry {
	e.ID = id
	e.Tags = slices.Clone(e.Tags)
	return e
}
