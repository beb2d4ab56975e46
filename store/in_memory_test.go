package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/hupe1980/supportmesh/core"
	"github.com/hupe1980/supportmesh/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_Tickets(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	id, err := s.SaveTicket(ctx, testutil.LoginTicket())
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	got, err := s.GetTicket(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Cannot log in", got.Title)
	assert.Equal(t, id, got.ID)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = s.GetTicket(ctx, 2)
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = s.SaveTicket(ctx, core.Ticket{Title: "only title"})
	assert.ErrorIs(t, err, core.ErrStorage)
}

func TestInMemoryStore_Knowledge(t *testing.T) {
	s := NewInMemoryStore(testutil.KnowledgeEntries()...)
	ctx := context.Background()

	all, err := s.KnowledgeBaseEntries(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(1), all[0].ID)
	assert.Equal(t, "Password reset", all[0].Title)

	id, err := s.AddKnowledgeEntry(ctx, core.KnowledgeEntry{Title: "Invoices", Content: "Download from the portal", Category: "Billing"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)

	billing, err := s.KnowledgeBaseEntries(ctx, "Billing")
	require.NoError(t, err)
	require.Len(t, billing, 2)
	assert.Equal(t, []string{"Refund policy", "Invoices"}, []string{billing[0].Title, billing[1].Title})

	none, err := s.KnowledgeBaseEntries(ctx, "Feature Request")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = s.AddKnowledgeEntry(ctx, core.KnowledgeEntry{Content: "no title"})
	assert.ErrorIs(t, err, core.ErrStorage)
}

func TestInMemoryStore_ReturnsCopies(t *testing.T) {
	s := NewInMemoryStore(testutil.KnowledgeEntries()...)
	ctx := context.Background()

	first, err := s.KnowledgeBaseEntries(ctx, "")
	require.NoError(t, err)
	first[0].Tags[0] = "mutated"

	second, err := s.KnowledgeBaseEntries(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "login", second[0].Tags[0])
}

func TestInMemoryStore_CancelledContext(t *testing.T) {
	s := NewInMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.KnowledgeBaseEntries(ctx, "")
	assert.ErrorIs(t, err, core.ErrStorage)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInMemoryStore_Concurrent(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.SaveTicket(ctx, core.Ticket{Title: "t", Description: "d"})
			_, _ = s.AddKnowledgeEntry(ctx, core.KnowledgeEntry{Title: "k", Content: "c"})
			_, _ = s.KnowledgeBaseEntries(ctx, "")
		}()
	}
	wg.Wait()

	entries, err := s.KnowledgeBaseEntries(ctx, "")
	require.NoError(t, err)
	assert.Len(t, entries, 20)
	for i, e := range entries {
		assert.Equal(t, int64(i+1), e.ID)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, DriverMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &InMemoryStore{}, s)

	s, err = Open(ctx, DriverSQLite, filepath.Join(t.TempDir(), "kb.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(ctx, DriverSQLite, "")
	assert.ErrorIs(t, err, core.ErrStorage)

	_, err = Open(ctx, "mongo", "")
	assert.ErrorIs(t, err, core.ErrStorage)
}
