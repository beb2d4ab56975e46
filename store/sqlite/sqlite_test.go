package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/hupe1980/supportmesh/core"
	"github.com/hupe1980/supportmesh/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "support.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_Tickets(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	id, err := s.SaveTicket(ctx, core.Ticket{
		Title: "Cannot log in", Description: "error on login", Category: "Technical Issue", Priority: 3, CreatedAt: created,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	got, err := s.GetTicket(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Cannot log in", got.Title)
	assert.Equal(t, "Technical Issue", got.Category)
	assert.Equal(t, 3, got.Priority)
	assert.True(t, created.Equal(got.CreatedAt))

	id2, err := s.SaveTicket(ctx, core.Ticket{Title: "t", Description: "d"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), id2)

	bare, err := s.GetTicket(ctx, id2)
	require.NoError(t, err)
	assert.Empty(t, bare.Category)
	assert.Zero(t, bare.Priority)
	assert.False(t, bare.CreatedAt.IsZero())

	_, err = s.GetTicket(ctx, 99)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestStore_Knowledge(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	empty, err := s.KnowledgeBaseEntries(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, e := range testutil.KnowledgeEntries() {
		_, err := s.AddKnowledgeEntry(ctx, e)
		require.NoError(t, err)
	}
	_, err = s.AddKnowledgeEntry(ctx, core.KnowledgeEntry{Title: "Untagged", Content: "c"})
	require.NoError(t, err)

	all, err := s.KnowledgeBaseEntries(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Password reset", all[0].Title)
	assert.Equal(t, []string{"login", "password"}, all[0].Tags)
	assert.Equal(t, int64(3), all[2].ID)
	assert.Empty(t, all[2].Tags)
	assert.Empty(t, all[2].Category)

	billing, err := s.KnowledgeBaseEntries(ctx, "Billing")
	require.NoError(t, err)
	require.Len(t, billing, 1)
	assert.Equal(t, "Refund policy", billing[0].Title)
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "support.db")
	ctx := context.Background()

	s, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = s.AddKnowledgeEntry(ctx, core.KnowledgeEntry{Title: "a", Content: "b"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	entries, err := s.KnowledgeBaseEntries(ctx, "")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_InMemory(t *testing.T) {
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer s.Close()

	id, err := s.SaveTicket(context.Background(), core.Ticket{Title: "t", Description: "d"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestOpen_DriverError(t *testing.T) {
	orig := openDB
	t.Cleanup(func() { openDB = orig })
	boom := errors.New("driver unavailable")
	openDB = func(string, string) (*sql.DB, error) { return nil, boom }

	_, err := Open(context.Background(), ":memory:")
	assert.ErrorIs(t, err, core.ErrStorage)
	assert.ErrorIs(t, err, boom)
}

func TestStore_ClosedDatabase(t *testing.T) {
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.KnowledgeBaseEntries(context.Background(), "")
	assert.ErrorIs(t, err, core.ErrStorage)
	_, err = s.SaveTicket(context.Background(), core.Ticket{Title: "t", Description: "d"})
	assert.ErrorIs(t, err, core.ErrStorage)
}
