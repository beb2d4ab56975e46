package store

import (
	"context"
	"fmt"
	"io"

	"github.com/hupe1980/supportmesh/core"
	"github.com/hupe1980/supportmesh/store/postgres"
	"github.com/hupe1980/supportmesh/store/sqlite"
)

// Supported drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store is the union of the persistence interfaces the pipeline needs.
type Store interface {
	core.TicketStore
	core.KnowledgeStore
	io.Closer
}

var (
	_ Store = (*InMemoryStore)(nil)
	_ Store = (*sqlite.Store)(nil)
	_ Store = (*postgres.Store)(nil)
)

// Open returns the backend named by driver. dsn is a file path for sqlite
// and a connection string for postgres; it is ignored for memory.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "", DriverMemory:
		return NewInMemoryStore(), nil
	case DriverSQLite:
		if dsn == "" {
			return nil, fmt.Errorf("%w: sqlite requires a database path", core.ErrStorage)
		}
		s, err := sqlite.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverPostgres:
		s, err := postgres.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: unknown driver %q", core.ErrStorage, driver)
	}
}
