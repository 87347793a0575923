package catalog

import (
	"fmt"
	"strings"
)

// NewStore creates a catalog store based on the DSN.
//   - Empty DSN: SQLite at data/coursewise.db
//   - postgres:// or postgresql://: PostgreSQL with pgvector
//   - Anything else: SQLite at the specified path
func NewStore(dsn string, dimension int) (Store, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		s, err := NewPgStore(dsn, dimension)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return s, nil
	}
	return NewSQLiteStore(dsn)
}
