// Package sqlstoretest opens throwaway in-memory catalog stores for tests.
package sqlstoretest

import (
	"catalog/infra/sqlstore"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

const memoryDSN = "file::memory:?_pragma=foreign_keys(1)"

// Open returns an empty sqlite-backed repository that is closed when the test
// ends. Every call gets its own database.
func Open(t testing.TB) *sqlstore.Repository {
	t.Helper()

	repo, err := sqlstore.Open(context.Background(), sqlstore.DriverSQLite, memoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = repo.Close()
	})

	return repo
}
