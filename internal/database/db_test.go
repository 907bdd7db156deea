package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB(t *testing.T) {
	t.Run("InMemory", func(t *testing.T) {
		db, err := NewDB(InMemory)
		require.NoError(t, err)
		defer db.Close()

		var count int
		err = db.SQL.QueryRow(`SELECT COUNT(*) FROM execution_metrics`).Scan(&count)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("FileIsReopenable", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "metrics.db")

		db, err := NewDB(path)
		require.NoError(t, err)
		_, err = db.SQL.Exec(`INSERT INTO execution_metrics (agent_name, recorded_at) VALUES ('a', '2024-01-01T00:00:00.000Z')`)
		require.NoError(t, err)
		require.NoError(t, db.Close())

		// Running migrations a second time is a no-op.
		db, err = NewDB(path)
		require.NoError(t, err)
		defer db.Close()

		var count int
		require.NoError(t, db.SQL.QueryRow(`SELECT COUNT(*) FROM execution_metrics`).Scan(&count))
		assert.Equal(t, 1, count)
	})
}
