package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	xrsatest "github.com/drix00/xray-spectrum-analyzer/internal/testing"
)

func TestMigrate(t *testing.T) {
	t.Run("records every migration", func(t *testing.T) {
		db := xrsatest.CreateTestDB(t)
		require.NoError(t, Migrate(db, zaptest.NewLogger(t).Sugar()))

		var versions []string
		rows, err := db.Query("SELECT version FROM schema_migrations ORDER BY version")
		require.NoError(t, err)
		defer rows.Close()
		for rows.Next() {
			var v string
			require.NoError(t, rows.Scan(&v))
			versions = append(versions, v)
		}
		require.NoError(t, rows.Err())
		assert.Equal(t, []string{"000", "001", "002"}, versions)
	})

	t.Run("is idempotent", func(t *testing.T) {
		db := xrsatest.CreateTestDB(t)
		require.NoError(t, Migrate(db, nil))
		require.NoError(t, Migrate(db, nil))

		var n int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n))
		assert.Equal(t, 3, n)
	})

	t.Run("fails on a closed database", func(t *testing.T) {
		db := xrsatest.CreateTestDB(t)
		db.Close()

		err := Migrate(db, nil)
		require.Error(t, err)
	})
}
