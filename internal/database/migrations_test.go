package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunMigrations(t *testing.T) {
	ctx := context.Background()
	pool := TestPool(t)

	t.Run("creates all tables", func(t *testing.T) {
		for _, table := range []string{"categories", "expenses", "people", "lending_records"} {
			var exists bool
			err := pool.QueryRow(ctx, `
				SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)
			`, table).Scan(&exists)
			require.NoError(t, err)
			require.True(t, exists, "table %s should exist", table)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		require.NoError(t, RunMigrations(ctx, pool))
		require.NoError(t, RunMigrations(ctx, pool))
	})

	t.Run("lending records cascade from people", func(t *testing.T) {
		var rule string
		err := pool.QueryRow(ctx, `
			SELECT rc.delete_rule
			FROM information_schema.referential_constraints rc
			JOIN information_schema.table_constraints tc
			  ON tc.constraint_name = rc.constraint_name
			WHERE tc.table_name = 'lending_records'
		`).Scan(&rule)
		require.NoError(t, err)
		require.Equal(t, "CASCADE", rule)
	})
}

func TestSeedCategories(t *testing.T) {
	ctx := context.Background()
	pool := TestPool(t)

	t.Run("seeds exactly nine defaults", func(t *testing.T) {
		var count int
		err := pool.QueryRow(ctx, `
			SELECT COUNT(*) FROM categories WHERE is_default
		`).Scan(&count)
		require.NoError(t, err)
		require.Equal(t, 9, count)
	})

	t.Run("is idempotent", func(t *testing.T) {
		require.NoError(t, SeedCategories(ctx, pool))
		require.NoError(t, SeedCategories(ctx, pool))

		var count int
		err := pool.QueryRow(ctx, `
			SELECT COUNT(*) FROM categories WHERE is_default
		`).Scan(&count)
		require.NoError(t, err)
		require.Equal(t, 9, count)
	})

	t.Run("keeps seeded styling", func(t *testing.T) {
		var icon, color string
		err := pool.QueryRow(ctx, `
			SELECT icon, color FROM categories WHERE name = 'Food'
		`).Scan(&icon, &color)
		require.NoError(t, err)
		require.Equal(t, "fork.knife", icon)
		require.Equal(t, "#FF9500", color)
	})
}
