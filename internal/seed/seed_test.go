package seed

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alexedwards/argon2id"
	"github.com/stretchr/testify/require"

	"github.com/joaolangeloh/3decom/internal/db"
	"github.com/joaolangeloh/3decom/internal/migrations"
)

func TestRunIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "seed-test.db"))
	require.NoError(t, err, "open sqlite database")
	defer database.Close()

	require.NoError(t, migrations.Up(database), "run migrations")

	cfg := Config{
		AdminEmail:    "admin@3decom.com.br",
		AdminPassword: "12345",
	}

	for i := 0; i < 5; i++ {
		stats, err := Run(ctx, database, cfg)
		require.NoErrorf(t, err, "run seed (iteration=%d)", i)
		if i == 0 {
			require.Equal(t, 6, stats.Inserts, "inserts in first run")
			continue
		}
		require.Zerof(t, stats.Inserts, "inserts in iteration %d", i)
	}

	assertCount(t, database, `SELECT COUNT(*) FROM users WHERE email = ?`, "admin@3decom.com.br", 1)
	assertCount(t, database, `SELECT COUNT(*) FROM preferences WHERE id = 1`, nil, 1)
	assertCount(t, database, `SELECT COUNT(*) FROM materials`, nil, 3)
	assertCount(t, database, `SELECT COUNT(*) FROM machines WHERE name = ?`, "Bambu Lab A1 Mini", 1)

	var hash string
	require.NoError(t, database.QueryRow(`SELECT password_hash FROM users WHERE email = ?`, "admin@3decom.com.br").Scan(&hash))
	match, err := argon2id.ComparePasswordAndHash("12345", hash)
	require.NoError(t, err)
	require.True(t, match, "expected admin hash to match password")
}

func TestRunSkipsAdminWithoutCredentials(t *testing.T) {
	ctx := context.Background()

	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "seed-noadmin.db"))
	require.NoError(t, err)
	defer database.Close()
	require.NoError(t, migrations.Up(database))

	stats, err := Run(ctx, database, Config{})
	require.NoError(t, err)
	require.Equal(t, 5, stats.Inserts)
	assertCount(t, database, `SELECT COUNT(*) FROM users`, nil, 0)
}

func assertCount(t *testing.T, database *sql.DB, query string, args any, expected int) {
	t.Helper()

	var count int
	var err error
	switch v := args.(type) {
	case nil:
		err = database.QueryRow(query).Scan(&count)
	case []any:
		err = database.QueryRow(query, v...).Scan(&count)
	default:
		err = database.QueryRow(query, v).Scan(&count)
	}
	require.NoError(t, err, "count query failed")
	require.Equal(t, expected, count)
}
