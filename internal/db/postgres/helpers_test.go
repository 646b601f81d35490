package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"Murmur/internal/core/users"
	"Murmur/internal/db/migrations"
)

// setupTestDB connects to TEST_DATABASE_URL, migrates, and empties every table.
// Tests are skipped when no database is configured.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err, "Failed to connect to test database")
	db.SetMaxOpenConns(25)

	require.NoError(t, migrations.Up(db), "Failed to run migrations")

	_, err = db.Exec(`TRUNCATE feed_entries, likes, posts, follows, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Failed to close database: %v", err)
		}
	})
	return db
}

func createTestUser(t *testing.T, db *sql.DB, username string) *users.User {
	t.Helper()
	user, err := NewUserRepository(db).Create(context.Background(), &users.User{Username: username})
	require.NoError(t, err)
	return user
}
