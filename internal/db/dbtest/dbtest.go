// Package dbtest opens a migrated Postgres pool for repository tests and
// inserts the rows they depend on.
package dbtest

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/docspot/internal/db"
)

// EnvDSN names the variable holding the test database DSN.
const EnvDSN = "POSTGRES_TEST_DSN"

// Serializes migrations across test binaries sharing one database.
const migrateLockKey int64 = 730101

// Open skips the test unless EnvDSN is set, otherwise it returns a pool on
// a database with every embedded migration applied. Tests should insert
// rows with fresh ids rather than assume an empty database.
func Open(t testing.TB) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv(EnvDSN)
	if dsn == "" {
		t.Skip(EnvDSN + " not set")
	}

	ctx := context.Background()
	pool, err := db.ConnectPostgres(ctx, dsn, db.PoolOptions{MaxConns: 20})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	conn, err := pool.Acquire(ctx)
	require.NoError(t, err)
	defer conn.Release()

	_, err = conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, migrateLockKey)
	require.NoError(t, err)
	defer conn.Exec(ctx, `SELECT pg_advisory_unlock($1)`, migrateLockKey) //nolint:errcheck

	_, err = db.NewMigrator(pool, db.Migrations()).Up(ctx)
	require.NoError(t, err)

	return pool
}

// CreateUser inserts a verified account with a unique email.
func CreateUser(t testing.TB, pool *pgxpool.Pool, admin bool) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO users (id, name, email, password_hash, is_admin, is_verified)
		VALUES ($1, $2, $3, 'x', $4, TRUE)
	`, id, "user "+id.String()[:8], id.String()+"@example.com", admin)
	require.NoError(t, err)

	return id
}

// CreateDoctor inserts a doctor profile owned by userID.
func CreateDoctor(t testing.TB, pool *pgxpool.Pool, userID uuid.UUID, status string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO doctors (id, user_id, first_name, last_name, specialization, fee,
		                     open_time, close_time, status)
		VALUES ($1, $2, 'Ana', 'Silva', 'Cardiology', 100, '9:00 am', '5:00 pm', $3)
	`, id, userID, status)
	require.NoError(t, err)

	return id
}
