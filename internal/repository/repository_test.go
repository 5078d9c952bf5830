// Package repository provides data access layer implementations.
// Tests use testcontainers-go to spin up a PostgreSQL container.
package repository

import (
	"context"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// checkDockerAvailable checks if Docker is available and running
func checkDockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	err := cmd.Run()
	return err == nil
}

// setupTestDB creates a PostgreSQL container and returns a connection pool
// Skips the test if Docker is not available
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if !checkDockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}

	ctx := context.Background()

	// Create PostgreSQL container
	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	// Get connection string
	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Create connection pool
	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	// Run migrations
	err = runMigrations(ctx, pool)
	require.NoError(t, err)

	// Return cleanup function
	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// runMigrations applies the database schema
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	// Create users table
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			username VARCHAR(255) NOT NULL UNIQUE,
			points BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return err
	}

	// Create claim history table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS claim_history (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			points_claimed BIGINT NOT NULL,
			claimed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

// ============================================================================
// UserRepository Tests
// ============================================================================

func TestUserRepository_Create(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	// Test creating a new user
	user, err := repo.Create(ctx, "alice", 0)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, int64(0), user.Points)
	assert.False(t, user.CreatedAt.IsZero())
	assert.False(t, user.UpdatedAt.IsZero())
}

func TestUserRepository_Create_DuplicateUsername(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	existing, err := repo.Create(ctx, "bob", 42)
	require.NoError(t, err)

	// Second insert with the same username must fail with the duplicate
	// sentinel, not a generic error
	_, err = repo.Create(ctx, "bob", 0)
	assert.ErrorIs(t, err, ErrUsernameTaken)

	// The existing user's points must be untouched
	got, err := repo.GetByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.Points)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_IncrementPoints(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	user, err := repo.Create(ctx, "carol", 10)
	require.NoError(t, err)

	updated, err := repo.IncrementPoints(ctx, user.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(17), updated.Points)
	assert.Equal(t, user.ID, updated.ID)

	// The increment must be visible to subsequent reads
	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(17), got.Points)
}

func TestUserRepository_IncrementPoints_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	_, err := repo.IncrementPoints(ctx, uuid.New(), 5)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_ConcurrentIncrements(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	user, err := repo.Create(ctx, "dave", 100)
	require.NoError(t, err)

	// Two independent callers increment the same user concurrently; the
	// single-statement read-modify-write must not lose either update.
	const workers = 10
	const perWorker = int64(3)

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.IncrementPoints(ctx, user.ID, perWorker)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100)+workers*perWorker, got.Points)
}

func TestUserRepository_GetAllByPoints(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	_, err := repo.Create(ctx, "low", 5)
	require.NoError(t, err)
	_, err = repo.Create(ctx, "high", 90)
	require.NoError(t, err)
	_, err = repo.Create(ctx, "mid", 40)
	require.NoError(t, err)

	users, err := repo.GetAllByPoints(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)

	assert.Equal(t, "high", users[0].Username)
	assert.Equal(t, "mid", users[1].Username)
	assert.Equal(t, "low", users[2].Username)
}

func TestUserRepository_Exists(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	user, err := repo.Create(ctx, "erin", 0)
	require.NoError(t, err)

	exists, err := repo.Exists(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)
}

// ============================================================================
// ClaimHistoryRepository Tests
// ============================================================================

func TestClaimHistoryRepository_Create(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	claimRepo := NewClaimHistoryRepository(pool)
	ctx := context.Background()

	user, err := userRepo.Create(ctx, "frank", 0)
	require.NoError(t, err)

	entry, err := claimRepo.Create(ctx, user.ID, 8)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.Equal(t, user.ID, entry.UserID)
	assert.Equal(t, int64(8), entry.PointsClaimed)
	assert.False(t, entry.ClaimedAt.IsZero())
}

func TestClaimHistoryRepository_GetByUserID_NewestFirst(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	claimRepo := NewClaimHistoryRepository(pool)
	ctx := context.Background()

	user, err := userRepo.Create(ctx, "grace", 0)
	require.NoError(t, err)

	// Claims of 3, 7, 2 in that chronological order. Distinct insert
	// timestamps matter for the ordering assertion.
	for _, amount := range []int64{3, 7, 2} {
		_, err := claimRepo.Create(ctx, user.ID, amount)
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)
	}

	entries, err := claimRepo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Most recent first: [2, 7, 3]
	assert.Equal(t, int64(2), entries[0].PointsClaimed)
	assert.Equal(t, int64(7), entries[1].PointsClaimed)
	assert.Equal(t, int64(3), entries[2].PointsClaimed)

	// Each entry carries the username for display
	for _, entry := range entries {
		assert.Equal(t, "grace", entry.Username)
	}
}

func TestClaimHistoryRepository_GetByUserID_Empty(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	claimRepo := NewClaimHistoryRepository(pool)
	ctx := context.Background()

	user, err := userRepo.Create(ctx, "heidi", 0)
	require.NoError(t, err)

	entries, err := claimRepo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClaimHistoryRepository_CountByUserID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	claimRepo := NewClaimHistoryRepository(pool)
	ctx := context.Background()

	user, err := userRepo.Create(ctx, "ivan", 0)
	require.NoError(t, err)

	count, err := claimRepo.CountByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	_, err = claimRepo.Create(ctx, user.ID, 4)
	require.NoError(t, err)

	count, err = claimRepo.CountByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
