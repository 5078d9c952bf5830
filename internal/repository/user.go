// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"leaderboard-service/internal/model"
)

// Common errors for repository operations.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// UserRepository handles user data persistence.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create creates a new user with the given username and initial points.
// Returns ErrUsernameTaken if the username is already registered.
func (r *UserRepository) Create(ctx context.Context, username string, points int64) (*model.User, error) {
	const query = `
		INSERT INTO users (username, points, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id, username, points, created_at, updated_at
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, username, points).Scan(
		&user.ID,
		&user.Username,
		&user.Points,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// GetByID retrieves a user by ID.
// Returns ErrUserNotFound if the user does not exist.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	const query = `
		SELECT id, username, points, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Points,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetAllByPoints retrieves all users ordered by points descending.
// Tie order among equal point totals is not defined.
func (r *UserRepository) GetAllByPoints(ctx context.Context) ([]model.User, error) {
	const query = `
		SELECT id, username, points, created_at, updated_at
		FROM users
		ORDER BY points DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var user model.User
		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Points,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// IncrementPoints atomically adds amount to a user's points and returns
// the updated user. The read-modify-write happens in a single statement,
// so concurrent claims for the same user cannot lose updates.
// Returns ErrUserNotFound if the user does not exist.
func (r *UserRepository) IncrementPoints(ctx context.Context, id uuid.UUID, amount int64) (*model.User, error) {
	const query = `
		UPDATE users
		SET points = points + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, username, points, created_at, updated_at
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, id, amount).Scan(
		&user.ID,
		&user.Username,
		&user.Points,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to increment points: %w", err)
	}

	return &user, nil
}

// Exists checks if a user with the given ID exists.
func (r *UserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}

	return exists, nil
}
