package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"leaderboard-service/internal/model"
)

// ClaimHistoryRepository handles claim history persistence.
// The history is append-only: entries are inserted once and never changed.
type ClaimHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewClaimHistoryRepository creates a new ClaimHistoryRepository instance.
func NewClaimHistoryRepository(pool *pgxpool.Pool) *ClaimHistoryRepository {
	return &ClaimHistoryRepository{pool: pool}
}

// Create records a claim of pointsClaimed for the given user.
func (r *ClaimHistoryRepository) Create(ctx context.Context, userID uuid.UUID, pointsClaimed int64) (*model.ClaimHistory, error) {
	const query = `
		INSERT INTO claim_history (user_id, points_claimed, claimed_at)
		VALUES ($1, $2, NOW())
		RETURNING id, user_id, points_claimed, claimed_at
	`

	var entry model.ClaimHistory
	err := r.pool.QueryRow(ctx, query, userID, pointsClaimed).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.PointsClaimed,
		&entry.ClaimedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create claim history entry: %w", err)
	}

	return &entry, nil
}

// GetByUserID retrieves all claim history entries for a user, newest first.
// Each entry carries the user's username for display.
func (r *ClaimHistoryRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.ClaimHistory, error) {
	const query = `
		SELECT h.id, h.user_id, u.username, h.points_claimed, h.claimed_at
		FROM claim_history h
		JOIN users u ON h.user_id = u.id
		WHERE h.user_id = $1
		ORDER BY h.claimed_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get claim history: %w", err)
	}
	defer rows.Close()

	var entries []model.ClaimHistory
	for rows.Next() {
		var entry model.ClaimHistory
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Username,
			&entry.PointsClaimed,
			&entry.ClaimedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan claim history entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating claim history: %w", err)
	}

	return entries, nil
}

// CountByUserID returns the number of claim history entries for a user.
func (r *ClaimHistoryRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	const query = `SELECT COUNT(*) FROM claim_history WHERE user_id = $1`

	var count int64
	err := r.pool.QueryRow(ctx, query, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count claim history: %w", err)
	}

	return count, nil
}
