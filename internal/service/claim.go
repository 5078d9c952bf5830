package service

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"leaderboard-service/internal/model"
	"leaderboard-service/internal/repository"
)

// ClaimResult is the outcome of a successful point claim.
type ClaimResult struct {
	User          *model.User
	PointsClaimed int64
	Rankings      []model.RankedUser
}

// ClaimService executes point-claim transactions.
type ClaimService struct {
	userRepo  *repository.UserRepository
	claimRepo *repository.ClaimHistoryRepository
	ranking   *RankingService
	minPoints int64
	maxPoints int64
}

// NewClaimService creates a new ClaimService instance.
// Claims award a uniformly random amount in [minPoints, maxPoints].
func NewClaimService(
	userRepo *repository.UserRepository,
	claimRepo *repository.ClaimHistoryRepository,
	ranking *RankingService,
	minPoints, maxPoints int64,
) *ClaimService {
	return &ClaimService{
		userRepo:  userRepo,
		claimRepo: claimRepo,
		ranking:   ranking,
		minPoints: minPoints,
		maxPoints: maxPoints,
	}
}

// ClaimPoints draws a random amount, atomically adds it to the user's
// points, records a claim history entry, and returns the refreshed rankings.
// The increment runs before the history insert: if it fails, nothing is
// written anywhere. Returns repository.ErrUserNotFound for unknown users.
func (s *ClaimService) ClaimPoints(ctx context.Context, userID uuid.UUID) (*ClaimResult, error) {
	amount := drawAmount(s.minPoints, s.maxPoints)

	user, err := s.userRepo.IncrementPoints(ctx, userID, amount)
	if err != nil {
		return nil, err
	}

	if _, err := s.claimRepo.Create(ctx, userID, amount); err != nil {
		// Points were already applied; surface the failure rather than
		// leaving the caller unaware of the missing history entry.
		return nil, fmt.Errorf("points applied but history write failed: %w", err)
	}

	rankings, err := s.ranking.Rankings(ctx)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("username", user.Username).
		Int64("points_claimed", amount).
		Int64("points_total", user.Points).
		Msg("Points claimed")

	return &ClaimResult{
		User:          user,
		PointsClaimed: amount,
		Rankings:      rankings,
	}, nil
}

// History retrieves a user's claim history, newest first.
func (s *ClaimService) History(ctx context.Context, userID uuid.UUID) ([]model.ClaimHistory, error) {
	return s.claimRepo.GetByUserID(ctx, userID)
}

// drawAmount returns a uniformly random amount in [min, max].
func drawAmount(min, max int64) int64 {
	return rand.Int63n(max-min+1) + min
}
