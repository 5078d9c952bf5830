package service

import (
	"context"
	"fmt"

	"leaderboard-service/internal/model"
	"leaderboard-service/internal/repository"
)

// RankingService computes the ranked leaderboard view.
type RankingService struct {
	userRepo *repository.UserRepository
}

// NewRankingService creates a new RankingService instance.
func NewRankingService(userRepo *repository.UserRepository) *RankingService {
	return &RankingService{userRepo: userRepo}
}

// Rankings retrieves all users sorted by points descending and assigns
// competition ranks. Read-only; the result is computed fresh on every call.
func (s *RankingService) Rankings(ctx context.Context) ([]model.RankedUser, error) {
	users, err := s.userRepo.GetAllByPoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users for ranking: %w", err)
	}
	return assignRanks(users), nil
}

// assignRanks walks users (already sorted by points descending) and assigns
// competition ranks: tied point totals share a rank, and the next distinct
// total gets a rank equal to its 1-based position, so ties use up ranks
// without compacting them ([50,50,40] -> ranks [1,1,3]).
func assignRanks(users []model.User) []model.RankedUser {
	ranked := make([]model.RankedUser, len(users))
	currentRank := 1
	prevPoints := int64(-1) // below any valid point total
	for i, user := range users {
		if i == 0 || user.Points != prevPoints {
			currentRank = i + 1
		}
		ranked[i] = model.RankedUser{User: user, Rank: currentRank}
		prevPoints = user.Points
	}
	return ranked
}
