// Package service provides business logic implementations.
package service

import (
	"context"
	"errors"
	"math/rand"
	"strings"

	"github.com/rs/zerolog/log"

	"leaderboard-service/internal/model"
	"leaderboard-service/internal/repository"
)

// Common errors for user operations.
var (
	ErrUsernameRequired = errors.New("username is required")
)

// SeedResult reports the outcome of seeding the initial user set.
// Seeding tolerates already-existing usernames, so the result can be partial.
type SeedResult struct {
	Created []model.User
	Skipped int
}

// UserService handles user registration and seeding.
type UserService struct {
	userRepo         *repository.UserRepository
	ranking          *RankingService
	maxInitialPoints int64
}

// NewUserService creates a new UserService instance.
// Seeded users start with a random point total in [0, maxInitialPoints).
func NewUserService(
	userRepo *repository.UserRepository,
	ranking *RankingService,
	maxInitialPoints int64,
) *UserService {
	if maxInitialPoints < 1 {
		maxInitialPoints = 1
	}
	return &UserService{
		userRepo:         userRepo,
		ranking:          ranking,
		maxInitialPoints: maxInitialPoints,
	}
}

// AddUser registers a new user with zero points.
// The username is whitespace-trimmed; an empty result fails with
// ErrUsernameRequired, a taken one with repository.ErrUsernameTaken.
func (s *UserService) AddUser(ctx context.Context, username string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}

	user, err := s.userRepo.Create(ctx, username, 0)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", user.ID.String()).
		Str("username", user.Username).
		Msg("User registered")

	return user, nil
}

// SeedUsers creates the fixed set of initial users with random starting
// points. Usernames that already exist are counted as skipped rather than
// failing the whole operation.
func (s *UserService) SeedUsers(ctx context.Context) (*SeedResult, error) {
	result := &SeedResult{}
	for _, name := range model.SeedUsernames() {
		user, err := s.userRepo.Create(ctx, name, rand.Int63n(s.maxInitialPoints))
		if err != nil {
			if errors.Is(err, repository.ErrUsernameTaken) {
				result.Skipped++
				continue
			}
			return nil, err
		}
		result.Created = append(result.Created, *user)
	}

	log.Info().
		Int("created", len(result.Created)).
		Int("skipped", result.Skipped).
		Msg("Initial users seeded")

	return result, nil
}

// Rankings returns the current ranked user list.
func (s *UserService) Rankings(ctx context.Context) ([]model.RankedUser, error) {
	return s.ranking.Rankings(ctx)
}
