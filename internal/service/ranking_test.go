package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"leaderboard-service/internal/model"
)

func usersWithPoints(points ...int64) []model.User {
	users := make([]model.User, len(points))
	for i, p := range points {
		users[i] = model.User{Points: p}
	}
	return users
}

func ranksOf(ranked []model.RankedUser) []int {
	ranks := make([]int, len(ranked))
	for i, r := range ranked {
		ranks[i] = r.Rank
	}
	return ranks
}

func TestAssignRanks_DistinctPoints(t *testing.T) {
	ranked := assignRanks(usersWithPoints(90, 70, 50, 10))
	assert.Equal(t, []int{1, 2, 3, 4}, ranksOf(ranked))
}

func TestAssignRanks_TiesShareRank(t *testing.T) {
	// Tied top scores share rank 1, the next distinct score resumes at
	// its 1-based position.
	ranked := assignRanks(usersWithPoints(50, 50, 40))
	assert.Equal(t, []int{1, 1, 3}, ranksOf(ranked))
}

func TestAssignRanks_MultipleTieGroups(t *testing.T) {
	ranked := assignRanks(usersWithPoints(80, 80, 80, 60, 60, 20))
	assert.Equal(t, []int{1, 1, 1, 4, 4, 6}, ranksOf(ranked))
}

func TestAssignRanks_AllEqual(t *testing.T) {
	ranked := assignRanks(usersWithPoints(30, 30, 30))
	assert.Equal(t, []int{1, 1, 1}, ranksOf(ranked))
}

func TestAssignRanks_ZeroPoints(t *testing.T) {
	// New users start at 0; zero must rank like any other total.
	ranked := assignRanks(usersWithPoints(10, 0, 0))
	assert.Equal(t, []int{1, 2, 2}, ranksOf(ranked))
}

func TestAssignRanks_Empty(t *testing.T) {
	ranked := assignRanks(nil)
	assert.Empty(t, ranked)
}

func TestAssignRanks_SingleUser(t *testing.T) {
	ranked := assignRanks(usersWithPoints(0))
	assert.Equal(t, []int{1}, ranksOf(ranked))
}
