// Package model defines the data models for the leaderboard service.
package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user with an accumulated point total.
// Usernames are unique across all users; points only ever grow through claims.
type User struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Points    int64     `db:"points" json:"points"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// RankedUser is a user annotated with a 1-based competition rank.
// Tied point totals share a rank; the next distinct total resumes at its
// 1-based position in the sorted order. Computed per request, never persisted.
type RankedUser struct {
	User
	Rank int `json:"rank"`
}

// ClaimHistory represents one point-claim event.
// Entries are append-only: written exactly once per successful claim,
// never updated or deleted.
type ClaimHistory struct {
	ID            uuid.UUID `db:"id" json:"id"`
	UserID        uuid.UUID `db:"user_id" json:"userId"`
	Username      string    `db:"username" json:"username,omitempty"`
	PointsClaimed int64     `db:"points_claimed" json:"pointsClaimed"`
	ClaimedAt     time.Time `db:"claimed_at" json:"claimedAt"`
}

// SeedUsernames returns the fixed set of usernames created by the
// initialize-users operation.
func SeedUsernames() []string {
	return []string{"Rahul", "Kamal", "Sanak", "Priya", "Amit", "Geeta", "Mohan", "Sara", "Vikram", "Neha"}
}
