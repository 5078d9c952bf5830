package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// addUserRequest is the body for POST /api/users.
type addUserRequest struct {
	Username string `json:"username"`
}

// InitializeUsers seeds the fixed set of initial users with random points.
// Usernames that already exist are skipped; the response reports both counts.
func (h *Handler) InitializeUsers(c *fiber.Ctx) error {
	result, err := h.userService.SeedUsers(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	if len(result.Created) == 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Some users already exist. Database initialized partially or already exists.",
			"skipped": result.Skipped,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":       fmt.Sprintf("%d users initialized successfully.", len(result.Created)),
		"insertedUsers": result.Created,
		"skipped":       result.Skipped,
	})
}

// ListUsers returns the full ranked leaderboard.
func (h *Handler) ListUsers(c *fiber.Ctx) error {
	rankings, err := h.userService.Rankings(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rankings)
}

// AddUser registers a new user and returns the refreshed rankings.
func (h *Handler) AddUser(c *fiber.Ctx) error {
	var req addUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body.",
		})
	}

	user, err := h.userService.AddUser(c.Context(), req.Username)
	if err != nil {
		return respondError(c, err)
	}

	rankings, err := h.userService.Rankings(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":         "User added successfully!",
		"user":            user,
		"updatedRankings": rankings,
	})
}
