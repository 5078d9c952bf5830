package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"leaderboard-service/internal/model"
)

// ClaimPoints executes the claim transaction for the user in the path.
func (h *Handler) ClaimPoints(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid user id.",
		})
	}

	result, err := h.claimService.ClaimPoints(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":         fmt.Sprintf("Successfully claimed %d points for %s!", result.PointsClaimed, result.User.Username),
		"user":            result.User,
		"pointsClaimed":   result.PointsClaimed,
		"updatedRankings": result.Rankings,
	})
}

// ClaimHistory returns the user's claim history, newest first.
func (h *Handler) ClaimHistory(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid user id.",
		})
	}

	history, err := h.claimService.History(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}

	if history == nil {
		history = []model.ClaimHistory{}
	}

	return c.JSON(history)
}
