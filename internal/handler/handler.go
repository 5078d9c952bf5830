// Package handler provides HTTP handlers for the leaderboard API.
package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"leaderboard-service/internal/pkg/db"
	"leaderboard-service/internal/repository"
	"leaderboard-service/internal/service"
)

// Handler bundles the services behind the HTTP API.
type Handler struct {
	userService  *service.UserService
	claimService *service.ClaimService
	pool         *db.Pool
}

// New creates a new Handler instance.
func New(userService *service.UserService, claimService *service.ClaimService, pool *db.Pool) *Handler {
	return &Handler{
		userService:  userService,
		claimService: claimService,
		pool:         pool,
	}
}

// RegisterRoutes wires all API routes onto the fiber app.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/", h.Root)
	app.Get("/health", h.Health)

	api := app.Group("/api")
	api.Post("/initialize-users", h.InitializeUsers)
	api.Get("/users", h.ListUsers)
	api.Post("/users", h.AddUser)
	api.Post("/claim-points/:userId", h.ClaimPoints)
	api.Get("/claim-history/:userId", h.ClaimHistory)
}

// Root is a plain liveness probe.
func (h *Handler) Root(c *fiber.Ctx) error {
	return c.SendString("Leaderboard backend is running!")
}

// Health reports database connectivity and pool statistics.
func (h *Handler) Health(c *fiber.Ctx) error {
	if err := h.pool.HealthCheck(c.Context()); err != nil {
		log.Error().Err(err).Msg("Health check failed")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unhealthy",
		})
	}

	stats := h.pool.Stats()
	return c.JSON(fiber.Map{
		"status":         "ok",
		"total_conns":    stats.TotalConns(),
		"idle_conns":     stats.IdleConns(),
		"acquired_conns": stats.AcquiredConns(),
		"max_conns":      stats.MaxConns(),
	})
}

// respondError maps service and repository errors to HTTP responses.
// Unrecognized errors become a generic storage failure.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrUsernameRequired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Username is required.",
		})
	case errors.Is(err, repository.ErrUsernameTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Username already exists. Please choose a different one.",
		})
	case errors.Is(err, repository.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "User not found.",
		})
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("Request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Storage operation failed.",
		})
	}
}
