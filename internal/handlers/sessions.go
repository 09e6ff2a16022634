package handlers

import (
	"errors"
	"log/slog"

	"github.com/arnold/healthgoals-api/internal/middleware"
	"github.com/arnold/healthgoals-api/internal/models"
	"github.com/arnold/healthgoals-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

type SessionHandler struct {
	sessions  *services.SessionService
	goals     *services.GoalService
	jwtSecret string
}

func NewSessionHandler(sessions *services.SessionService, goals *services.GoalService, jwtSecret string) *SessionHandler {
	return &SessionHandler{
		sessions:  sessions,
		goals:     goals,
		jwtSecret: jwtSecret,
	}
}

func (h *SessionHandler) StartSession(c *fiber.Ctx) error {
	session, err := h.sessions.Start()
	if err != nil {
		slog.Error("failed to start session", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to start session",
		})
	}

	token, err := middleware.GenerateToken(h.jwtSecret, session.ID, h.sessions.TTL())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	if err := h.goals.SessionStarted(c.UserContext(), session.ID); err != nil {
		slog.Warn("failed to seed demo goals", "error", err, "session_id", session.ID)
	}

	return c.Status(fiber.StatusCreated).JSON(models.SessionResponse{
		Token:   token,
		Session: session,
	})
}

func (h *SessionHandler) RegisterDeviceToken(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)

	var req models.DeviceTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	err := h.sessions.RegisterDeviceToken(sessionID, req.Token)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"message": "Device token registered"})
	case errors.Is(err, services.ErrInvalidDeviceToken):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Token is required",
		})
	case errors.Is(err, services.ErrSessionNotFound), errors.Is(err, services.ErrSessionExpired):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Session not found",
		})
	default:
		slog.Error("failed to register device token", "error", err, "session_id", sessionID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to register device token",
		})
	}
}
