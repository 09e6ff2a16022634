package routes

import (
	"github.com/arnold/healthgoals-api/internal/handlers"
	"github.com/arnold/healthgoals-api/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type Handlers struct {
	Goals     *handlers.GoalHandler
	Sessions  *handlers.SessionHandler
	Hub       *handlers.Hub
	JWTSecret string
	// ActiveSession, when set, rejects tokens whose session is gone.
	ActiveSession middleware.SessionCheck
}

func Setup(app *fiber.App, h Handlers) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	api.Post("/sessions", h.Sessions.StartSession)

	api.Get("/biomarkers", handlers.GetBiomarkers)
	api.Get("/biomarkers/:name/action-plan", handlers.GetActionPlan)
	api.Get("/progress", handlers.GetProgress)

	protected := api.Group("/", middleware.Protected(h.JWTSecret, h.ActiveSession))

	goals := protected.Group("/goals")
	goals.Get("/", h.Goals.GetGoals)
	goals.Post("/", h.Goals.CreateGoal)
	goals.Get("/:id", h.Goals.GetGoal)
	goals.Put("/:id/measurement", h.Goals.UpdateMeasurement)
	goals.Post("/:id/actions/:actionId/toggle", h.Goals.ToggleActionItem)
	goals.Delete("/:id", h.Goals.DeleteGoal)

	// Device token for push notifications
	protected.Post("/device-token", h.Sessions.RegisterDeviceToken)

	// WebSocket for live goal updates
	app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	}, middleware.TokenFromQuery(h.JWTSecret, h.ActiveSession))
	app.Get("/ws/goals", websocket.New(h.Hub.HandleWebSocket))
}
