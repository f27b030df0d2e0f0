package handlers

import (
	"qwirkle-server/middleware"
	"qwirkle-server/services"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes mounts every endpoint. Everything except /health and /auth
// needs a login token.
func SetupRoutes(app *fiber.App, games *services.GameService, auth *services.AuthService) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupAuthRoutes(app, auth)

	secured := app.Group("/", middleware.RequireLogin(auth, RespondError))
	SetupLobbyRoutes(secured, games)
	SetupPlayRoutes(secured, games)
}
