package handlers

import (
	"qwirkle-server/services"

	"github.com/gofiber/fiber/v2"
)

type credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func SetupAuthRoutes(app *fiber.App, auth *services.AuthService) {
	app.Post("/auth/register", func(c *fiber.Ctx) error {
		var req credentials
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
		token, err := auth.Register(c.UserContext(), req.Login, req.Password)
		if err != nil {
			return RespondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"token": token,
			"login": services.NormalizeLogin(req.Login),
		})
	})

	app.Post("/auth/login", func(c *fiber.Ctx) error {
		var req credentials
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
		token, err := auth.Login(c.UserContext(), req.Login, req.Password)
		if err != nil {
			return RespondError(c, err)
		}
		return c.JSON(fiber.Map{"token": token, "login": services.NormalizeLogin(req.Login)})
	})
}
