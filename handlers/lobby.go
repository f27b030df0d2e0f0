package handlers

import (
	"qwirkle-server/middleware"
	"qwirkle-server/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLobbyRoutes(router fiber.Router, games *services.GameService) {
	router.Get("/games/open", func(c *fiber.Ctx) error {
		list, err := games.ListOpenGames(c.UserContext(), middleware.Login(c))
		if err != nil {
			return RespondError(c, err)
		}
		return c.JSON(list)
	})

	router.Get("/games/mine", func(c *fiber.Ctx) error {
		list, err := games.MyGames(c.UserContext(), middleware.Login(c))
		if err != nil {
			return RespondError(c, err)
		}
		return c.JSON(list)
	})

	router.Post("/games", func(c *fiber.Ctx) error {
		var in services.CreateGameInput
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&in); err != nil {
				return badRequest(c, "invalid request body")
			}
		}
		seat, err := games.CreateGame(c.UserContext(), middleware.Login(c), in)
		if err != nil {
			return RespondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(seat)
	})

	router.Post("/games/:id/join", func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return badRequest(c, "invalid game id")
		}
		seat, err := games.JoinGame(c.UserContext(), middleware.Login(c), id)
		if err != nil {
			return RespondError(c, err)
		}
		if seat.Joined {
			return c.Status(fiber.StatusCreated).JSON(seat)
		}
		return c.JSON(seat)
	})

	router.Delete("/games/:id", func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return badRequest(c, "invalid game id")
		}
		if err := games.DeleteGame(c.UserContext(), middleware.Login(c), id); err != nil {
			return RespondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
