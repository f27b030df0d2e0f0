package handlers

import (
	"qwirkle-server/middleware"
	"qwirkle-server/services"

	"github.com/gofiber/fiber/v2"
)

type placeRequest struct {
	GameID uint `json:"gameId"`
	TileID uint `json:"tileId"`
	X      *int `json:"x"`
	Y      *int `json:"y"`
}

func SetupPlayRoutes(router fiber.Router, games *services.GameService) {
	router.Get("/players/:id/state", func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return badRequest(c, "invalid player id")
		}
		st, err := games.GetState(c.UserContext(), middleware.Login(c), id)
		if err != nil {
			return RespondError(c, err)
		}
		return c.JSON(st)
	})

	router.Post("/players/:id/place", func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return badRequest(c, "invalid player id")
		}
		var req placeRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
		if req.TileID == 0 || req.X == nil || req.Y == nil {
			return badRequest(c, "tileId, x and y are required")
		}
		res, err := games.PlaceTile(c.UserContext(), middleware.Login(c), req.GameID, id, req.TileID, *req.X, *req.Y)
		if err != nil {
			return RespondError(c, err)
		}
		return c.JSON(res)
	})

	router.Post("/players/:id/finish", func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return badRequest(c, "invalid player id")
		}
		res, err := games.FinishTurn(c.UserContext(), middleware.Login(c), id)
		if err != nil {
			return RespondError(c, err)
		}
		return c.JSON(res)
	})

	router.Post("/players/:id/swap", func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return badRequest(c, "invalid player id")
		}
		rack, err := games.SwapTiles(c.UserContext(), middleware.Login(c), id)
		if err != nil {
			return RespondError(c, err)
		}
		return c.JSON(fiber.Map{"myTiles": rack})
	})
}
