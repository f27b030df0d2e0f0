package handlers

import (
	"errors"

	"qwirkle-server/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

var statusByKind = map[services.Kind]int{
	services.KindUnauthenticated: fiber.StatusUnauthorized,
	services.KindForbidden:       fiber.StatusForbidden,
	services.KindNotFound:        fiber.StatusNotFound,
	services.KindConflict:        fiber.StatusConflict,
	services.KindInvalidInput:    fiber.StatusBadRequest,
	services.KindRuleViolation:   fiber.StatusUnprocessableEntity,
	services.KindInternal:        fiber.StatusInternalServerError,
}

// RespondError writes err as {"error", "kind", "reason"}. Internal causes are
// logged, never sent.
func RespondError(c *fiber.Ctx, err error) error {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		svcErr = &services.Error{Kind: services.KindInternal, Msg: "internal error", Err: err}
	}
	status, ok := statusByKind[svcErr.Kind]
	if !ok {
		status = fiber.StatusInternalServerError
	}

	body := fiber.Map{"error": svcErr.Msg, "kind": svcErr.Kind}
	if svcErr.Kind == services.KindInternal {
		log.Error().Err(err).Str("path", c.Path()).Msg("internal error")
		body["error"] = "internal error"
	} else if reason := svcErr.Reason(); reason != "" {
		body["reason"] = reason
	}
	return c.Status(status).JSON(body)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return RespondError(c, &services.Error{Kind: services.KindInvalidInput, Msg: msg})
}

func idParam(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}
