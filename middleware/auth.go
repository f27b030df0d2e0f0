package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const loginKey = "login"

// TokenResolver maps a bearer token to a login.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// RequireLogin rejects requests without a valid token and stores the
// caller's login in the request locals.
func RequireLogin(auth TokenResolver, onError func(*fiber.Ctx, error) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		login, err := auth.Resolve(c.UserContext(), TokenFrom(c))
		if err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Msg("[AUTH] rejected request")
			return onError(c, err)
		}
		c.Locals(loginKey, login)
		return c.Next()
	}
}

// TokenFrom finds the caller's token. Headers win over query parameters.
func TokenFrom(c *fiber.Ctx) string {
	if t := strings.TrimSpace(c.Get("X-Auth-Token")); t != "" {
		return t
	}
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		if t, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(t)
		}
	}
	if t := c.Query("token"); t != "" {
		return t
	}
	return c.Query("p_token")
}

// Login returns the login set by RequireLogin.
func Login(c *fiber.Ctx) string {
	login, _ := c.Locals(loginKey).(string)
	return login
}
