package middleware

import (
	"catalog/app/catalog"
	"catalog/pkg/httperror"
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// NewIdentityMiddleware reads the caller identity forwarded by the gateway
// in the User-ID and User-Email headers and attaches it to the request
// context. Anonymous requests pass through unless required is set.
func NewIdentityMiddleware(required bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get("User-ID"))
		userEmail := strings.TrimSpace(c.Get("User-Email"))

		if userID == "" {
			if required {
				return unauthorized(c)
			}
			return c.Next()
		}

		userCtx := c.UserContext()
		if userCtx == nil {
			userCtx = context.Background()
		}

		c.SetUserContext(catalog.WithCaller(userCtx, catalog.Caller{
			ID:    userID,
			Email: userEmail,
		}))
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	err := httperror.Unauthorized(
		"catalog.identity.unauthorized",
		"Caller identity headers are missing",
		nil,
	)

	return c.Status(err.Status).JSON(fiber.Map{
		"code":    err.Code,
		"message": err.Message,
	})
}
