package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const officialKey = "official_id"

// Middleware admits requests carrying a valid access token and records the
// official behind it for OfficialID.
func Middleware(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		officialID, err := svc.ValidateAccessToken(token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		c.Locals(officialKey, officialID)
		return c.Next()
	}
}

// OfficialID returns the official authenticated by Middleware, or "" on
// public routes.
func OfficialID(c *fiber.Ctx) string {
	id, _ := c.Locals(officialKey).(string)
	return id
}

// WithOfficial marks the request as made by officialID. Used by tests and
// by callers that authenticate out of band.
func WithOfficial(officialID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(officialKey, officialID)
		return c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
