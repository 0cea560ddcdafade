package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ready(ctx context.Context) error
}

// HealthCheck reports 200 when the document store answers within two seconds, 503 otherwise.
//
// @Summary  Readiness check
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Failure  503  {object}  errorPayload
// @Router   /health [get]
func HealthCheck(p Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := p.Ready(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, codeUnavailable, "Dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
