package handlers

import (
	"geomaqui-os/internal/core/domain"
	"geomaqui-os/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// actorFromCtx builds the acting user from the claims the auth
// middleware stored in the request context
func actorFromCtx(c *fiber.Ctx) services.Actor {
	actor := services.Actor{}
	if v, ok := c.Locals("userID").(string); ok {
		actor.ID = v
	}
	if v, ok := c.Locals("userName").(string); ok {
		actor.Name = v
	}
	if v, ok := c.Locals("role").(string); ok {
		actor.Role = domain.Role(v)
	}
	return actor
}
