package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pardismasoud-hue/pishgam/internal/domain"
	apperrors "github.com/pardismasoud-hue/pishgam/pkg/errorutil"
)

// RequireActor resolves the effective actor for a route group and stores it
// for handlers. It must run after AuthMiddleware.Handle.
func RequireActor(as domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		actor, err := ResolveActor(*principal, as, func(name string) string { return c.Get(name) })
		if err != nil {
			return err
		}
		c.Locals(actorKey, actor)
		return c.Next()
	}
}
