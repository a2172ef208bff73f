package middleware

import (
	"fmt"

	"sharebloom-backend/internal/application/policies/access"
	"sharebloom-backend/internal/pkg/apperr"
	"sharebloom-backend/internal/pkg/constants"
	"sharebloom-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthorizePermission checks the actor's role against constants.PermissionRoles.
// An unconfigured permission is an internal error; a role outside the table
// gets the same not_authorized error the service guard returns.
func AuthorizePermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := CurrentActor(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		roles, ok := constants.PermissionRoles[permission]
		if !ok || len(roles) == 0 {
			return response.FromError(c, apperr.Internal(fmt.Errorf("permission %q has no roles configured", permission)))
		}
		if !constants.AllowedRole(permission, actor.Role) {
			return response.FromError(c, access.ErrRoleNotAllowed)
		}
		return c.Next()
	}
}
