package middleware

import (
	"sharebloom-backend/internal/application/policies/access"
	"sharebloom-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userLocal = "user"

// RequireAuth rejects requests without a session or bearer identity.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := CurrentActor(c); !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// GetUser returns the identity map from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// SetUser installs an identity map, used by bearer auth and tests.
func SetUser(c *fiber.Ctx, user SessionUser) {
	c.Locals(userLocal, user.toMap())
}

// CurrentActor converts the identity in Locals into an access.Actor.
func CurrentActor(c *fiber.Ctx) (access.Actor, bool) {
	m, ok := GetUser(c).(map[string]interface{})
	if !ok {
		return access.Actor{}, false
	}
	idStr, _ := m["user_id"].(string)
	role, _ := m["role"].(string)
	id, err := uuid.Parse(idStr)
	if err != nil || role == "" {
		return access.Actor{}, false
	}
	email, _ := m["email"].(string)
	name, _ := m["name"].(string)
	return access.Actor{ID: id, Role: role, Email: email, Name: name}, true
}
