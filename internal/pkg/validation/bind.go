package validation

import (
	"sharebloom-backend/internal/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var ErrInvalidBody = apperr.Validation("Invalid request body")

// Parse decodes the request body into out. An empty body leaves out untouched.
func Parse(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return ErrInvalidBody
	}
	return nil
}

// Body parses the JSON body into out and validates it.
func Body(c *fiber.Ctx, out interface{}) error {
	if err := Parse(c, out); err != nil {
		return err
	}
	return Struct(out)
}

// PathUUID parses the named route parameter as a UUID.
func PathUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.Validation("Invalid "+name, apperr.FieldError{Field: name, Message: "must be a valid UUID"})
	}
	return id, nil
}
