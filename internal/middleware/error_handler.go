package middleware

import (
	"errors"

	"sharebloom-backend/internal/pkg/apperr"
	"sharebloom-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrorHandler is the global fiber error handler. Service errors that escape a
// handler are rendered by kind; fiber errors keep their status.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return response.Error(c, fe.Message, fe.Code, nil)
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return response.FromError(c, err)
	}
	log.Error().Err(err).Str("trace_id", GetTraceID(c)).Str("path", c.Path()).Msg("unhandled error")
	return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
}
