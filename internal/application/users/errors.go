package users

import "sharebloom-backend/internal/pkg/apperr"

var (
	ErrUserNotFound        = apperr.NotFound("User not found")
	ErrEmailTaken          = apperr.Conflict("Email already registered")
	ErrNoValidFields       = apperr.Validation("No valid update fields provided")
	ErrInvalidRole         = apperr.Validation("Invalid role", apperr.FieldError{Field: "role", Message: "must be one of: admin, donor, recipient, logistics"})
	ErrCannotChangeOwnRole = apperr.Conflict("Cannot change your own role")
)
