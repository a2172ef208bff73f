package auth

import (
	"errors"

	"sharebloom-backend/internal/pkg/apperr"
)

var (
	ErrEmailPasswordRequired = errors.New("Email and password are required")
	ErrInvalidEmail          = errors.New("Invalid Email")
	ErrIncorrectPassword     = errors.New("Incorrect Password")
	ErrNotAuthenticated      = errors.New("Not authenticated")

	ErrEmailTaken = apperr.Conflict("Email already registered")
)
