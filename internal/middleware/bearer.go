package middleware

import (
	"errors"
	"strings"

	"sharebloom-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// IdentityClaims are issued by the external identity provider.
type IdentityClaims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

var errMissingSubject = errors.New("token has no subject")

// ParseIdentityToken verifies an HS256 token and returns its claims.
func ParseIdentityToken(token, secret string) (*IdentityClaims, error) {
	claims := &IdentityClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errMissingSubject
	}
	return claims, nil
}

// BearerIdentity accepts "Authorization: Bearer <jwt>" as an alternative to the
// session cookie. Without a secret the header is ignored.
func BearerIdentity(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if secret == "" || !strings.HasPrefix(header, "Bearer ") {
			return c.Next()
		}
		claims, err := ParseIdentityToken(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			log.Info().Str("trace_id", GetTraceID(c)).Err(err).Msg("bearer token rejected")
			return response.Unauthorized(c, "Invalid token")
		}
		SetUser(c, SessionUser{
			UserID: claims.Subject,
			Name:   claims.Name,
			Email:  claims.Email,
			Role:   claims.Role,
		})
		return c.Next()
	}
}
