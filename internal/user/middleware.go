package user

import (
	"slices"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/wichananm65/arts-market-backend/internal/apperr"
)

var (
	ErrUnauthorized = apperr.Unauthorized("unauthorized")
	ErrRevoked      = apperr.Unauthorized("token has been revoked")
	ErrForbidden    = apperr.Forbidden("insufficient permissions")
)

// Protect verifies the bearer token and rejects tokens on the denylist.
func Protect(secret string, denylist Denylist) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: []byte(secret),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return ErrUnauthorized
		},
		SuccessHandler: func(c *fiber.Ctx) error {
			jti, _, err := tokenMetaFromCtx(c)
			if err != nil {
				return err
			}
			if jti != "" && denylist != nil {
				revoked, err := denylist.IsRevoked(c.UserContext(), jti)
				if err != nil {
					return apperr.Internal(err)
				}
				if revoked {
					return ErrRevoked
				}
			}
			return c.Next()
		},
	})
}

// RequireRole lets the request through only when the caller has one of roles.
func RequireRole(roles ...Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ident, err := IdentityFromCtx(c)
		if err != nil {
			return err
		}
		if !slices.Contains(roles, ident.Role) {
			return ErrForbidden
		}
		return c.Next()
	}
}
