package auth

import (
	"context"
	"strings"
	"time"

	"cashierku_backend/internals/constants"
	helperAuth "cashierku_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const LocTokenExpiry = "token_exp" // time.Time

type AuthJWTOpts struct {
	Secret              string
	IsRevoked           func(ctx context.Context, rawToken string) (bool, error) // true if logged out
	AllowCookieFallback bool                                                     // access_token cookie when no Bearer
}

// AuthJWT verifies the HS256 access token and hydrates user_id, userRole and user_name locals.
func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: Secret is required")
	}

	return func(c *fiber.Ctx) error {
		raw := ""
		if authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); len(authz) > 7 && strings.EqualFold(authz[:7], "bearer ") {
			raw = strings.TrimSpace(authz[7:])
		} else if o.AllowCookieFallback {
			raw = strings.TrimSpace(c.Cookies("access_token"))
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		if o.IsRevoked != nil {
			if revoked, err := o.IsRevoked(c.UserContext(), raw); err == nil && revoked {
				return fiber.NewError(fiber.StatusUnauthorized, "Token revoked")
			}
		}

		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}
		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
		}

		id := strClaim(claims, "id")
		if id == "" {
			id = strClaim(claims, "sub")
		}
		if _, err := uuid.Parse(id); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token subject")
		}
		role := strings.ToLower(strClaim(claims, "role"))
		if !constants.IsValidRole(role) {
			return fiber.NewError(fiber.StatusForbidden, constants.UnknownRoleError(role))
		}

		c.Locals(helperAuth.LocUserID, id)
		c.Locals(helperAuth.LocUserRole, role)
		c.Locals(helperAuth.LocUserName, strClaim(claims, "name"))
		if exp, ok := claims["exp"].(float64); ok {
			c.Locals(LocTokenExpiry, time.Unix(int64(exp), 0))
		}
		return c.Next()
	}
}

func strClaim(m jwt.MapClaims, key string) string {
	if s, ok := m[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
