package jwt

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artem13815/library/pkg/blacklist"
)

const identityKey = "identity"

// NewAuthMiddleware returns a Fiber middleware that validates Bearer JWT
// (HS256) and rejects revoked tokens. On success it stores an Identity in
// the request locals; read it back with CurrentIdentity.
func NewAuthMiddleware(secret, expectedIssuer string, revoked blacklist.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := TokenFromHeader(c.Get("Authorization"))
		if tokenStr == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "missing or empty Authorization header"})
		}
		claims, err := Verify(tokenStr, secret, expectedIssuer)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "invalid or expired token"})
		}
		if claims.ID != "" {
			isRevoked, err := revoked.IsRevoked(c.Context(), claims.ID)
			if err != nil {
				return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "failed to verify token"})
			}
			if isRevoked {
				return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "token has been revoked"})
			}
		}
		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "invalid token claims"})
		}
		c.Locals(identityKey, Identity{UserID: userID, Username: claims.Username})
		return c.Next()
	}
}

// CurrentIdentity returns the Identity stored by the auth middleware.
func CurrentIdentity(c *fiber.Ctx) (Identity, bool) {
	id, ok := c.Locals(identityKey).(Identity)
	return id, ok
}

// TokenFromHeader extracts the raw token from an Authorization header.
// Supports both "Bearer <token>" and "<token>" (no prefix).
func TokenFromHeader(authHeader string) string {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return ""
	}
	if strings.Contains(authHeader, " ") {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		// Fallback: treat entire header as token (for non-standard clients)
	}
	return authHeader
}
