package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"alfredoptarigan/resume-analyzer/internal/models"
)

const userIDKey = "user_id"

// NewAuthMiddleware validates an HS256 bearer token and stores its subject as the user ID.
func NewAuthMiddleware(secret string) fiber.Handler {
	secretBytes := []byte(secret)

	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		scheme, tokenStr, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenStr) == "" {
			return errorJSON(c, fiber.StatusUnauthorized, "Missing or malformed Authorization header")
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(strings.TrimSpace(tokenStr), claims, func(t *jwt.Token) (any, error) {
			return secretBytes, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
		if err != nil || !token.Valid {
			return errorJSON(c, fiber.StatusUnauthorized, "Invalid or expired token")
		}
		if claims.Subject == "" {
			return errorJSON(c, fiber.StatusUnauthorized, "Token has no subject")
		}

		c.Locals(userIDKey, claims.Subject)
		return c.Next()
	}
}

// UserID returns the authenticated user set by NewAuthMiddleware.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDKey).(string)
	return id
}

func errorJSON(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(models.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
