package middleware

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"

	"movie-discovery-bff/internal/models"
	"movie-discovery-bff/internal/repository"
)

const userLocalsKey = "user"

// TokenVerifier resolves an access token to a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserLoader loads the account behind a verified token.
type UserLoader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// Auth requires a valid "Authorization: Bearer <jwt>" header and stores the
// token's user in the request locals.
func Auth(tokens TokenVerifier, users UserLoader) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "missing Authorization header")
		}

		scheme, token, _ := strings.Cut(authHeader, " ")
		if scheme != "Bearer" {
			return unauthorized(c, "invalid Authorization header format, expected 'Bearer <token>'")
		}

		token = strings.TrimSpace(token)
		if token == "" {
			return unauthorized(c, "empty bearer token")
		}

		userID, err := tokens.Verify(token)
		if err != nil {
			return unauthorized(c, "invalid or expired token")
		}

		user, err := users.FindByID(c.Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return unauthorized(c, "user no longer exists")
			}
			slog.Error("failed to load authenticated user", "user_id", userID, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal server error",
			})
		}

		c.Locals(userLocalsKey, user)
		return c.Next()
	}
}

// RequireRole rejects users whose role is not role. It must run after Auth.
func RequireRole(role string) fiber.Handler {
	return func(c fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return unauthorized(c, "authentication required")
		}
		if user.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "forbidden",
			})
		}
		return c.Next()
	}
}

// CurrentUser returns the user stored by Auth, or nil.
func CurrentUser(c fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalsKey).(*models.User)
	return user
}

// WithUser stores user in the request locals.
func WithUser(c fiber.Ctx, user *models.User) {
	c.Locals(userLocalsKey, user)
}

func unauthorized(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": msg,
	})
}
