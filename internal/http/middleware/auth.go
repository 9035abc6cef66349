package middleware

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"docshare/internal/auth"
	"docshare/internal/model"
	"docshare/internal/repository"
)

// UserLocalKey is the key used to store the authenticated user in Fiber's
// context locals.
const UserLocalKey = "current_user"

// BearerAuth validates the Authorization bearer token on every request,
// resolves it to a user record, and stores the user in context locals so
// handlers can pass it explicitly into service calls.
//
// Failures surface as 401 through the global error handler.
func BearerAuth(tokens *auth.TokenIssuer, users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return fiber.NewError(fiber.StatusUnauthorized, "missing or invalid token")
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing or invalid token")
		}

		userID, err := tokens.Verify(token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "missing or invalid token")
		}

		u, err := users.FindByID(c.UserContext(), userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fiber.NewError(fiber.StatusUnauthorized, "missing or invalid token")
			}
			return err
		}

		c.Locals(UserLocalKey, u)
		return c.Next()
	}
}

// UserFromCtx returns the authenticated user stored by BearerAuth, or nil if
// the request did not pass through it.
func UserFromCtx(c *fiber.Ctx) *model.User {
	if u, ok := c.Locals(UserLocalKey).(*model.User); ok {
		return u
	}
	return nil
}
