package middleware

import (
	"database/sql"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docshare/internal/auth"
	"docshare/internal/model"
	"docshare/internal/repository/mocks"
)

func TestBearerAuth(t *testing.T) {
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)

	newApp := func(users *mocks.MockUserRepository) *fiber.App {
		app := fiber.New()
		app.Use(BearerAuth(tokens, users))
		app.Get("/whoami", func(c *fiber.Ctx) error {
			u := UserFromCtx(c)
			require.NotNil(t, u)
			return c.SendString(u.ID)
		})
		return app
	}

	t.Run("should reject missing header", func(t *testing.T) {
		users := new(mocks.MockUserRepository)
		app := newApp(users)

		req := httptest.NewRequest("GET", "/whoami", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		users.AssertNotCalled(t, "FindByID")
	})

	t.Run("should reject malformed header", func(t *testing.T) {
		users := new(mocks.MockUserRepository)
		app := newApp(users)

		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Basic abc123")
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("should reject invalid token", func(t *testing.T) {
		users := new(mocks.MockUserRepository)
		app := newApp(users)

		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer not-a-token")
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("should reject token for deleted user", func(t *testing.T) {
		token, err := tokens.Issue("gone-user")
		require.NoError(t, err)

		users := new(mocks.MockUserRepository)
		users.On("FindByID", mock.Anything, "gone-user").Return(nil, sql.ErrNoRows)
		app := newApp(users)

		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		users.AssertExpectations(t)
	})

	t.Run("should store user in locals", func(t *testing.T) {
		token, err := tokens.Issue("user-1")
		require.NoError(t, err)

		users := new(mocks.MockUserRepository)
		users.On("FindByID", mock.Anything, "user-1").
			Return(&model.User{ID: "user-1", Email: "a@example.com"}, nil)
		app := newApp(users)

		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		users.AssertExpectations(t)
	})
}
