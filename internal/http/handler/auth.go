package handler

import (
	"github.com/gofiber/fiber/v2"

	"docshare/internal/http/middleware"
	"docshare/internal/service"
)

type registerRequest struct {
	Email      string  `json:"email"`
	FullName   string  `json:"full_name"`
	Department *string `json:"department,omitempty"`
	Password   string  `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates a new user account.
func Register(authSvc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req registerRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if req.Email == "" || req.FullName == "" || req.Password == "" {
			return writeError(c, fiber.StatusBadRequest, "MISSING_FIELDS", "email, full_name and password are required")
		}

		u, err := authSvc.Register(c.UserContext(), req.Email, req.FullName, req.Department, req.Password)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(u)
	}
}

// Login exchanges form credentials (username/password) for a bearer token.
func Login(authSvc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := c.FormValue("username")
		password := c.FormValue("password")
		if email == "" || password == "" {
			return writeError(c, fiber.StatusBadRequest, "MISSING_CREDENTIALS", "username and password are required")
		}

		token, err := authSvc.Login(c.UserContext(), email, password)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(tokenResponse{AccessToken: token, TokenType: "bearer"})
	}
}

// Me returns the authenticated user.
func Me() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(middleware.UserFromCtx(c))
	}
}
