package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"docshare/internal/http/middleware"
	"docshare/internal/model"
	"docshare/internal/service"
)

type accessRequest struct {
	DocumentID     string  `json:"document_id"`
	PermissionType string  `json:"permission_type"`
	Reason         *string `json:"reason,omitempty"`
}

type accessGrant struct {
	RequestID string     `json:"request_id"`
	Grant     bool       `json:"grant"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Reason    *string    `json:"reason,omitempty"`
}

// RequestAccess creates a pending access request on someone else's document.
func RequestAccess(permSvc service.PermissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req accessRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		p, err := permSvc.Request(c.UserContext(), middleware.UserFromCtx(c), req.DocumentID, model.PermissionKind(req.PermissionType), req.Reason)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// GrantAccess resolves a pending request as its document's owner.
func GrantAccess(permSvc service.PermissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req accessGrant
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		if err := permSvc.Grant(c.UserContext(), middleware.UserFromCtx(c), req.RequestID, req.Grant, req.ExpiresAt, req.Reason); err != nil {
			return serviceError(c, err)
		}

		msg := "Access denied"
		if req.Grant {
			msg = "Access granted"
		}
		return c.JSON(fiber.Map{"message": msg})
	}
}

// IncomingPermissions lists requests targeting the caller's documents.
func IncomingPermissions(permSvc service.PermissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		perms, err := permSvc.ListIncoming(c.UserContext(), middleware.UserFromCtx(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(perms)
	}
}

// OutgoingPermissions lists requests the caller has made.
func OutgoingPermissions(permSvc service.PermissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		perms, err := permSvc.ListOutgoing(c.UserContext(), middleware.UserFromCtx(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(perms)
	}
}
