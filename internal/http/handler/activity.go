package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"docshare/internal/http/middleware"
	"docshare/internal/service"
)

// ActivityLogs lists log entries visible to the caller, optionally filtered
// by document_id.
func ActivityLogs(actSvc service.ActivityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entries, err := actSvc.Logs(c.UserContext(), middleware.UserFromCtx(c), c.Query("document_id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(entries)
	}
}

// ActivitySummary returns the caller's trailing 7-day summary.
func ActivitySummary(actSvc service.ActivityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		summary, err := actSvc.WeeklySummary(c.UserContext(), middleware.UserFromCtx(c), time.Now().UTC())
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(summary)
	}
}

// LogView records that the caller viewed a document for a given duration.
// document_id and duration_seconds arrive as query parameters.
func LogView(actSvc service.ActivityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		documentID := c.Query("document_id")
		if documentID == "" {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "document_id is required")
		}
		raw := c.Query("duration_seconds")
		if raw == "" {
			return writeError(c, fiber.StatusBadRequest, "INVALID_DURATION", "duration_seconds is required")
		}
		duration, err := strconv.Atoi(raw)
		if err != nil || duration < 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_DURATION", "invalid duration_seconds")
		}

		if err := actSvc.LogView(c.UserContext(), middleware.UserFromCtx(c), documentID, duration); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "View logged"})
	}
}
