package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"docshare/internal/service"
)

// Services bundles everything the HTTP layer depends on.
type Services struct {
	Auth       service.AuthService
	Documents  service.DocumentService
	Permission service.PermissionService
	Activity   service.ActivityService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app. The
// authGuard middleware resolves the bearer token to a user; everything
// except registration, login, probes, and docs sits behind it.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc Services, authGuard fiber.Handler) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/auth/register", Register(svc.Auth))
	app.Post("/auth/login", Login(svc.Auth))
	app.Get("/auth/me", authGuard, Me())

	documents := app.Group("/documents", authGuard)
	documents.Post("/upload", UploadDocument(svc.Documents))
	documents.Get("/my", MyDocuments(svc.Documents))
	documents.Get("/shared", SharedDocuments(svc.Documents))
	documents.Get("/:id", GetDocument(svc.Documents))
	documents.Get("/:id/download", DownloadDocument(svc.Documents))
	documents.Delete("/:id", DeleteDocument(svc.Documents))

	permissions := app.Group("/permissions", authGuard)
	permissions.Post("/request", RequestAccess(svc.Permission))
	permissions.Post("/grant", GrantAccess(svc.Permission))
	permissions.Get("/incoming", IncomingPermissions(svc.Permission))
	permissions.Get("/outgoing", OutgoingPermissions(svc.Permission))

	activity := app.Group("/activity", authGuard)
	activity.Get("/logs", ActivityLogs(svc.Activity))
	activity.Get("/summary", ActivitySummary(svc.Activity))
	activity.Post("/log-view", LogView(svc.Activity))
}
