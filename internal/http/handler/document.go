package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docshare/internal/http/middleware"
	"docshare/internal/service"
)

// UploadDocument accepts a multipart upload (field name: file) with optional
// description and category form fields.
func UploadDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		description := optionalFormValue(c, "description")
		category := optionalFormValue(c, "category")

		doc, err := docSvc.Upload(c.UserContext(), middleware.UserFromCtx(c), f, fh.Filename, ct, fh.Size, description, category)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// MyDocuments lists the caller's own documents.
func MyDocuments(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := docSvc.ListMine(c.UserContext(), middleware.UserFromCtx(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(docs)
	}
}

// SharedDocuments lists documents shared with the caller through currently
// valid approved permissions.
func SharedDocuments(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := docSvc.ListShared(c.UserContext(), middleware.UserFromCtx(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(docs)
	}
}

// GetDocument returns a single document's metadata.
func GetDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := docSvc.Get(c.UserContext(), middleware.UserFromCtx(c), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DownloadDocument streams the document content as an attachment.
func DownloadDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		rc, doc, err := docSvc.Download(c.UserContext(), middleware.UserFromCtx(c), id)
		if err != nil {
			return serviceError(c, err)
		}

		c.Set(fiber.HeaderContentType, doc.ContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.Filename))
		return c.SendStream(rc, int(doc.Size))
	}
}

// DeleteDocument removes a document, its stored object, and its permissions.
func DeleteDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := docSvc.Delete(c.UserContext(), middleware.UserFromCtx(c), id); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Document deleted successfully"})
	}
}

// optionalFormValue returns a pointer to a non-empty form value, or nil.
func optionalFormValue(c *fiber.Ctx, key string) *string {
	if v := c.FormValue(key); v != "" {
		return &v
	}
	return nil
}
