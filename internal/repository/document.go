package repository

import (
	"context"

	"docshare/internal/model"
)

// DocumentRepository defines data access for document metadata using SQL
// queries only. No business logic here, strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// ListByOwner returns all documents owned by the given user,
	// newest upload first.
	ListByOwner(ctx context.Context, ownerID string) ([]model.Document, error)

	// ListByIDs returns the documents whose IDs appear in ids. Missing IDs
	// are silently skipped.
	ListByIDs(ctx context.Context, ids []string) ([]model.Document, error)

	// Delete removes a document by ID. It returns nil if the row was deleted
	// or did not exist.
	Delete(ctx context.Context, id string) error
}
