package repository

import (
	"context"
	"time"

	"docshare/internal/model"
)

// ActivityRepository defines data access for the append-only activity log.
// Rows are only ever inserted and queried, never updated or deleted.
type ActivityRepository interface {
	// Create appends one activity entry.
	Create(ctx context.Context, entry *model.ActivityLog) error

	// ListForDocument returns all entries for a document, newest first.
	ListForDocument(ctx context.Context, documentID string) ([]model.ActivityLog, error)

	// ListForDocumentByUser returns the given user's entries for a document,
	// newest first.
	ListForDocumentByUser(ctx context.Context, documentID, userID string) ([]model.ActivityLog, error)

	// ListVisibleTo returns entries for documents the user owns plus the
	// user's own actions on any document, newest first.
	ListVisibleTo(ctx context.Context, userID string) ([]model.ActivityLog, error)

	// ListByUserSince returns the user's entries with timestamps at or after
	// since, oldest first. Ascending order keeps downstream aggregation
	// stable with respect to first occurrence.
	ListByUserSince(ctx context.Context, userID string, since time.Time) ([]model.ActivityLog, error)
}
