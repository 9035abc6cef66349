package repository

import (
	"context"
	"time"

	"docshare/internal/model"
)

// PermissionRepository defines data access for access permissions using SQL
// queries only. Lifecycle rules (who may grant, lazy expiry) live in the
// service layer; the one storage-level rule is the partial unique index that
// admits at most one pending row per (document, requester) pair.
type PermissionRepository interface {
	// Create inserts a new permission row. Returns ErrDuplicate (wrapped)
	// when a pending row already exists for the (document, requester) pair.
	Create(ctx context.Context, p *model.AccessPermission) (*model.AccessPermission, error)

	// FindByID returns a permission by ID.
	FindByID(ctx context.Context, id string) (*model.AccessPermission, error)

	// FindApproved returns the most recently granted approved permission for
	// the (document, requester) pair whose kind is one of kinds, or
	// sql.ErrNoRows if none exists.
	FindApproved(ctx context.Context, documentID, requesterID string, kinds []model.PermissionKind) (*model.AccessPermission, error)

	// FindPending returns the pending permission for the (document, requester)
	// pair, or sql.ErrNoRows if none exists.
	FindPending(ctx context.Context, documentID, requesterID string) (*model.AccessPermission, error)

	// ListByOwner returns all permissions targeting documents owned by the
	// given user, newest request first.
	ListByOwner(ctx context.Context, ownerID string) ([]model.AccessPermission, error)

	// ListByRequester returns all permissions requested by the given user,
	// newest request first.
	ListByRequester(ctx context.Context, requesterID string) ([]model.AccessPermission, error)

	// ListApprovedByRequester returns the requester's approved permissions.
	ListApprovedByRequester(ctx context.Context, requesterID string) ([]model.AccessPermission, error)

	// UpdateDecision resolves a pending permission to approved or denied.
	UpdateDecision(ctx context.Context, id string, status model.PermissionStatus, grantedAt time.Time, expiresAt *time.Time, reason *string) error

	// MarkExpired transitions a permission to expired status.
	MarkExpired(ctx context.Context, id string) error

	// DeleteByDocument removes all permission rows for a document (cascade of
	// document deletion).
	DeleteByDocument(ctx context.Context, documentID string) error

	// CountGrantedByOwner counts approved permissions granted by the owner
	// since the given instant (filtered by granted_at).
	CountGrantedByOwner(ctx context.Context, ownerID string, since time.Time) (int, error)

	// CountGrantedToRequester counts approved permissions received by the
	// requester since the given instant (filtered by granted_at).
	CountGrantedToRequester(ctx context.Context, requesterID string, since time.Time) (int, error)

	// CountPendingByOwner counts pending requests addressed to the owner,
	// regardless of age.
	CountPendingByOwner(ctx context.Context, ownerID string) (int, error)
}
