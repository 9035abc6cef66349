package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"docshare/internal/model"
	"docshare/internal/repository"
)

// PermissionService owns the access-permission lifecycle:
// pending → approved|denied on the owner's decision, approved → expired once
// the expiry passes. Expiry is evaluated lazily at read/check time rather
// than by a background sweep; staleness only matters at the moment access is
// attempted or displayed.
type PermissionService interface {
	// Request creates a pending permission for the actor on a document.
	// Fails with ErrNotFound if the document is absent, ErrAlreadyOwned if
	// the actor owns it, and ErrDuplicatePending if a pending request for
	// the pair already exists.
	Request(ctx context.Context, actor *model.User, documentID string, kind model.PermissionKind, reason *string) (*model.AccessPermission, error)

	// Grant resolves a pending request. Fails with ErrNotFound for an
	// unknown id and ErrForbidden unless the actor owns the permission.
	// expiresAt is stored only when approving.
	Grant(ctx context.Context, actor *model.User, requestID string, approve bool, expiresAt *time.Time, reason *string) error

	// CheckAccess returns nil if the actor may perform a required-kind
	// action on the document: owners always may; otherwise an approved,
	// unexpired permission of a satisfying kind is needed. An approved
	// permission whose expiry has passed is transitioned to expired as a
	// side effect and the check fails with ErrExpired.
	CheckAccess(ctx context.Context, actor *model.User, doc *model.Document, required model.PermissionKind) error

	// ListIncoming returns all permissions targeting the actor's documents,
	// across all statuses, newest first, after applying lazy expiry.
	ListIncoming(ctx context.Context, actor *model.User) ([]model.AccessPermission, error)

	// ListOutgoing returns all permissions the actor has requested, across
	// all statuses, newest first, after applying lazy expiry.
	ListOutgoing(ctx context.Context, actor *model.User) ([]model.AccessPermission, error)

	// SharedDocumentIDs returns the IDs of documents the actor holds a
	// currently valid approved permission for, after applying lazy expiry.
	SharedDocumentIDs(ctx context.Context, actor *model.User) ([]string, error)
}

type permissionService struct {
	permissions repository.PermissionRepository
	documents   repository.DocumentRepository
	activity    ActivityService
}

// NewPermissionService constructs a new PermissionService.
func NewPermissionService(permissions repository.PermissionRepository, documents repository.DocumentRepository, activity ActivityService) PermissionService {
	return &permissionService{permissions: permissions, documents: documents, activity: activity}
}

// kindsSatisfying maps a required kind to the permission kinds that satisfy
// it. A download requirement accepts download or edit; a view requirement
// accepts any approved permission; edit is exact.
func kindsSatisfying(required model.PermissionKind) []model.PermissionKind {
	switch required {
	case model.PermissionView:
		return []model.PermissionKind{model.PermissionView, model.PermissionDownload, model.PermissionEdit}
	case model.PermissionDownload:
		return []model.PermissionKind{model.PermissionDownload, model.PermissionEdit}
	default:
		return []model.PermissionKind{required}
	}
}

func (s *permissionService) Request(ctx context.Context, actor *model.User, documentID string, kind model.PermissionKind, reason *string) (*model.AccessPermission, error) {
	if documentID == "" {
		return nil, ErrIDRequired
	}
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}

	doc, err := s.documents.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if doc.OwnerID == actor.ID {
		return nil, ErrAlreadyOwned
	}

	// Friendly fast path; the partial unique index still closes the race
	// between this check and the insert.
	if _, err := s.permissions.FindPending(ctx, documentID, actor.ID); err == nil {
		return nil, ErrDuplicatePending
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	p := &model.AccessPermission{
		ID:             uuid.New().String(),
		DocumentID:     doc.ID,
		DocumentName:   doc.Filename,
		RequesterID:    actor.ID,
		RequesterName:  actor.FullName,
		OwnerID:        doc.OwnerID,
		PermissionType: kind,
		Status:         model.StatusPending,
		RequestedAt:    time.Now().UTC(),
		GrantReason:    reason,
	}
	stored, err := s.permissions.Create(ctx, p)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicatePending
		}
		return nil, err
	}

	if err := s.activity.Record(ctx, actor, doc.ID, doc.Filename, model.ActionRequestAccess, nil, map[string]any{
		"permission_type": string(kind),
	}); err != nil {
		logAppendFailure(model.ActionRequestAccess, doc.ID, err)
	}

	return stored, nil
}

func (s *permissionService) Grant(ctx context.Context, actor *model.User, requestID string, approve bool, expiresAt *time.Time, reason *string) error {
	if requestID == "" {
		return ErrIDRequired
	}

	p, err := s.permissions.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if p.OwnerID != actor.ID {
		return ErrForbidden
	}
	// Decisions are final: a denied or expired request cannot be flipped
	// back to approved, the requester has to ask again.
	if p.Status != model.StatusPending {
		return ErrAlreadyDecided
	}

	status := model.StatusDenied
	if approve {
		status = model.StatusApproved
	}
	// Expiry is only meaningful on an approval.
	var expiry *time.Time
	if approve {
		expiry = expiresAt
	}
	grantedAt := time.Now().UTC()
	if err := s.permissions.UpdateDecision(ctx, requestID, status, grantedAt, expiry, reason); err != nil {
		return err
	}

	if approve {
		metadata := map[string]any{
			"requester_id":    p.RequesterID,
			"permission_type": string(p.PermissionType),
		}
		if expiry != nil {
			metadata["expires_at"] = expiry.Format(time.RFC3339)
		}
		if err := s.activity.Record(ctx, actor, p.DocumentID, p.DocumentName, model.ActionGrantAccess, nil, metadata); err != nil {
			logAppendFailure(model.ActionGrantAccess, p.DocumentID, err)
		}
	}

	return nil
}

func (s *permissionService) CheckAccess(ctx context.Context, actor *model.User, doc *model.Document, required model.PermissionKind) error {
	if doc.OwnerID == actor.ID {
		return nil
	}

	p, err := s.permissions.FindApproved(ctx, doc.ID, actor.ID, kindsSatisfying(required))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrForbidden
		}
		return err
	}

	expired, err := s.expireIfNeeded(ctx, p, time.Now().UTC())
	if err != nil {
		return err
	}
	if expired {
		return ErrExpired
	}
	return nil
}

func (s *permissionService) ListIncoming(ctx context.Context, actor *model.User) ([]model.AccessPermission, error) {
	perms, err := s.permissions.ListByOwner(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return s.applyLazyExpiry(ctx, perms)
}

func (s *permissionService) ListOutgoing(ctx context.Context, actor *model.User) ([]model.AccessPermission, error) {
	perms, err := s.permissions.ListByRequester(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return s.applyLazyExpiry(ctx, perms)
}

func (s *permissionService) SharedDocumentIDs(ctx context.Context, actor *model.User) ([]string, error) {
	perms, err := s.permissions.ListApprovedByRequester(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	ids := make([]string, 0, len(perms))
	seen := make(map[string]bool)
	for i := range perms {
		expired, err := s.expireIfNeeded(ctx, &perms[i], now)
		if err != nil {
			return nil, err
		}
		if expired || seen[perms[i].DocumentID] {
			continue
		}
		seen[perms[i].DocumentID] = true
		ids = append(ids, perms[i].DocumentID)
	}
	return ids, nil
}

// applyLazyExpiry corrects any approved-but-lapsed rows to expired status,
// both in storage and in the returned slice.
func (s *permissionService) applyLazyExpiry(ctx context.Context, perms []model.AccessPermission) ([]model.AccessPermission, error) {
	now := time.Now().UTC()
	for i := range perms {
		if _, err := s.expireIfNeeded(ctx, &perms[i], now); err != nil {
			return nil, err
		}
	}
	return perms, nil
}

// expireIfNeeded transitions an approved permission whose expiry has passed
// to expired, mutating p in place. It reports whether p is now expired.
func (s *permissionService) expireIfNeeded(ctx context.Context, p *model.AccessPermission, now time.Time) (bool, error) {
	if p.Status == model.StatusExpired {
		return true, nil
	}
	if !p.ExpiredBy(now) {
		return false, nil
	}
	if err := s.permissions.MarkExpired(ctx, p.ID); err != nil {
		return false, err
	}
	p.Status = model.StatusExpired
	return true, nil
}
