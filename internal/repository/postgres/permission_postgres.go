package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"docshare/internal/model"
	"docshare/internal/repository"
)

const permissionColumns = `id, document_id, document_name, requester_id, requester_name, owner_id, permission_type, status, requested_at, granted_at, expires_at, grant_reason`

// PermissionPostgres is a PostgreSQL implementation of
// repository.PermissionRepository. The partial unique index
// uq_access_permissions_pending guarantees at most one pending row per
// (document, requester) pair even under concurrent inserts.
type PermissionPostgres struct {
	db *sql.DB
}

// NewPermissionPostgres creates a new PermissionPostgres repository.
func NewPermissionPostgres(db *sql.DB) *PermissionPostgres {
	return &PermissionPostgres{db: db}
}

var _ repository.PermissionRepository = (*PermissionPostgres)(nil)

// Create inserts a new permission row and returns the stored record.
// A concurrent duplicate pending insert surfaces as repository.ErrDuplicate.
func (r *PermissionPostgres) Create(ctx context.Context, p *model.AccessPermission) (*model.AccessPermission, error) {
	const q = `
		INSERT INTO access_permissions (` + permissionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + permissionColumns
	row := r.db.QueryRowContext(ctx, q,
		p.ID,
		p.DocumentID,
		p.DocumentName,
		p.RequesterID,
		p.RequesterName,
		p.OwnerID,
		p.PermissionType,
		p.Status,
		p.RequestedAt,
		p.GrantedAt,
		p.ExpiresAt,
		p.GrantReason,
	)
	out, err := scanPermission(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: pending request exists for document %s", repository.ErrDuplicate, p.DocumentID)
		}
		return nil, err
	}
	return out, nil
}

// FindByID fetches a single permission by its ID.
func (r *PermissionPostgres) FindByID(ctx context.Context, id string) (*model.AccessPermission, error) {
	const q = `
		SELECT ` + permissionColumns + `
		FROM access_permissions
		WHERE id = $1
	`
	return scanPermission(r.db.QueryRowContext(ctx, q, id))
}

// FindApproved returns the most recently granted approved permission for the
// pair whose kind is one of kinds.
func (r *PermissionPostgres) FindApproved(ctx context.Context, documentID, requesterID string, kinds []model.PermissionKind) (*model.AccessPermission, error) {
	if len(kinds) == 0 {
		return nil, sql.ErrNoRows
	}
	q := `
		SELECT ` + permissionColumns + `
		FROM access_permissions
		WHERE document_id = $1 AND requester_id = $2 AND status = 'approved'
		  AND permission_type IN (` + placeholders(3, len(kinds)) + `)
		ORDER BY granted_at DESC NULLS LAST
		LIMIT 1
	`
	args := []any{documentID, requesterID}
	for _, k := range kinds {
		args = append(args, k)
	}
	return scanPermission(r.db.QueryRowContext(ctx, q, args...))
}

// FindPending returns the pending permission for the pair, if any.
func (r *PermissionPostgres) FindPending(ctx context.Context, documentID, requesterID string) (*model.AccessPermission, error) {
	const q = `
		SELECT ` + permissionColumns + `
		FROM access_permissions
		WHERE document_id = $1 AND requester_id = $2 AND status = 'pending'
	`
	return scanPermission(r.db.QueryRowContext(ctx, q, documentID, requesterID))
}

// ListByOwner returns all permissions owned by the given user, newest first.
func (r *PermissionPostgres) ListByOwner(ctx context.Context, ownerID string) ([]model.AccessPermission, error) {
	const q = `
		SELECT ` + permissionColumns + `
		FROM access_permissions
		WHERE owner_id = $1
		ORDER BY requested_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	return collectPermissions(rows)
}

// ListByRequester returns all permissions requested by the given user,
// newest first.
func (r *PermissionPostgres) ListByRequester(ctx context.Context, requesterID string) ([]model.AccessPermission, error) {
	const q = `
		SELECT ` + permissionColumns + `
		FROM access_permissions
		WHERE requester_id = $1
		ORDER BY requested_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, requesterID)
	if err != nil {
		return nil, err
	}
	return collectPermissions(rows)
}

// ListApprovedByRequester returns the requester's approved permissions.
func (r *PermissionPostgres) ListApprovedByRequester(ctx context.Context, requesterID string) ([]model.AccessPermission, error) {
	const q = `
		SELECT ` + permissionColumns + `
		FROM access_permissions
		WHERE requester_id = $1 AND status = 'approved'
		ORDER BY requested_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, requesterID)
	if err != nil {
		return nil, err
	}
	return collectPermissions(rows)
}

// UpdateDecision resolves a permission to approved or denied.
func (r *PermissionPostgres) UpdateDecision(ctx context.Context, id string, status model.PermissionStatus, grantedAt time.Time, expiresAt *time.Time, reason *string) error {
	const q = `
		UPDATE access_permissions
		SET status = $2, granted_at = $3, expires_at = $4, grant_reason = $5
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, q, id, status, grantedAt, expiresAt, reason)
	return err
}

// MarkExpired transitions a permission to expired status.
func (r *PermissionPostgres) MarkExpired(ctx context.Context, id string) error {
	const q = `UPDATE access_permissions SET status = 'expired' WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// DeleteByDocument removes all permission rows for a document.
func (r *PermissionPostgres) DeleteByDocument(ctx context.Context, documentID string) error {
	const q = `DELETE FROM access_permissions WHERE document_id = $1`
	_, err := r.db.ExecContext(ctx, q, documentID)
	return err
}

// CountGrantedByOwner counts approvals granted by the owner since the given instant.
func (r *PermissionPostgres) CountGrantedByOwner(ctx context.Context, ownerID string, since time.Time) (int, error) {
	const q = `
		SELECT COUNT(*) FROM access_permissions
		WHERE owner_id = $1 AND status = 'approved' AND granted_at >= $2
	`
	var n int
	err := r.db.QueryRowContext(ctx, q, ownerID, since).Scan(&n)
	return n, err
}

// CountGrantedToRequester counts approvals received by the requester since
// the given instant.
func (r *PermissionPostgres) CountGrantedToRequester(ctx context.Context, requesterID string, since time.Time) (int, error) {
	const q = `
		SELECT COUNT(*) FROM access_permissions
		WHERE requester_id = $1 AND status = 'approved' AND granted_at >= $2
	`
	var n int
	err := r.db.QueryRowContext(ctx, q, requesterID, since).Scan(&n)
	return n, err
}

// CountPendingByOwner counts pending requests addressed to the owner.
func (r *PermissionPostgres) CountPendingByOwner(ctx context.Context, ownerID string) (int, error) {
	const q = `
		SELECT COUNT(*) FROM access_permissions
		WHERE owner_id = $1 AND status = 'pending'
	`
	var n int
	err := r.db.QueryRowContext(ctx, q, ownerID).Scan(&n)
	return n, err
}

func scanPermission(row *sql.Row) (*model.AccessPermission, error) {
	var p model.AccessPermission
	if err := row.Scan(
		&p.ID,
		&p.DocumentID,
		&p.DocumentName,
		&p.RequesterID,
		&p.RequesterName,
		&p.OwnerID,
		&p.PermissionType,
		&p.Status,
		&p.RequestedAt,
		&p.GrantedAt,
		&p.ExpiresAt,
		&p.GrantReason,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func collectPermissions(rows *sql.Rows) ([]model.AccessPermission, error) {
	defer rows.Close()

	items := make([]model.AccessPermission, 0)
	for rows.Next() {
		var p model.AccessPermission
		if err := rows.Scan(
			&p.ID,
			&p.DocumentID,
			&p.DocumentName,
			&p.RequesterID,
			&p.RequesterName,
			&p.OwnerID,
			&p.PermissionType,
			&p.Status,
			&p.RequestedAt,
			&p.GrantedAt,
			&p.ExpiresAt,
			&p.GrantReason,
		); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
