package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"docshare/internal/model"
	"docshare/internal/repository"
)

const activityColumns = `id, user_id, user_name, document_id, document_name, action, ts, duration_seconds, metadata`

// ActivityPostgres is a PostgreSQL implementation of
// repository.ActivityRepository. The table is append-only; there are no
// update or delete statements in this file on purpose.
type ActivityPostgres struct {
	db *sql.DB
}

// NewActivityPostgres creates a new ActivityPostgres repository.
func NewActivityPostgres(db *sql.DB) *ActivityPostgres {
	return &ActivityPostgres{db: db}
}

var _ repository.ActivityRepository = (*ActivityPostgres)(nil)

// Create appends one activity entry.
func (r *ActivityPostgres) Create(ctx context.Context, entry *model.ActivityLog) error {
	const q = `
		INSERT INTO activity_logs (` + activityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	// A missing metadata map must land as a true SQL NULL in the jsonb
	// column, so the variable is typed any rather than []byte.
	var metadata any
	if entry.Metadata != nil {
		b, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
		metadata = b
	}
	_, err := r.db.ExecContext(ctx, q,
		entry.ID,
		entry.UserID,
		entry.UserName,
		entry.DocumentID,
		entry.DocumentName,
		entry.Action,
		entry.Timestamp,
		entry.DurationSeconds,
		metadata,
	)
	return err
}

// ListForDocument returns all entries for a document, newest first.
func (r *ActivityPostgres) ListForDocument(ctx context.Context, documentID string) ([]model.ActivityLog, error) {
	const q = `
		SELECT ` + activityColumns + `
		FROM activity_logs
		WHERE document_id = $1
		ORDER BY ts DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	return collectActivityLogs(rows)
}

// ListForDocumentByUser returns the user's own entries for a document,
// newest first.
func (r *ActivityPostgres) ListForDocumentByUser(ctx context.Context, documentID, userID string) ([]model.ActivityLog, error) {
	const q = `
		SELECT ` + activityColumns + `
		FROM activity_logs
		WHERE document_id = $1 AND user_id = $2
		ORDER BY ts DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, documentID, userID)
	if err != nil {
		return nil, err
	}
	return collectActivityLogs(rows)
}

// ListVisibleTo returns entries for documents the user owns plus the user's
// own actions anywhere, newest first.
func (r *ActivityPostgres) ListVisibleTo(ctx context.Context, userID string) ([]model.ActivityLog, error) {
	const q = `
		SELECT ` + activityColumns + `
		FROM activity_logs
		WHERE document_id IN (SELECT id FROM documents WHERE owner_id = $1)
		   OR user_id = $1
		ORDER BY ts DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	return collectActivityLogs(rows)
}

// ListByUserSince returns the user's entries since the given instant,
// oldest first.
func (r *ActivityPostgres) ListByUserSince(ctx context.Context, userID string, since time.Time) ([]model.ActivityLog, error) {
	const q = `
		SELECT ` + activityColumns + `
		FROM activity_logs
		WHERE user_id = $1 AND ts >= $2
		ORDER BY ts ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, userID, since)
	if err != nil {
		return nil, err
	}
	return collectActivityLogs(rows)
}

func collectActivityLogs(rows *sql.Rows) ([]model.ActivityLog, error) {
	defer rows.Close()

	items := make([]model.ActivityLog, 0)
	for rows.Next() {
		var (
			entry    model.ActivityLog
			metadata []byte
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.UserName,
			&entry.DocumentID,
			&entry.DocumentName,
			&entry.Action,
			&entry.Timestamp,
			&entry.DurationSeconds,
			&metadata,
		); err != nil {
			return nil, err
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal metadata: %w", err)
			}
		}
		items = append(items, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
