package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docshare/internal/model"
)

func activityRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "user_name", "document_id", "document_name",
		"action", "ts", "duration_seconds", "metadata",
	})
}

func TestActivityPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewActivityPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("without metadata", func(t *testing.T) {
		entry := &model.ActivityLog{
			ID:           "log-1",
			UserID:       "user-1",
			UserName:     "Alice",
			DocumentID:   "doc-1",
			DocumentName: "report.pdf",
			Action:       model.ActionUpload,
			Timestamp:    now,
		}

		mock.ExpectExec("INSERT INTO activity_logs").
			WithArgs(entry.ID, entry.UserID, entry.UserName, entry.DocumentID, entry.DocumentName,
				entry.Action, entry.Timestamp, nil, nil).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(ctx, entry)

		assert.NoError(t, err)
	})

	t.Run("with metadata", func(t *testing.T) {
		duration := 45
		entry := &model.ActivityLog{
			ID:              "log-2",
			UserID:          "user-2",
			UserName:        "Bob",
			DocumentID:      "doc-1",
			DocumentName:    "report.pdf",
			Action:          model.ActionView,
			Timestamp:       now,
			DurationSeconds: &duration,
			Metadata:        map[string]any{"permission_type": "view"},
		}
		wantMetadata, err := json.Marshal(entry.Metadata)
		require.NoError(t, err)

		mock.ExpectExec("INSERT INTO activity_logs").
			WithArgs(entry.ID, entry.UserID, entry.UserName, entry.DocumentID, entry.DocumentName,
				entry.Action, entry.Timestamp, &duration, wantMetadata).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Create(ctx, entry)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestActivityPostgres_ListForDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewActivityPostgres(db)
	ctx := context.Background()

	rows := activityRows().
		AddRow("log-2", "user-2", "Bob", "doc-1", "report.pdf", model.ActionView, time.Now(), 30, []byte(`{"source":"web"}`)).
		AddRow("log-1", "user-1", "Alice", "doc-1", "report.pdf", model.ActionUpload, time.Now().Add(-time.Hour), nil, nil)

	mock.ExpectQuery("SELECT (.+) FROM activity_logs WHERE document_id = (.+) ORDER BY ts DESC").
		WithArgs("doc-1").
		WillReturnRows(rows)

	logs, err := repo.ListForDocument(ctx, "doc-1")

	assert.NoError(t, err)
	assert.Len(t, logs, 2)
	assert.Equal(t, model.ActionView, logs[0].Action)
	assert.Equal(t, map[string]any{"source": "web"}, logs[0].Metadata)
	assert.Nil(t, logs[1].Metadata)
	assert.Nil(t, logs[1].DurationSeconds)
}

func TestActivityPostgres_ListForDocumentByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewActivityPostgres(db)
	ctx := context.Background()

	rows := activityRows().
		AddRow("log-1", "user-2", "Bob", "doc-1", "report.pdf", model.ActionView, time.Now(), nil, nil)

	mock.ExpectQuery("SELECT (.+) FROM activity_logs WHERE document_id = (.+) AND user_id = ?").
		WithArgs("doc-1", "user-2").
		WillReturnRows(rows)

	logs, err := repo.ListForDocumentByUser(ctx, "doc-1", "user-2")

	assert.NoError(t, err)
	assert.Len(t, logs, 1)
	assert.Equal(t, "user-2", logs[0].UserID)
}

func TestActivityPostgres_ListVisibleTo(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewActivityPostgres(db)
	ctx := context.Background()

	rows := activityRows().
		AddRow("log-1", "user-2", "Bob", "doc-1", "report.pdf", model.ActionDownload, time.Now(), nil, nil)

	mock.ExpectQuery("SELECT (.+) FROM activity_logs WHERE document_id IN \\(SELECT id FROM documents WHERE owner_id = (.+)\\)").
		WithArgs("user-1").
		WillReturnRows(rows)

	logs, err := repo.ListVisibleTo(ctx, "user-1")

	assert.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestActivityPostgres_ListByUserSince(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewActivityPostgres(db)
	ctx := context.Background()
	since := time.Now().UTC().Add(-7 * 24 * time.Hour)

	rows := activityRows().
		AddRow("log-1", "user-1", "Alice", "doc-1", "report.pdf", model.ActionUpload, since.Add(time.Hour), nil, nil).
		AddRow("log-2", "user-1", "Alice", "doc-1", "report.pdf", model.ActionView, since.Add(2*time.Hour), 15, nil)

	mock.ExpectQuery("SELECT (.+) FROM activity_logs WHERE user_id = (.+) AND ts >= (.+) ORDER BY ts ASC").
		WithArgs("user-1", since).
		WillReturnRows(rows)

	logs, err := repo.ListByUserSince(ctx, "user-1", since)

	assert.NoError(t, err)
	assert.Len(t, logs, 2)
	assert.Equal(t, "log-1", logs[0].ID, "oldest entry first")
}
