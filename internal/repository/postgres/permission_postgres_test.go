package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"docshare/internal/model"
	"docshare/internal/repository"
)

func permissionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "document_id", "document_name", "requester_id", "requester_name",
		"owner_id", "permission_type", "status", "requested_at", "granted_at",
		"expires_at", "grant_reason",
	})
}

func pendingPermission(now time.Time) *model.AccessPermission {
	return &model.AccessPermission{
		ID:             "perm-1",
		DocumentID:     "doc-1",
		DocumentName:   "report.pdf",
		RequesterID:    "user-2",
		RequesterName:  "Bob",
		OwnerID:        "user-1",
		PermissionType: model.PermissionView,
		Status:         model.StatusPending,
		RequestedAt:    now,
	}
}

func TestPermissionPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewPermissionPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	p := pendingPermission(now)

	t.Run("success", func(t *testing.T) {
		rows := permissionRows().
			AddRow(p.ID, p.DocumentID, p.DocumentName, p.RequesterID, p.RequesterName,
				p.OwnerID, p.PermissionType, p.Status, p.RequestedAt, nil, nil, nil)

		mock.ExpectQuery("INSERT INTO access_permissions").
			WithArgs(p.ID, p.DocumentID, p.DocumentName, p.RequesterID, p.RequesterName,
				p.OwnerID, p.PermissionType, p.Status, p.RequestedAt, nil, nil, nil).
			WillReturnRows(rows)

		result, err := repo.Create(ctx, p)

		assert.NoError(t, err)
		assert.NotNil(t, result)
		assert.Equal(t, model.StatusPending, result.Status)
		assert.Nil(t, result.GrantedAt)
	})

	t.Run("concurrent duplicate pending", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO access_permissions").
			WithArgs(p.ID, p.DocumentID, p.DocumentName, p.RequesterID, p.RequesterName,
				p.OwnerID, p.PermissionType, p.Status, p.RequestedAt, nil, nil, nil).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_access_permissions_pending"})

		result, err := repo.Create(ctx, p)

		assert.Nil(t, result)
		assert.True(t, errors.Is(err, repository.ErrDuplicate))
	})
}

func TestPermissionPostgres_FindApproved(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewPermissionPostgres(db)
	ctx := context.Background()

	t.Run("matches any of the given kinds", func(t *testing.T) {
		granted := time.Now().UTC()
		rows := permissionRows().
			AddRow("perm-1", "doc-1", "report.pdf", "user-2", "Bob",
				"user-1", model.PermissionEdit, model.StatusApproved, granted.Add(-time.Hour), granted, nil, nil)

		mock.ExpectQuery(`SELECT (.+) FROM access_permissions WHERE document_id = \$1 AND requester_id = \$2 AND status = 'approved' AND permission_type IN \(\$3, \$4\)`).
			WithArgs("doc-1", "user-2", model.PermissionDownload, model.PermissionEdit).
			WillReturnRows(rows)

		p, err := repo.FindApproved(ctx, "doc-1", "user-2",
			[]model.PermissionKind{model.PermissionDownload, model.PermissionEdit})

		assert.NoError(t, err)
		assert.Equal(t, model.PermissionEdit, p.PermissionType)
	})

	t.Run("no kinds short-circuits", func(t *testing.T) {
		p, err := repo.FindApproved(ctx, "doc-1", "user-2", nil)

		assert.Nil(t, p)
		assert.True(t, IsNoRowsError(err))
	})

	t.Run("no approved row", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM access_permissions").
			WithArgs("doc-1", "user-2", model.PermissionView, model.PermissionDownload, model.PermissionEdit).
			WillReturnError(sql.ErrNoRows)

		p, err := repo.FindApproved(ctx, "doc-1", "user-2",
			[]model.PermissionKind{model.PermissionView, model.PermissionDownload, model.PermissionEdit})

		assert.Nil(t, p)
		assert.True(t, IsNoRowsError(err))
	})
}

func TestPermissionPostgres_FindPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewPermissionPostgres(db)
	ctx := context.Background()

	rows := permissionRows().
		AddRow("perm-1", "doc-1", "report.pdf", "user-2", "Bob",
			"user-1", model.PermissionView, model.StatusPending, time.Now(), nil, nil, nil)

	mock.ExpectQuery("SELECT (.+) FROM access_permissions WHERE document_id = (.+) AND requester_id = (.+) AND status = 'pending'").
		WithArgs("doc-1", "user-2").
		WillReturnRows(rows)

	p, err := repo.FindPending(ctx, "doc-1", "user-2")

	assert.NoError(t, err)
	assert.Equal(t, "perm-1", p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionPostgres_UpdateDecision(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewPermissionPostgres(db)
	ctx := context.Background()

	grantedAt := time.Now().UTC()
	expiresAt := grantedAt.Add(24 * time.Hour)
	reason := "quarterly review"

	mock.ExpectExec("UPDATE access_permissions SET status = (.+) WHERE id = ?").
		WithArgs("perm-1", model.StatusApproved, grantedAt, &expiresAt, &reason).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.UpdateDecision(ctx, "perm-1", model.StatusApproved, grantedAt, &expiresAt, &reason)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionPostgres_MarkExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewPermissionPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE access_permissions SET status = 'expired' WHERE id = ?").
		WithArgs("perm-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.MarkExpired(ctx, "perm-1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionPostgres_DeleteByDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewPermissionPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM access_permissions WHERE document_id = ?").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	err = repo.DeleteByDocument(ctx, "doc-1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionPostgres_Counts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewPermissionPostgres(db)
	ctx := context.Background()
	since := time.Now().UTC().Add(-7 * 24 * time.Hour)

	t.Run("granted by owner", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM access_permissions WHERE owner_id = (.+) AND status = 'approved'").
			WithArgs("user-1", since).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

		n, err := repo.CountGrantedByOwner(ctx, "user-1", since)

		assert.NoError(t, err)
		assert.Equal(t, 4, n)
	})

	t.Run("granted to requester", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM access_permissions WHERE requester_id = (.+) AND status = 'approved'").
			WithArgs("user-2", since).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		n, err := repo.CountGrantedToRequester(ctx, "user-2", since)

		assert.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("pending by owner", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM access_permissions WHERE owner_id = (.+) AND status = 'pending'").
			WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		n, err := repo.CountPendingByOwner(ctx, "user-1")

		assert.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}
