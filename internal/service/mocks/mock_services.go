package mocks

import (
	"context"
	"io"
	"time"

	"docshare/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, email, fullName string, department *string, password string) (*model.User, error) {
	args := m.Called(ctx, email, fullName, department, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, actor *model.User, r io.Reader, filename, contentType string, size int64, description, category *string) (*model.Document, error) {
	args := m.Called(ctx, actor, r, filename, contentType, size, description, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) ListMine(ctx context.Context, actor *model.User) ([]model.Document, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) ListShared(ctx context.Context, actor *model.User) ([]model.Document, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, actor *model.User, id string) (*model.Document, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Download(ctx context.Context, actor *model.User, id string) (io.ReadCloser, *model.Document, error) {
	args := m.Called(ctx, actor, id)
	var rc io.ReadCloser
	if args.Get(0) != nil {
		rc = args.Get(0).(io.ReadCloser)
	}
	var doc *model.Document
	if args.Get(1) != nil {
		doc = args.Get(1).(*model.Document)
	}
	return rc, doc, args.Error(2)
}

func (m *MockDocumentService) Delete(ctx context.Context, actor *model.User, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

type MockPermissionService struct {
	mock.Mock
}

func (m *MockPermissionService) Request(ctx context.Context, actor *model.User, documentID string, kind model.PermissionKind, reason *string) (*model.AccessPermission, error) {
	args := m.Called(ctx, actor, documentID, kind, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessPermission), args.Error(1)
}

func (m *MockPermissionService) Grant(ctx context.Context, actor *model.User, requestID string, approve bool, expiresAt *time.Time, reason *string) error {
	args := m.Called(ctx, actor, requestID, approve, expiresAt, reason)
	return args.Error(0)
}

func (m *MockPermissionService) CheckAccess(ctx context.Context, actor *model.User, doc *model.Document, required model.PermissionKind) error {
	args := m.Called(ctx, actor, doc, required)
	return args.Error(0)
}

func (m *MockPermissionService) ListIncoming(ctx context.Context, actor *model.User) ([]model.AccessPermission, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AccessPermission), args.Error(1)
}

func (m *MockPermissionService) ListOutgoing(ctx context.Context, actor *model.User) ([]model.AccessPermission, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AccessPermission), args.Error(1)
}

func (m *MockPermissionService) SharedDocumentIDs(ctx context.Context, actor *model.User) ([]string, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockActivityService struct {
	mock.Mock
}

func (m *MockActivityService) Record(ctx context.Context, actor *model.User, documentID, documentName string, action model.ActivityAction, durationSeconds *int, metadata map[string]any) error {
	args := m.Called(ctx, actor, documentID, documentName, action, durationSeconds, metadata)
	return args.Error(0)
}

func (m *MockActivityService) Logs(ctx context.Context, actor *model.User, documentID string) ([]model.ActivityLog, error) {
	args := m.Called(ctx, actor, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ActivityLog), args.Error(1)
}

func (m *MockActivityService) LogView(ctx context.Context, actor *model.User, documentID string, durationSeconds int) error {
	args := m.Called(ctx, actor, documentID, durationSeconds)
	return args.Error(0)
}

func (m *MockActivityService) WeeklySummary(ctx context.Context, actor *model.User, now time.Time) (*model.WeeklySummary, error) {
	args := m.Called(ctx, actor, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WeeklySummary), args.Error(1)
}
