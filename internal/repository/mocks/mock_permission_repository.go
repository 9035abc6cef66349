package mocks

import (
	"context"
	"time"

	"docshare/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockPermissionRepository struct {
	mock.Mock
}

func (m *MockPermissionRepository) Create(ctx context.Context, p *model.AccessPermission) (*model.AccessPermission, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessPermission), args.Error(1)
}

func (m *MockPermissionRepository) FindByID(ctx context.Context, id string) (*model.AccessPermission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessPermission), args.Error(1)
}

func (m *MockPermissionRepository) FindApproved(ctx context.Context, documentID, requesterID string, kinds []model.PermissionKind) (*model.AccessPermission, error) {
	args := m.Called(ctx, documentID, requesterID, kinds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessPermission), args.Error(1)
}

func (m *MockPermissionRepository) FindPending(ctx context.Context, documentID, requesterID string) (*model.AccessPermission, error) {
	args := m.Called(ctx, documentID, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessPermission), args.Error(1)
}

func (m *MockPermissionRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.AccessPermission, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AccessPermission), args.Error(1)
}

func (m *MockPermissionRepository) ListByRequester(ctx context.Context, requesterID string) ([]model.AccessPermission, error) {
	args := m.Called(ctx, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AccessPermission), args.Error(1)
}

func (m *MockPermissionRepository) ListApprovedByRequester(ctx context.Context, requesterID string) ([]model.AccessPermission, error) {
	args := m.Called(ctx, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AccessPermission), args.Error(1)
}

func (m *MockPermissionRepository) UpdateDecision(ctx context.Context, id string, status model.PermissionStatus, grantedAt time.Time, expiresAt *time.Time, reason *string) error {
	args := m.Called(ctx, id, status, grantedAt, expiresAt, reason)
	return args.Error(0)
}

func (m *MockPermissionRepository) MarkExpired(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPermissionRepository) DeleteByDocument(ctx context.Context, documentID string) error {
	args := m.Called(ctx, documentID)
	return args.Error(0)
}

func (m *MockPermissionRepository) CountGrantedByOwner(ctx context.Context, ownerID string, since time.Time) (int, error) {
	args := m.Called(ctx, ownerID, since)
	return args.Int(0), args.Error(1)
}

func (m *MockPermissionRepository) CountGrantedToRequester(ctx context.Context, requesterID string, since time.Time) (int, error) {
	args := m.Called(ctx, requesterID, since)
	return args.Int(0), args.Error(1)
}

func (m *MockPermissionRepository) CountPendingByOwner(ctx context.Context, ownerID string) (int, error) {
	args := m.Called(ctx, ownerID)
	return args.Int(0), args.Error(1)
}
