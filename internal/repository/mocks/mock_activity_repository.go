package mocks

import (
	"context"
	"time"

	"docshare/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Create(ctx context.Context, entry *model.ActivityLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockActivityRepository) ListForDocument(ctx context.Context, documentID string) ([]model.ActivityLog, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ActivityLog), args.Error(1)
}

func (m *MockActivityRepository) ListForDocumentByUser(ctx context.Context, documentID, userID string) ([]model.ActivityLog, error) {
	args := m.Called(ctx, documentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ActivityLog), args.Error(1)
}

func (m *MockActivityRepository) ListVisibleTo(ctx context.Context, userID string) ([]model.ActivityLog, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ActivityLog), args.Error(1)
}

func (m *MockActivityRepository) ListByUserSince(ctx context.Context, userID string, since time.Time) ([]model.ActivityLog, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ActivityLog), args.Error(1)
}
