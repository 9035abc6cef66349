package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docshare/internal/auth"
	"docshare/internal/model"
	"docshare/internal/repository"
	repoMocks "docshare/internal/repository/mocks"
)

func testTokenIssuer() *auth.TokenIssuer {
	return auth.NewTokenIssuer("test-secret", time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path normalizes email and hashes password", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		svc := NewAuthService(mUsers, testTokenIssuer())

		mUsers.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.ID != "" && u.Email == "alice@example.com" && u.FullName == "Alice" &&
				u.PasswordHash != "" && u.PasswordHash != "s3cret" &&
				auth.ComparePassword("s3cret", u.PasswordHash)
		})).Return(&model.User{ID: "user-1", Email: "alice@example.com"}, nil)

		u, err := svc.Register(ctx, "  Alice@Example.COM ", "Alice", nil, "s3cret")

		require.NoError(t, err)
		assert.Equal(t, "user-1", u.ID)
		mUsers.AssertExpectations(t)
	})

	t.Run("missing fields", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		svc := NewAuthService(mUsers, testTokenIssuer())

		_, err := svc.Register(ctx, "", "Alice", nil, "s3cret")

		assert.Error(t, err)
		mUsers.AssertNotCalled(t, "Create")
	})

	t.Run("duplicate email", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		svc := NewAuthService(mUsers, testTokenIssuer())

		mUsers.On("Create", ctx, mock.Anything).Return(nil, repository.ErrDuplicate)

		u, err := svc.Register(ctx, "alice@example.com", "Alice", nil, "s3cret")

		assert.ErrorIs(t, err, ErrEmailTaken)
		assert.Nil(t, u)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	stored := &model.User{ID: "user-1", Email: "alice@example.com", PasswordHash: hash}

	t.Run("happy path returns a verifiable token", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		tokens := testTokenIssuer()
		svc := NewAuthService(mUsers, tokens)

		mUsers.On("FindByEmail", ctx, "alice@example.com").Return(stored, nil)

		token, err := svc.Login(ctx, "Alice@Example.com", "s3cret")

		require.NoError(t, err)
		userID, err := tokens.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", userID)
	})

	t.Run("unknown email", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		svc := NewAuthService(mUsers, testTokenIssuer())

		mUsers.On("FindByEmail", ctx, "ghost@example.com").Return(nil, sql.ErrNoRows)

		token, err := svc.Login(ctx, "ghost@example.com", "s3cret")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Empty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		svc := NewAuthService(mUsers, testTokenIssuer())

		mUsers.On("FindByEmail", ctx, "alice@example.com").Return(stored, nil)

		token, err := svc.Login(ctx, "alice@example.com", "wrong")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Empty(t, token)
	})
}
