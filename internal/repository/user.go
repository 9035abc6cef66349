package repository

import (
	"context"

	"docshare/internal/model"
)

// UserRepository defines data access for user accounts using SQL queries only.
// No business logic here, strictly persistence operations.
type UserRepository interface {
	// Create inserts a new user row. Returns ErrDuplicate (wrapped) if the
	// email is already registered.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// FindByID returns a user by ID.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail returns a user by email address.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}
