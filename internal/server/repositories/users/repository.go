// Package users declares the server-side repository contract for principals
// in persistent storage.
package users

import (
	"context"

	"github.com/dsmirnov/authkeeper/internal/server/models"
)

// Repository defines CRUD operations over the users table.
type Repository interface {
	// Create inserts a new user and returns it with the generated id.
	// A duplicate email yields common.ErrorAlreadyExists; the UNIQUE
	// constraint is the real guarantee under concurrent submissions.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail returns the user with the given email, or
	// common.ErrorNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns the user with the given id, or common.ErrorNotFound
	// when absent.
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// List returns all users ordered by id.
	List(ctx context.Context) ([]*models.User, error)

	// Update rewrites the mutable fields (names, role, tenant). Email and
	// password hash are not updatable through this method.
	Update(ctx context.Context, user *models.User) error

	// Delete removes the user row. Deleting an absent id returns
	// common.ErrorNotFound.
	Delete(ctx context.Context, id int64) error
}
