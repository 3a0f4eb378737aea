// Package tenants declares the repository contract for tenant organizations.
package tenants

import (
	"context"

	"github.com/dsmirnov/authkeeper/internal/server/models"
)

// Repository defines CRUD operations over the tenants table.
type Repository interface {
	// Create inserts a tenant and returns it with the generated id.
	Create(ctx context.Context, tenant *models.Tenant) (*models.Tenant, error)

	// GetByID returns the tenant with the given id, or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.Tenant, error)

	// List returns all tenants ordered by id.
	List(ctx context.Context) ([]*models.Tenant, error)

	// Update rewrites name and address. Missing id yields common.ErrorNotFound.
	Update(ctx context.Context, tenant *models.Tenant) error

	// Delete removes a tenant. Missing id yields common.ErrorNotFound.
	Delete(ctx context.Context, id int64) error
}
