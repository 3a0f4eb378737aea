package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dsmirnov/authkeeper/internal/common"
	"github.com/dsmirnov/authkeeper/internal/logging"
	"github.com/dsmirnov/authkeeper/internal/server/models"
	"github.com/dsmirnov/authkeeper/internal/server/repositories/repomanager"
)

// TenantService implements tenant management.
type TenantService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger
}

// NewTenantService constructs a TenantService.
func NewTenantService(db *sql.DB, repos repomanager.RepositoryManager, logger logging.Logger) *TenantService {
	return &TenantService{db: db, repos: repos, logger: logger}
}

// Create registers a new tenant.
func (s *TenantService) Create(ctx context.Context, name, address string) (*models.Tenant, error) {
	tenant, err := s.repos.Tenants(s.db).Create(ctx, &models.Tenant{Name: name, Address: address})
	if err != nil {
		s.logger.Error(ctx, "error creating tenant", "error", err)
		return nil, common.ErrorInternal
	}
	return tenant, nil
}

// GetByID returns a single tenant.
func (s *TenantService) GetByID(ctx context.Context, id int64) (*models.Tenant, error) {
	tenant, err := s.repos.Tenants(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "error looking up tenant", "error", err)
		return nil, common.ErrorInternal
	}
	return tenant, nil
}

// List returns all tenants.
func (s *TenantService) List(ctx context.Context) ([]*models.Tenant, error) {
	result, err := s.repos.Tenants(s.db).List(ctx)
	if err != nil {
		s.logger.Error(ctx, "error listing tenants", "error", err)
		return nil, common.ErrorInternal
	}
	return result, nil
}

// Update rewrites a tenant's name and address.
func (s *TenantService) Update(ctx context.Context, id int64, name, address string) error {
	err := s.repos.Tenants(s.db).Update(ctx, &models.Tenant{ID: id, Name: name, Address: address})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "error updating tenant", "error", err)
		return common.ErrorInternal
	}
	return nil
}

// Delete removes a tenant. Users bound to it keep existing with their
// tenant reference cleared by the schema's ON DELETE SET NULL.
func (s *TenantService) Delete(ctx context.Context, id int64) error {
	err := s.repos.Tenants(s.db).Delete(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "error deleting tenant", "error", err)
		return common.ErrorInternal
	}
	return nil
}
