package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dsmirnov/authkeeper/internal/common"
	"github.com/dsmirnov/authkeeper/internal/dbx"
	"github.com/dsmirnov/authkeeper/internal/logging"
	"github.com/dsmirnov/authkeeper/internal/server/auth"
	"github.com/dsmirnov/authkeeper/internal/server/models"
	"github.com/dsmirnov/authkeeper/internal/server/repositories/repomanager"
)

// CreateUserInput carries the fields an administrator supplies when
// provisioning a user with an explicit role and optional tenant binding.
type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      models.Role
	TenantID  *int64
}

// UpdateUserInput carries the mutable fields of a user. Email and password
// are deliberately not updatable here: the email serves as the login
// identifier and password changes go through a separate flow.
type UpdateUserInput struct {
	FirstName string
	LastName  string
	Role      models.Role
	TenantID  *int64
}

// UserService implements administrative user management.
type UserService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	hasher *auth.CredentialHasher
	logger logging.Logger
}

// NewUserService constructs a UserService using repositories and the
// credential hasher.
func NewUserService(db *sql.DB, repos repomanager.RepositoryManager, hasher *auth.CredentialHasher, logger logging.Logger) *UserService {
	return &UserService{db: db, repos: repos, hasher: hasher, logger: logger}
}

// Create provisions a user with the given role. A duplicate email yields
// common.ErrorAlreadyExists; a tenant id that does not exist yields
// common.ErrorNotFound.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if !in.Role.Valid() {
		return nil, common.ErrorInternal
	}

	var tenantID sql.NullInt64
	if in.TenantID != nil {
		if _, err := s.repos.Tenants(s.db).GetByID(ctx, *in.TenantID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, common.ErrorNotFound
			}
			s.logger.Error(ctx, "error looking up tenant", "error", err)
			return nil, common.ErrorInternal
		}
		tenantID = sql.NullInt64{Int64: *in.TenantID, Valid: true}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.logger.Error(ctx, "error hashing password", "error", err)
		return nil, common.ErrorInternal
	}

	user, err := s.repos.Users(s.db).Create(ctx, &models.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		TenantID:     tenantID,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		s.logger.Error(ctx, "error creating user", "error", err)
		return nil, common.ErrorInternal
	}
	return user, nil
}

// GetByID returns a single user.
func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repos.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "error looking up user", "error", err)
		return nil, common.ErrorInternal
	}
	return user, nil
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	result, err := s.repos.Users(s.db).List(ctx)
	if err != nil {
		s.logger.Error(ctx, "error listing users", "error", err)
		return nil, common.ErrorInternal
	}
	return result, nil
}

// Update rewrites names, role, and tenant binding of an existing user.
func (s *UserService) Update(ctx context.Context, id int64, in UpdateUserInput) error {
	if !in.Role.Valid() {
		return common.ErrorInternal
	}

	var tenantID sql.NullInt64
	if in.TenantID != nil {
		tenantID = sql.NullInt64{Int64: *in.TenantID, Valid: true}
	}

	err := s.repos.Users(s.db).Update(ctx, &models.User{
		ID:        id,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      in.Role,
		TenantID:  tenantID,
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "error updating user", "error", err)
		return common.ErrorInternal
	}
	return nil
}

// Delete removes a user together with all their refresh-token records, so a
// deleted account cannot renew an old session. Both deletes run in one
// transaction.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.RefreshTokens(tx).DeleteAllForUser(ctx, id); err != nil {
			return err
		}
		return s.repos.Users(tx).Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "error deleting user", "error", err)
		return common.ErrorInternal
	}
	return nil
}
