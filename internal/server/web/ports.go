// Package web exposes the HTTP surface: auth session endpoints, admin
// user/tenant management, and the token-checking middleware chain.
package web

import (
	"context"

	"github.com/dsmirnov/authkeeper/internal/server/auth"
	"github.com/dsmirnov/authkeeper/internal/server/models"
	"github.com/dsmirnov/authkeeper/internal/server/services"
)

// AuthSessions is the slice of the auth service the handlers depend on.
type AuthSessions interface {
	Register(ctx context.Context, firstName, lastName, email, password string) (*services.Session, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Refresh(ctx context.Context, claims *auth.RefreshClaims) (*services.Session, error)
	Logout(ctx context.Context, claims *auth.RefreshClaims) error
	CheckRefreshSession(ctx context.Context, claims *auth.RefreshClaims) error
}

// UserAdmin covers administrative user management plus the lookup used by
// the self endpoint.
type UserAdmin interface {
	Create(ctx context.Context, in services.CreateUserInput) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, id int64, in services.UpdateUserInput) error
	Delete(ctx context.Context, id int64) error
}

// TenantAdmin covers tenant management.
type TenantAdmin interface {
	Create(ctx context.Context, name, address string) (*models.Tenant, error)
	GetByID(ctx context.Context, id int64) (*models.Tenant, error)
	List(ctx context.Context) ([]*models.Tenant, error)
	Update(ctx context.Context, id int64, name, address string) error
	Delete(ctx context.Context, id int64) error
}

// TokenVerifier is the stateless part of the gate: pure signature/claims
// checks with no I/O.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*auth.AccessClaims, error)
	VerifyRefreshToken(token string) (*auth.RefreshClaims, error)
}
