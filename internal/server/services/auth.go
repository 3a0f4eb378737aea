// Package services contains server-side business logic. This file implements
// AuthService, which orchestrates registration, login, refresh-token
// rotation, and logout on top of the credential and token primitives.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dsmirnov/authkeeper/internal/common"
	"github.com/dsmirnov/authkeeper/internal/logging"
	"github.com/dsmirnov/authkeeper/internal/server/auth"
	"github.com/dsmirnov/authkeeper/internal/server/config"
	"github.com/dsmirnov/authkeeper/internal/server/models"
	"github.com/dsmirnov/authkeeper/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Session is the result of a successful register/login/refresh: the
// principal plus a freshly minted token pair.
type Session struct {
	User   *models.User
	Tokens TokenPair
}

// AuthService provides authentication-related operations:
//   - Register: create a principal and open a session
//   - Login: verify credentials and open a session
//   - Refresh: rotate the refresh token and mint a new access token
//   - Logout: revoke the presented session
//   - CheckRefreshSession: the stateful revocation check used by middleware
type AuthService struct {
	db         *sql.DB
	repos      repomanager.RepositoryManager
	hasher     *auth.CredentialHasher
	tokens     *auth.TokenManager
	refreshTTL time.Duration
	logger     logging.Logger
}

// NewAuthService constructs an AuthService using repositories, the credential
// and token primitives, and server config.
func NewAuthService(db *sql.DB, repos repomanager.RepositoryManager, hasher *auth.CredentialHasher,
	tokens *auth.TokenManager, cfg *config.Config, logger logging.Logger) *AuthService {
	return &AuthService{
		db:         db,
		repos:      repos,
		hasher:     hasher,
		tokens:     tokens,
		refreshTTL: cfg.RefreshTokenValidityDuration,
		logger:     logger,
	}
}

// Register creates a principal with the default role and opens a session.
// The email pre-check is only a fast path: under concurrent duplicate
// submissions the users table's UNIQUE constraint is the real guarantee,
// and the repository maps its violation to common.ErrorAlreadyExists.
func (s *AuthService) Register(ctx context.Context, firstName, lastName, email, password string) (*Session, error) {
	repo := s.repos.Users(s.db)

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrorAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		s.logger.Error(ctx, "error checking existing email", "error", err)
		return nil, common.ErrorInternal
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error(ctx, "error hashing password", "error", err)
		return nil, common.ErrorInternal
	}

	user, err := repo.Create(ctx, &models.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleCustomer,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		s.logger.Error(ctx, "error creating user", "error", err)
		return nil, common.ErrorInternal
	}

	return s.openSession(ctx, user)
}

// Login verifies the email/password pair and opens a session. A missing
// user and a wrong password yield the same error so responses cannot be
// used for account enumeration.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.repos.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidCredentials
		}
		s.logger.Error(ctx, "error looking up user", "error", err)
		return nil, common.ErrorInternal
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrorInvalidCredentials
	}

	return s.openSession(ctx, user)
}

// Refresh rotates the session behind already-verified refresh claims:
// a new record and token pair are issued first, then the old record is
// deleted. If that delete fails the system briefly holds two valid
// sessions instead of zero; that is logged and tolerated.
func (s *AuthService) Refresh(ctx context.Context, claims *auth.RefreshClaims) (*Session, error) {
	userID, err := claims.UserID()
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	user, err := s.repos.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		s.logger.Error(ctx, "error looking up user", "error", err)
		return nil, common.ErrorInternal
	}

	session, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.repos.RefreshTokens(s.db).Delete(ctx, claims.RecordID); err != nil {
		s.logger.Warn(ctx, "rotation left the previous session record behind",
			"record_id", claims.RecordID, "error", err)
	}

	return session, nil
}

// Logout revokes the session referenced by already-verified refresh claims.
// Deleting an absent record is a no-op success, so duplicate logout calls
// are safe.
func (s *AuthService) Logout(ctx context.Context, claims *auth.RefreshClaims) error {
	if err := s.repos.RefreshTokens(s.db).Delete(ctx, claims.RecordID); err != nil {
		s.logger.Error(ctx, "error deleting refresh token record", "error", err)
		return common.ErrorInternal
	}
	return nil
}

// CheckRefreshSession verifies that the record referenced by the claims
// still exists, belongs to the same principal, and has not expired. A store
// failure counts as revoked: this check fails closed, never open.
func (s *AuthService) CheckRefreshSession(ctx context.Context, claims *auth.RefreshClaims) error {
	userID, err := claims.UserID()
	if err != nil {
		return common.ErrInvalidToken
	}

	record, err := s.repos.RefreshTokens(s.db).FindByIDAndUser(ctx, claims.RecordID, userID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "error checking refresh token record", "error", err)
		}
		return common.ErrTokenRevoked
	}
	if record.ExpiresAt.Before(time.Now()) {
		return common.ErrTokenRevoked
	}
	return nil
}

func (s *AuthService) openSession(ctx context.Context, user *models.User) (*Session, error) {
	access, err := s.tokens.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		s.logger.Error(ctx, "error issuing access token", "error", err)
		return nil, common.ErrorInternal
	}

	record, err := s.repos.RefreshTokens(s.db).Create(ctx, user.ID, s.refreshTTL)
	if err != nil {
		s.logger.Error(ctx, "error persisting refresh token record", "error", err)
		return nil, common.ErrorInternal
	}

	refresh, err := s.tokens.IssueRefreshToken(user.ID, user.Role, record.ID)
	if err != nil {
		s.logger.Error(ctx, "error issuing refresh token", "error", err)
		return nil, common.ErrorInternal
	}

	return &Session{
		User:   user,
		Tokens: TokenPair{AccessToken: access, RefreshToken: refresh},
	}, nil
}
