package services

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"database/sql"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"

	"github.com/dsmirnov/authkeeper/internal/common"
	"github.com/dsmirnov/authkeeper/internal/dbx"
	"github.com/dsmirnov/authkeeper/internal/logging"
	"github.com/dsmirnov/authkeeper/internal/server/auth"
	"github.com/dsmirnov/authkeeper/internal/server/config"
	"github.com/dsmirnov/authkeeper/internal/server/models"
	refreshtokensrepo "github.com/dsmirnov/authkeeper/internal/server/repositories/refreshtokens"
	"github.com/dsmirnov/authkeeper/internal/server/repositories/repomanager"
	tenantsrepo "github.com/dsmirnov/authkeeper/internal/server/repositories/tenants"
	usersrepo "github.com/dsmirnov/authkeeper/internal/server/repositories/users"
)

// --- helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func newTestTokenManager(t *testing.T) *auth.TokenManager {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("rsa.GenerateKey error: %v", err)
	}
	keys, err := auth.NewKeys(key, nil, []byte("test-refresh-secret"))
	if err != nil {
		t.Fatalf("NewKeys error: %v", err)
	}
	return auth.NewTokenManager(keys, "auth-service", time.Hour, 2*time.Hour)
}

func newAuthService(t *testing.T, db *sql.DB, rm repomanager.RepositoryManager) *AuthService {
	t.Helper()
	cfg := &config.Config{RefreshTokenValidityDuration: 2 * time.Hour}
	hasher := auth.NewCredentialHasher(4) // min cost keeps tests fast
	return NewAuthService(db, rm, hasher, newTestTokenManager(t), cfg, logging.NewJSON(io.Discard))
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	byEmailOut *models.User
	byEmailErr error

	byIDOut *models.User
	byIDErr error

	listOut []*models.User
	listErr error

	updateErr error
	deleteErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}
func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.byEmailErr != nil {
		return nil, f.byEmailErr
	}
	return f.byEmailOut, nil
}
func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byIDOut, nil
}
func (f *fakeUsersRepo) List(ctx context.Context) ([]*models.User, error) {
	return f.listOut, f.listErr
}
func (f *fakeUsersRepo) Update(ctx context.Context, u *models.User) error { return f.updateErr }
func (f *fakeUsersRepo) Delete(ctx context.Context, id int64) error       { return f.deleteErr }

type fakeRefreshRepo struct {
	createOut *models.RefreshToken
	createErr error

	findOut *models.RefreshToken
	findErr error

	deleted   []string
	deleteErr error

	deleteAllErr error
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID int64, validity time.Duration) (*models.RefreshToken, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return &models.RefreshToken{
		ID:        "11111111-2222-3333-4444-555555555555",
		UserID:    userID,
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(validity),
	}, nil
}
func (f *fakeRefreshRepo) FindByIDAndUser(ctx context.Context, id string, userID int64) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}
func (f *fakeRefreshRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}
func (f *fakeRefreshRepo) DeleteAllForUser(ctx context.Context, userID int64) error {
	return f.deleteAllErr
}

type fakeTenantsRepo struct {
	createOut *models.Tenant
	createErr error

	getOut *models.Tenant
	getErr error

	listOut []*models.Tenant
	listErr error

	updateErr error
	deleteErr error
}

func (f *fakeTenantsRepo) Create(ctx context.Context, tn *models.Tenant) (*models.Tenant, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}
func (f *fakeTenantsRepo) GetByID(ctx context.Context, id int64) (*models.Tenant, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}
func (f *fakeTenantsRepo) List(ctx context.Context) ([]*models.Tenant, error) {
	return f.listOut, f.listErr
}
func (f *fakeTenantsRepo) Update(ctx context.Context, tn *models.Tenant) error { return f.updateErr }
func (f *fakeTenantsRepo) Delete(ctx context.Context, id int64) error          { return f.deleteErr }

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeRefreshRepo
	t *fakeTenantsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error           { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository { return m.r }
func (m *fakeRepoManager) Tenants(db dbx.DBTX) tenantsrepo.Repository             { return m.t }

// --- Register ---

func TestRegister_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		u: &fakeUsersRepo{
			byEmailErr: common.ErrorNotFound,
			createOut:  &models.User{ID: 42, Email: "alice@example.com", Role: models.RoleCustomer},
		},
		r: &fakeRefreshRepo{},
	}
	s := newAuthService(t, db, rm)

	session, err := s.Register(context.Background(), "Alice", "Smith", "alice@example.com", "secret-pw")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if session.User.ID != 42 {
		t.Fatalf("unexpected user: %+v", session.User)
	}
	if session.Tokens.AccessToken == "" || session.Tokens.RefreshToken == "" {
		t.Fatalf("empty tokens: %+v", session.Tokens)
	}
}

func TestRegister_DuplicateEmailPrecheck(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		u: &fakeUsersRepo{byEmailOut: &models.User{ID: 1, Email: "alice@example.com"}},
		r: &fakeRefreshRepo{},
	}
	s := newAuthService(t, db, rm)

	_, err := s.Register(context.Background(), "Alice", "Smith", "alice@example.com", "secret-pw")
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want ErrorAlreadyExists, got %v", err)
	}
}

func TestRegister_DuplicateEmailOnInsert(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	// Precheck misses, the UNIQUE constraint catches the race on insert.
	rm := &fakeRepoManager{
		u: &fakeUsersRepo{byEmailErr: common.ErrorNotFound, createErr: common.ErrorAlreadyExists},
		r: &fakeRefreshRepo{},
	}
	s := newAuthService(t, db, rm)

	_, err := s.Register(context.Background(), "Alice", "Smith", "alice@example.com", "secret-pw")
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want ErrorAlreadyExists, got %v", err)
	}
}

func TestRegister_StoreError(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		u: &fakeUsersRepo{byEmailErr: errBoom{}},
		r: &fakeRefreshRepo{},
	}
	s := newAuthService(t, db, rm)

	_, err := s.Register(context.Background(), "Alice", "Smith", "alice@example.com", "secret-pw")
	if !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("want ErrorInternal, got %v", err)
	}
}

// --- Login ---

func TestLogin_Flows(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	hasher := auth.NewCredentialHasher(4)
	hash, err := hasher.Hash("right-password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	user := &models.User{ID: 7, Email: "bob@example.com", PasswordHash: hash, Role: models.RoleManager}

	// unknown email and wrong password produce the same error
	rmNF := &fakeRepoManager{u: &fakeUsersRepo{byEmailErr: common.ErrorNotFound}, r: &fakeRefreshRepo{}}
	if _, err := newAuthService(t, db, rmNF).Login(context.Background(), "ghost@example.com", "x"); !errors.Is(err, common.ErrorInvalidCredentials) {
		t.Fatalf("unknown email: want ErrorInvalidCredentials, got %v", err)
	}

	rmWP := &fakeRepoManager{u: &fakeUsersRepo{byEmailOut: user}, r: &fakeRefreshRepo{}}
	if _, err := newAuthService(t, db, rmWP).Login(context.Background(), "bob@example.com", "wrong-password"); !errors.Is(err, common.ErrorInvalidCredentials) {
		t.Fatalf("wrong password: want ErrorInvalidCredentials, got %v", err)
	}

	rmIE := &fakeRepoManager{u: &fakeUsersRepo{byEmailErr: errBoom{}}, r: &fakeRefreshRepo{}}
	if _, err := newAuthService(t, db, rmIE).Login(context.Background(), "bob@example.com", "x"); !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("store error: want ErrorInternal, got %v", err)
	}

	rmOK := &fakeRepoManager{u: &fakeUsersRepo{byEmailOut: user}, r: &fakeRefreshRepo{}}
	session, err := newAuthService(t, db, rmOK).Login(context.Background(), "bob@example.com", "right-password")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if session.Tokens.AccessToken == "" || session.Tokens.RefreshToken == "" {
		t.Fatalf("empty tokens: %+v", session.Tokens)
	}
}

func TestLogin_RecordCreateError(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	hasher := auth.NewCredentialHasher(4)
	hash, _ := hasher.Hash("pw-12345")
	rm := &fakeRepoManager{
		u: &fakeUsersRepo{byEmailOut: &models.User{ID: 7, PasswordHash: hash}},
		r: &fakeRefreshRepo{createErr: errBoom{}},
	}
	s := newAuthService(t, db, rm)

	if _, err := s.Login(context.Background(), "bob@example.com", "pw-12345"); !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("want ErrorInternal, got %v", err)
	}
}

// --- Refresh ---

func refreshClaims(userID, recordID string) *auth.RefreshClaims {
	return &auth.RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID},
		Role:             models.RoleCustomer.String(),
		RecordID:         recordID,
	}
}

func TestRefresh_RotatesRecord(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	refresh := &fakeRefreshRepo{}
	rm := &fakeRepoManager{
		u: &fakeUsersRepo{byIDOut: &models.User{ID: 7, Role: models.RoleCustomer}},
		r: refresh,
	}
	s := newAuthService(t, db, rm)

	session, err := s.Refresh(context.Background(), refreshClaims("7", "old-record"))
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if session.Tokens.AccessToken == "" || session.Tokens.RefreshToken == "" {
		t.Fatalf("empty tokens: %+v", session.Tokens)
	}
	if len(refresh.deleted) != 1 || refresh.deleted[0] != "old-record" {
		t.Fatalf("old record not deleted: %v", refresh.deleted)
	}
}

func TestRefresh_DeleteFailureTolerated(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	// New session first, old record second: a failed delete leaves two valid
	// sessions rather than zero, and the caller still gets the new pair.
	rm := &fakeRepoManager{
		u: &fakeUsersRepo{byIDOut: &models.User{ID: 7, Role: models.RoleCustomer}},
		r: &fakeRefreshRepo{deleteErr: errBoom{}},
	}
	s := newAuthService(t, db, rm)

	session, err := s.Refresh(context.Background(), refreshClaims("7", "old-record"))
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if session.Tokens.RefreshToken == "" {
		t.Fatalf("empty refresh token")
	}
}

func TestRefresh_UserGone(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		u: &fakeUsersRepo{byIDErr: common.ErrorNotFound},
		r: &fakeRefreshRepo{},
	}
	s := newAuthService(t, db, rm)

	if _, err := s.Refresh(context.Background(), refreshClaims("7", "rec")); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
}

func TestRefresh_BadSubject(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{}, r: &fakeRefreshRepo{}}
	s := newAuthService(t, db, rm)

	if _, err := s.Refresh(context.Background(), refreshClaims("not-a-number", "rec")); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
}

// --- Logout ---

func TestLogout(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	refresh := &fakeRefreshRepo{}
	rm := &fakeRepoManager{u: &fakeUsersRepo{}, r: refresh}
	s := newAuthService(t, db, rm)

	if err := s.Logout(context.Background(), refreshClaims("7", "rec")); err != nil {
		t.Fatalf("Logout error: %v", err)
	}
	if len(refresh.deleted) != 1 || refresh.deleted[0] != "rec" {
		t.Fatalf("record not deleted: %v", refresh.deleted)
	}

	rmErr := &fakeRepoManager{u: &fakeUsersRepo{}, r: &fakeRefreshRepo{deleteErr: errBoom{}}}
	if err := newAuthService(t, db, rmErr).Logout(context.Background(), refreshClaims("7", "rec")); !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("want ErrorInternal, got %v", err)
	}
}

// --- CheckRefreshSession ---

func TestCheckRefreshSession_Valid(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		u: &fakeUsersRepo{},
		r: &fakeRefreshRepo{findOut: &models.RefreshToken{ID: "rec", UserID: 7, ExpiresAt: time.Now().Add(time.Hour)}},
	}
	s := newAuthService(t, db, rm)

	if err := s.CheckRefreshSession(context.Background(), refreshClaims("7", "rec")); err != nil {
		t.Fatalf("CheckRefreshSession error: %v", err)
	}
}

func TestCheckRefreshSession_Revoked(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		u: &fakeUsersRepo{},
		r: &fakeRefreshRepo{findErr: common.ErrorNotFound},
	}
	s := newAuthService(t, db, rm)

	if err := s.CheckRefreshSession(context.Background(), refreshClaims("7", "rec")); !errors.Is(err, common.ErrTokenRevoked) {
		t.Fatalf("want ErrTokenRevoked, got %v", err)
	}
}

func TestCheckRefreshSession_StoreErrorFailsClosed(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		u: &fakeUsersRepo{},
		r: &fakeRefreshRepo{findErr: errBoom{}},
	}
	s := newAuthService(t, db, rm)

	if err := s.CheckRefreshSession(context.Background(), refreshClaims("7", "rec")); !errors.Is(err, common.ErrTokenRevoked) {
		t.Fatalf("store error must count as revoked, got %v", err)
	}
}

func TestCheckRefreshSession_ExpiredRecord(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		u: &fakeUsersRepo{},
		r: &fakeRefreshRepo{findOut: &models.RefreshToken{ID: "rec", UserID: 7, ExpiresAt: time.Now().Add(-time.Minute)}},
	}
	s := newAuthService(t, db, rm)

	if err := s.CheckRefreshSession(context.Background(), refreshClaims("7", "rec")); !errors.Is(err, common.ErrTokenRevoked) {
		t.Fatalf("want ErrTokenRevoked, got %v", err)
	}
}
