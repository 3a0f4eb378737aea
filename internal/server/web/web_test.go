package web

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dsmirnov/authkeeper/internal/logging"
	"github.com/dsmirnov/authkeeper/internal/server/auth"
	"github.com/dsmirnov/authkeeper/internal/server/config"
	"github.com/dsmirnov/authkeeper/internal/server/models"
	"github.com/dsmirnov/authkeeper/internal/server/services"
)

// --- shared harness ---

var (
	tokensOnce sync.Once
	tokensTM   *auth.TokenManager
	tokensErr  error
)

// testTokens returns a TokenManager backed by a real RSA key, generated once
// for the whole package.
func testTokens(t *testing.T) *auth.TokenManager {
	t.Helper()
	tokensOnce.Do(func() {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			tokensErr = err
			return
		}
		keys, err := auth.NewKeys(key, nil, []byte("test-refresh-secret"))
		if err != nil {
			tokensErr = err
			return
		}
		tokensTM = auth.NewTokenManager(keys, "auth-service", time.Hour, 2*time.Hour)
	})
	if tokensErr != nil {
		t.Fatalf("token manager init: %v", tokensErr)
	}
	return tokensTM
}

type fakeSessions struct {
	session *services.Session

	registerErr error
	loginErr    error
	refreshErr  error
	logoutErr   error
	checkErr    error
}

func (f *fakeSessions) Register(ctx context.Context, firstName, lastName, email, password string) (*services.Session, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return f.session, nil
}
func (f *fakeSessions) Login(ctx context.Context, email, password string) (*services.Session, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.session, nil
}
func (f *fakeSessions) Refresh(ctx context.Context, claims *auth.RefreshClaims) (*services.Session, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.session, nil
}
func (f *fakeSessions) Logout(ctx context.Context, claims *auth.RefreshClaims) error {
	return f.logoutErr
}
func (f *fakeSessions) CheckRefreshSession(ctx context.Context, claims *auth.RefreshClaims) error {
	return f.checkErr
}

type fakeUsers struct {
	user      *models.User
	list      []*models.User
	createErr error
	getErr    error
	listErr   error
	updateErr error
	deleteErr error
}

func (f *fakeUsers) Create(ctx context.Context, in services.CreateUserInput) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.user, nil
}
func (f *fakeUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.user, nil
}
func (f *fakeUsers) List(ctx context.Context) ([]*models.User, error) {
	return f.list, f.listErr
}
func (f *fakeUsers) Update(ctx context.Context, id int64, in services.UpdateUserInput) error {
	return f.updateErr
}
func (f *fakeUsers) Delete(ctx context.Context, id int64) error { return f.deleteErr }

type fakeTenants struct {
	tenant    *models.Tenant
	list      []*models.Tenant
	createErr error
	getErr    error
	listErr   error
	updateErr error
	deleteErr error
}

func (f *fakeTenants) Create(ctx context.Context, name, address string) (*models.Tenant, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.tenant, nil
}
func (f *fakeTenants) GetByID(ctx context.Context, id int64) (*models.Tenant, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.tenant, nil
}
func (f *fakeTenants) List(ctx context.Context) ([]*models.Tenant, error) {
	return f.list, f.listErr
}
func (f *fakeTenants) Update(ctx context.Context, id int64, name, address string) error {
	return f.updateErr
}
func (f *fakeTenants) Delete(ctx context.Context, id int64) error { return f.deleteErr }

func newTestServer(t *testing.T, sessions AuthSessions, users UserAdmin, tenants TenantAdmin) *Server {
	t.Helper()
	cfg := &config.Config{
		EndpointAddr:                 ":0",
		CookieDomain:                 "localhost",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}
	return NewServer(cfg, logging.NewJSON(io.Discard), testTokens(t), sessions, users, tenants)
}

func doRequest(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, req)
	return rec
}

func accessTokenFor(t *testing.T, userID int64, role models.Role) string {
	t.Helper()
	token, err := testTokens(t).IssueAccessToken(userID, role)
	if err != nil {
		t.Fatalf("IssueAccessToken error: %v", err)
	}
	return token
}

func refreshTokenFor(t *testing.T, userID int64, role models.Role, recordID string) string {
	t.Helper()
	token, err := testTokens(t).IssueRefreshToken(userID, role, recordID)
	if err != nil {
		t.Fatalf("IssueRefreshToken error: %v", err)
	}
	return token
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}
