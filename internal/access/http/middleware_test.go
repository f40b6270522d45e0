package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/truenorthhq/truenorth/internal/access/authz"
	"github.com/truenorthhq/truenorth/internal/access/domain"
	"github.com/truenorthhq/truenorth/internal/access/service"
	"github.com/truenorthhq/truenorth/internal/access/store/drivers/sqlite"
	"github.com/truenorthhq/truenorth/pkg/cryptox"
	"github.com/truenorthhq/truenorth/pkg/httpx"
	"github.com/truenorthhq/truenorth/pkg/idx"
	"github.com/truenorthhq/truenorth/pkg/jwtx"
)

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "access-http-test-pepper")
	_ = os.Remove(pepperPath)
	cryptox.SetPepperPath(pepperPath)
	defer os.Remove(pepperPath)
	os.Exit(m.Run())
}

const testPassword = "Str0ng!passw0rd"

// authnFixture is a real session service over an in-memory store with one
// logged-in administrator.
type authnFixture struct {
	sessions *service.SessionService
	store    *sqlite.Store
	user     domain.User
	pair     *domain.TokenPair
}

func newAuthnFixture(t *testing.T) authnFixture {
	t.Helper()
	ctx := context.Background()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	keyManager, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Issuer:  "test-issuer",
		NumKeys: 1,
	})
	require.NoError(t, err)

	sessions := &service.SessionService{
		KeyManager: keyManager,
		Store:      st,
		Issuer:     "test-issuer",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}

	org := domain.Organization{
		ID:           idx.New().String(),
		Name:         "True North Testing",
		PlanID:       domain.PlanTeam,
		PlanStatus:   domain.SubscriptionActive,
		PlanSyncedAt: time.Now(),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, st.Organizations().CreateOrganization(ctx, org))

	hash, err := cryptox.HashPassword(testPassword)
	require.NoError(t, err)
	user := domain.User{
		ID:           idx.New().String(),
		Email:        "admin@truenorth.example",
		Name:         "Admin",
		PasswordHash: hash,
		Role:         domain.RoleAdministrator,
		OrgID:        org.ID,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, st.Users().CreateUser(ctx, user))

	pair, err := sessions.Login(ctx, user.Email, testPassword)
	require.NoError(t, err)

	return authnFixture{sessions: sessions, store: st, user: user, pair: pair}
}

// principalProbe records what the middleware injected.
func principalProbe(got *domain.Principal, userID *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := PrincipalFrom(r.Context()); ok {
			*got = p
		}
		*userID = httpx.UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestAuthnMiddlewareBearer(t *testing.T) {
	fx := newAuthnFixture(t)

	var got domain.Principal
	var gotUserID string
	h := httpx.Chain(principalProbe(&got, &gotUserID), AuthnMiddleware(fx.sessions))

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+fx.pair.AccessToken)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, fx.user.ID, got.UserID)
	require.Equal(t, fx.user.OrgID, got.OrgID)
	require.Equal(t, domain.RoleAdministrator, got.Role)
	require.NotEmpty(t, got.SessionID)
	require.Equal(t, fx.user.ID, gotUserID, "rate limit keying needs the user id in context")
}

func TestAuthnMiddlewareSessionCookie(t *testing.T) {
	fx := newAuthnFixture(t)

	var got domain.Principal
	var gotUserID string
	h := httpx.Chain(principalProbe(&got, &gotUserID), AuthnMiddleware(fx.sessions))

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: httpx.SessionCookie, Value: fx.pair.AccessToken})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, fx.user.ID, got.UserID)
}

func TestAuthnMiddlewareRejects(t *testing.T) {
	fx := newAuthnFixture(t)
	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a credential")
	}), AuthnMiddleware(fx.sessions))

	cases := []struct {
		name      string
		configure func(r *http.Request)
	}{
		{"no credential", func(r *http.Request) {}},
		{"garbage bearer", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer not-a-jwt")
		}},
		{"non-bearer scheme", func(r *http.Request) {
			r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		}},
		{"garbage cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: httpx.SessionCookie, Value: "stale"})
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
			tc.configure(req)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
			require.Equal(t, "unauthenticated", errorCode(t, rec))
		})
	}
}

func TestAuthnMiddlewareSeesRevocationImmediately(t *testing.T) {
	fx := newAuthnFixture(t)
	ctx := context.Background()

	var got domain.Principal
	var gotUserID string
	h := httpx.Chain(principalProbe(&got, &gotUserID), AuthnMiddleware(fx.sessions))

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+fx.pair.AccessToken)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// The JWT is still within its lifetime after logout; only the dead
	// session row rejects it.
	require.NoError(t, fx.sessions.Logout(ctx, fx.pair.AccessToken))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequirePasswordChangedGate(t *testing.T) {
	fx := newAuthnFixture(t)
	ctx := context.Background()

	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), AuthnMiddleware(fx.sessions), RequirePasswordChanged())

	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+fx.pair.AccessToken)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Flag the account mid-session. The live user read makes the very
	// next request hit the gate, no re-login needed.
	require.NoError(t, fx.store.Users().UpdatePassword(ctx, fx.user.ID, fx.user.PasswordHash, true))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "password_change_required", errorCode(t, rec))
}

func TestRequireCapability(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := httpx.Chain(okHandler, RequireCapability(authz.CapManageUsers))

	withRole := func(role domain.Role) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
		ctx := withPrincipal(req.Context(), domain.Principal{
			UserID: "u1", OrgID: "o1", Role: role,
		})
		return req.WithContext(ctx)
	}

	t.Run("administrator allowed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, withRole(domain.RoleAdministrator))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("executive denied", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, withRole(domain.RoleExecutive))
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, "forbidden", errorCode(t, rec))
	})

	t.Run("leader denied", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, withRole(domain.RoleLeader))
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("no principal rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/users", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
