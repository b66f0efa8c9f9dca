package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlms/openlms/internal/auth"
	"github.com/openlms/openlms/internal/identity"
	"github.com/openlms/openlms/internal/isolation"
)

func newTestTokenService() *auth.TokenService {
	return auth.NewTokenService([]byte("test-signing-key-32-bytes-long!!"), "openlms-test", time.Hour, nil)
}

// TestPurpose: Validates that the tenant scope is derived exclusively from the token.
// Scope: Unit Test
// Security: Tenant isolation (a tenant-bound token scopes all data access)
// Expected: Downstream handlers see the token's tenant in the request scope.
func TestAuthMiddleware_TenantScopeFromToken(t *testing.T) {
	ts := newTestTokenService()
	h := &Handler{tokenService: ts}

	token, _, err := ts.Issue("user-1", "tenant-a", identity.RoleAdmin)
	require.NoError(t, err)

	var gotScope isolation.Scope
	var gotScopeSet bool
	var gotUserID, gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotScope, gotScopeSet = isolation.ScopeFromContext(r.Context())
		gotUserID = GetUserID(r.Context())
		gotRole = GetRole(r.Context())
	})

	req := httptest.NewRequest("GET", "/api/v1/courses", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	h.AuthMiddleware(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, gotScopeSet)
	assert.True(t, gotScope.Enabled)
	assert.Equal(t, "tenant-a", gotScope.TenantID)
	assert.Equal(t, "user-1", gotUserID)
	assert.Equal(t, identity.RoleAdmin, gotRole)
}

// TestPurpose: Validates that a super admin token without a tenant runs unscoped.
// Scope: Unit Test
// Security: Cross-tenant access restricted to the super admin role
// Expected: The request scope is unscoped for super admins.
func TestAuthMiddleware_SuperAdminUnscoped(t *testing.T) {
	ts := newTestTokenService()
	h := &Handler{tokenService: ts}

	token, _, err := ts.Issue("root-1", "", identity.RoleSuperAdmin)
	require.NoError(t, err)

	var gotScope isolation.Scope
	var gotScopeSet bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotScope, gotScopeSet = isolation.ScopeFromContext(r.Context())
	})

	req := httptest.NewRequest("GET", "/api/v1/tenants", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	h.AuthMiddleware(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, gotScopeSet)
	assert.False(t, gotScope.Enabled)
	assert.Empty(t, gotScope.TenantID)
}

// TestPurpose: Validates that a tenantless token for a non-super-admin role is rejected.
// Scope: Unit Test
// Security: Prevents unscoped data access through malformed tokens
// Expected: Returns HTTP 403 Forbidden and never calls the next handler.
func TestAuthMiddleware_TenantlessNonAdminForbidden(t *testing.T) {
	ts := newTestTokenService()
	h := &Handler{tokenService: ts}

	token, _, err := ts.Issue("user-1", "", identity.RoleTeacher)
	require.NoError(t, err)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest("GET", "/api/v1/courses", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	h.AuthMiddleware(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, called)
}

// TestPurpose: Validates rejection of client-supplied tenant headers.
// Scope: Unit Test
// Security: Anti-spoofing (tenant can never be chosen by the client)
// Expected: Returns HTTP 400 when X-Tenant-ID accompanies a valid token.
func TestAuthMiddleware_TenantHeaderRejected(t *testing.T) {
	ts := newTestTokenService()
	h := &Handler{tokenService: ts}

	token, _, err := ts.Issue("user-1", "tenant-a", identity.RoleAdmin)
	require.NoError(t, err)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest("GET", "/api/v1/courses", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Tenant-ID", "tenant-b")
	w := httptest.NewRecorder()

	h.AuthMiddleware(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, called)
}

// TestPurpose: Validates authentication requirements for protected routes.
// Scope: Unit Test
// Expected: Returns HTTP 401 for missing or invalid bearer tokens.
func TestAuthMiddleware_MissingOrInvalidToken(t *testing.T) {
	ts := newTestTokenService()
	h := &Handler{tokenService: ts}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/courses", nil)
		w := httptest.NewRecorder()
		h.AuthMiddleware(next).ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/courses", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		w := httptest.NewRecorder()
		h.AuthMiddleware(next).ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("revoked token", func(t *testing.T) {
		token, claims, err := ts.Issue("user-1", "tenant-a", identity.RoleAdmin)
		require.NoError(t, err)
		require.NoError(t, ts.Revoke(t.Context(), claims))

		req := httptest.NewRequest("GET", "/api/v1/courses", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		h.AuthMiddleware(next).ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// TestPurpose: Validates role-based route restriction.
// Scope: Unit Test
// Security: RBAC enforcement
// Expected: Allows listed roles and returns 403 for everyone else.
func TestRequireRole(t *testing.T) {
	mw := RequireRole(identity.RoleSuperAdmin, identity.RoleAdmin)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	run := func(role string) int {
		req := httptest.NewRequest("GET", "/api/v1/tenants", nil)
		if role != "" {
			req = req.WithContext(context.WithValue(req.Context(), roleKey, role))
		}
		w := httptest.NewRecorder()
		mw(next).ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, run(identity.RoleAdmin))
	assert.Equal(t, http.StatusNoContent, run(identity.RoleSuperAdmin))
	assert.Equal(t, http.StatusForbidden, run(identity.RoleStudent))
	assert.Equal(t, http.StatusForbidden, run(""))
}
