package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"concerthall/internal/domain"
	"concerthall/internal/middleware"
	"concerthall/internal/modules/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newTestRouter(repo *mockUserRepo, role domain.UserRole) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUser, &domain.User{ID: 100, Role: role})
		c.Next()
	})
	NewHandler(newTestService(repo)).RegisterRoutes(r)
	return r
}

func serve(t *testing.T, r http.Handler, method, path string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestHandler_RequiresAdmin(t *testing.T) {
	repo := newMockUserRepo(&domain.User{ID: 1, Role: domain.RoleOrganization})

	for _, role := range []domain.UserRole{domain.RoleListener, domain.RoleOrganization} {
		r := newTestRouter(repo, role)
		w, env := serve(t, r, http.MethodGet, "/admin/users/pending")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "FORBIDDEN", env.Error.Code)

		w, _ = serve(t, r, http.MethodPatch, "/admin/users/1/verify")
		assert.Equal(t, http.StatusForbidden, w.Code)
	}
	assert.False(t, repo.users[1].Verified)
}

func TestHandler_PendingAndVerify(t *testing.T) {
	repo := newMockUserRepo(
		&domain.User{ID: 1, Email: "org@example.com", Role: domain.RoleOrganization, PasswordHash: "secret-digest"},
		&domain.User{ID: 2, Role: domain.RoleListener},
	)
	r := newTestRouter(repo, domain.RoleAdmin)

	w, env := serve(t, r, http.MethodGet, "/admin/users/pending")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, string(env.Data), "secret-digest")
	var pending []auth.UserPublic
	require.NoError(t, json.Unmarshal(env.Data, &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, "org@example.com", pending[0].Email)

	w, env = serve(t, r, http.MethodPatch, "/admin/users/1/verify")
	require.Equal(t, http.StatusOK, w.Code)
	var verified auth.UserPublic
	require.NoError(t, json.Unmarshal(env.Data, &verified))
	assert.True(t, verified.Verified)

	w, env = serve(t, r, http.MethodGet, "/admin/users/pending")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))

	w, env = serve(t, r, http.MethodPatch, "/admin/users/2/verify")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_OPERATION", env.Error.Code)

	w, env = serve(t, r, http.MethodPatch, "/admin/users/77/verify")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	w, env = serve(t, r, http.MethodPatch, "/admin/users/abc/verify")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", env.Error.Code)
}
