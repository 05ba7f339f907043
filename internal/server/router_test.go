package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"concerthall/internal/config"
	"concerthall/internal/database"
	"concerthall/internal/domain"
	"concerthall/internal/modules/concert"
	"concerthall/internal/pkg/password"
	"concerthall/internal/pkg/validator"
	"concerthall/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Init()
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type testApp struct {
	t      *testing.T
	router http.Handler
	users  *repository.UserRepository
	hub    *concert.Hub
}

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:             "test",
		AppName:            "concerthall",
		JWTSecret:          "router-test-secret",
		JWTAlgorithm:       "HS256",
		AccessTokenTTL:     30 * time.Minute,
		BcryptCost:         bcrypt.MinCost,
		CORSAllowedOrigins: []string{"*"},
		LoginRateLimit:     20,
		PageLimitMax:       1000,
		Policy: config.PolicyConfig{
			ForbidEarlierReschedule: true,
		},
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *testApp {
	t.Helper()
	log, _ := test.NewNullLogger()

	db, err := database.Connect(filepath.Join(t.TempDir(), "e2e.db"), log)
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	hub := concert.NewHub(log)
	t.Cleanup(hub.Close)

	r, err := NewRouter(Deps{Config: cfg, Log: log, DB: db, Hub: hub})
	require.NoError(t, err)

	return &testApp{t: t, router: r, users: repository.NewUserRepository(db), hub: hub}
}

func (a *testApp) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func (a *testApp) signupAndLogin(email, role string) string {
	a.t.Helper()
	w, _ := a.do(http.MethodPost, "/auth/signup", "", map[string]any{
		"email":     email,
		"full_name": "Test " + role,
		"password":  "secret1",
		"role":      role,
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return a.login(email, "secret1")
}

func (a *testApp) login(email, pwd string) string {
	a.t.Helper()
	w, env := a.do(http.MethodPost, "/auth/login", "", map[string]any{"email": email, "password": pwd})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	var tok struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &tok))
	require.Equal(a.t, "bearer", tok.TokenType)
	return tok.AccessToken
}

func (a *testApp) createCatalogEntry(path, token, name string) int64 {
	a.t.Helper()
	w, env := a.do(http.MethodPost, path, token, map[string]any{"name": name})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var out struct {
		ID int64 `json:"id"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &out))
	return out.ID
}

func decodeConcert(t *testing.T, env envelope) domain.Concert {
	t.Helper()
	var c domain.Concert
	require.NoError(t, json.Unmarshal(env.Data, &c))
	return c
}

func TestRouter_Health(t *testing.T) {
	app := newTestApp(t, testConfig())
	w, env := app.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_ConcertLifecycle(t *testing.T) {
	app := newTestApp(t, testConfig())

	orgToken := app.signupAndLogin("org@hall.example", "organization")
	fanToken := app.signupAndLogin("fan@hall.example", "listener")

	bach := app.createCatalogEntry("/composers/", fanToken, "Bach")
	piano := app.createCatalogEntry("/instruments/", fanToken, "Piano")

	date := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Second)
	body := map[string]any{
		"title":       "Goldberg Variations",
		"date":        date.Format(time.RFC3339),
		"description": "Complete cycle",
		"price_type":  "free",
		"location":    "Main Hall",
		"composers":   []int64{bach},
		"instruments": []int64{piano},
	}

	w, _ := app.do(http.MethodPost, "/concerts/", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

	w, env := app.do(http.MethodPost, "/concerts/", fanToken, body)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	w, env = app.do(http.MethodPost, "/concerts/", orgToken, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeConcert(t, env)
	assert.Equal(t, domain.ConcertUpcoming, created.Status)
	assert.Equal(t, []int64{bach}, created.ComposerIDs)
	require.Len(t, created.Instruments, 1)
	assert.Equal(t, "Piano", created.Instruments[0].Name)

	path := fmt.Sprintf("/concerts/%d", created.ID)

	w, _ = app.do(http.MethodPatch, path, fanToken, map[string]any{"title": "Mine now"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	later := date.Add(24 * time.Hour)
	w, env = app.do(http.MethodPatch, path, orgToken, map[string]any{
		"date":         later.Format(time.RFC3339),
		"price_type":   "fixed",
		"price_amount": 1200,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeConcert(t, env)
	assert.True(t, later.Equal(updated.Date))
	require.NotNil(t, updated.PriceAmount)
	assert.Equal(t, int64(1200), *updated.PriceAmount)
	assert.Equal(t, "Goldberg Variations", updated.Title)

	w, env = app.do(http.MethodGet, "/concerts/filter/?composer_names=Bach&instrument_names=Piano", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []domain.Concert
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	w, env = app.do(http.MethodGet, "/concerts/filter/?date="+later.Format("2006-01-02"), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	w, env = app.do(http.MethodPatch, path+"/cancel", orgToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cancelled := decodeConcert(t, env)
	assert.Equal(t, domain.ConcertCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	w, env = app.do(http.MethodPatch, path+"/cancel", orgToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_OPERATION", env.Error.Code)

	w, env = app.do(http.MethodGet, "/concerts/filter/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Empty(t, list)

	w, env = app.do(http.MethodGet, "/concerts/?status_of_concert=cancelled", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	w, _ = app.do(http.MethodDelete, path, fanToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = app.do(http.MethodDelete, path, orgToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = app.do(http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestRouter_UnknownCatalogReferences(t *testing.T) {
	app := newTestApp(t, testConfig())
	orgToken := app.signupAndLogin("org@hall.example", "organization")

	w, env := app.do(http.MethodPost, "/concerts", orgToken, map[string]any{
		"title":      "Ghost",
		"date":       time.Now().UTC().Add(time.Hour).Format(time.RFC3339),
		"price_type": "hat",
		"location":   "Hall",
		"composers":  []int64{4242},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	w, env = app.do(http.MethodGet, "/concerts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestRouter_AuthFlow(t *testing.T) {
	app := newTestApp(t, testConfig())
	token := app.signupAndLogin("fan@hall.example", "listener")

	w, env := app.do(http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		Email    string `json:"email"`
		Verified bool   `json:"verified"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "fan@hall.example", me.Email)
	assert.True(t, me.Verified)

	w, _ = app.do(http.MethodGet, "/users/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = app.do(http.MethodPost, "/auth/login", "", map[string]any{"email": "fan@hall.example", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)

	w, env = app.do(http.MethodPost, "/auth/signup", "", map[string]any{
		"email": "FAN@hall.example", "full_name": "Again", "password": "secret1", "role": "listener",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "EMAIL_EXISTS", env.Error.Code)

	w, _ = app.do(http.MethodPost, "/auth/signup", "", map[string]any{
		"email": "boss@hall.example", "full_name": "Boss", "password": "secret1", "role": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_AdminVerification(t *testing.T) {
	app := newTestApp(t, testConfig())
	app.signupAndLogin("org@hall.example", "organization")
	fanToken := app.signupAndLogin("fan@hall.example", "listener")

	digest, err := password.NewHasher(bcrypt.MinCost).Hash("admin-pass")
	require.NoError(t, err)
	require.NoError(t, app.users.Create(context.Background(), &domain.User{
		Email: "admin@hall.example", FullName: "Admin", PasswordHash: digest, Role: domain.RoleAdmin, Verified: true,
	}))
	adminToken := app.login("admin@hall.example", "admin-pass")

	w, _ := app.do(http.MethodGet, "/admin/users/pending", fanToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := app.do(http.MethodGet, "/admin/users/pending", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pending []struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, "org@hall.example", pending[0].Email)

	w, _ = app.do(http.MethodPatch, fmt.Sprintf("/admin/users/%d/verify", pending[0].ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	org, err := app.users.GetByEmail(context.Background(), "org@hall.example")
	require.NoError(t, err)
	assert.True(t, org.Verified)
}

func TestRouter_AdminBypassPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.Policy.AdminBypass = true
	app := newTestApp(t, cfg)

	orgToken := app.signupAndLogin("org@hall.example", "organization")
	w, env := app.do(http.MethodPost, "/concerts", orgToken, map[string]any{
		"title":      "Recital",
		"date":       time.Now().UTC().Add(48 * time.Hour).Format(time.RFC3339),
		"price_type": "free",
		"location":   "Hall",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeConcert(t, env)

	digest, err := password.NewHasher(bcrypt.MinCost).Hash("admin-pass")
	require.NoError(t, err)
	require.NoError(t, app.users.Create(context.Background(), &domain.User{
		Email: "admin@hall.example", FullName: "Admin", PasswordHash: digest, Role: domain.RoleAdmin, Verified: true,
	}))
	adminToken := app.login("admin@hall.example", "admin-pass")

	w, env = app.do(http.MethodPatch, fmt.Sprintf("/concerts/%d/cancel", created.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, domain.ConcertCancelled, decodeConcert(t, env).Status)
}

func TestCorsConfig(t *testing.T) {
	all := corsConfig([]string{"*"})
	assert.True(t, all.AllowAllOrigins)
	assert.Empty(t, all.AllowOrigins)
	assert.False(t, all.AllowCredentials)

	some := corsConfig([]string{"https://hall.example"})
	assert.False(t, some.AllowAllOrigins)
	assert.Equal(t, []string{"https://hall.example"}, some.AllowOrigins)
	assert.True(t, some.AllowCredentials)
}
