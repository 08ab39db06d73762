package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"scrawl/internal/config"
	"scrawl/internal/repository"
	"scrawl/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer wires a full server over the file-backed repositories in
// a temp directory, with routes but no global middleware stack.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	cfg := &config.Config{
		Port:        "0",
		Env:         "test",
		JWTSecret:   "test-secret-key-12345678901234567890123456789012",
		Persistence: config.PersistenceFile,
		DataDir:     t.TempDir(),
		UploadDir:   t.TempDir(),
		LockWaitMS:  5000,
	}

	st, err := store.Open(cfg.DataDir)
	require.NoError(t, err)

	srv := NewServerWithDeps(cfg, repository.NewFileRepositories(st), nil)
	require.NoError(t, srv.imageService.EnsureDir())

	app := fiber.New()
	srv.SetupRoutes(app)
	return srv, app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var parsed map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &parsed)
	}
	return resp, parsed
}

// signupAndLogin registers a user and returns a usable token.
func signupAndLogin(t *testing.T, app *fiber.App, email, nickname string) string {
	t.Helper()

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"email":    email,
		"password": "hunter2hunter2",
		"nickname": nickname,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "signup body: %v", body)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()
	_, app := newTestServer(t)

	resp, body := doJSON(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
}

func TestSignupLoginLogout(t *testing.T) {
	t.Parallel()
	_, app := newTestServer(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"email":    "writer@example.com",
		"password": "hunter2hunter2",
		"nickname": "inkweaver",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "inkweaver", user["nickname"])
	assert.NotContains(t, user, "password")

	// Duplicate email rejected.
	resp, body = doJSON(t, app, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"email":    "writer@example.com",
		"password": "hunter2hunter2",
		"nickname": "other",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "DUPLICATE_KEY", body["code"])

	// Login with the right password.
	resp, body = doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "writer@example.com",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["token"])

	// Wrong password.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "writer@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Logout is acknowledged statelessly.
	resp, body = doJSON(t, app, http.MethodPost, "/api/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
}

func TestSignup_MissingFields(t *testing.T) {
	t.Parallel()
	_, app := newTestServer(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"email": "writer@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	// Full middleware stack so the request counter actually observes traffic.
	app := fiber.New()
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	_ = resp.Body.Close()

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "http_requests_total")
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	t.Parallel()
	_, app := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/posts/"},
		{http.MethodPost, "/api/comments/"},
		{http.MethodPatch, "/api/users/nickname"},
		{http.MethodDelete, "/api/users/"},
	} {
		resp, _ := doJSON(t, app, tc.method, tc.path, "", fiber.Map{})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", tc.method, tc.path)
	}
}
