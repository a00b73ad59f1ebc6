package handlers_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/devsetgo/userbase/internal/config"
	"github.com/devsetgo/userbase/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProber struct {
	typeName string
	version  string
	err      error
}

func (m *mockProber) TypeName() string { return m.typeName }

func (m *mockProber) ServerVersion(ctx context.Context) (string, error) {
	return m.version, m.err
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:       "userbase",
			Version:    "1.0.0",
			ReleaseEnv: "prd",
		},
		Database: config.DatabaseConfig{
			Driver:   config.DriverSQLite,
			Username: "dbuser",
			Password: "supersecret",
		},
		Admin: config.AdminConfig{
			Email:    "admin@example.com",
			Password: "hunter2!",
		},
	}
}

func newHealthHandler(db handlers.DatabaseProber) *handlers.HealthHandler {
	return handlers.NewHealthHandler(db, testConfig(), time.Now().Add(-90*time.Minute), slog.Default())
}

func TestHealthStatus(t *testing.T) {
	handler := newHealthHandler(&mockProber{})
	req := handlers.NewTestRequest(t, "GET", "/health/status", nil)

	w := httptest.NewRecorder()
	handler.Status(w, req)

	var resp handlers.StatusResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, "up", resp.Status)
	assert.NotEmpty(t, resp.CurrentDatetime)

	uptime, err := time.ParseDuration(resp.Uptime)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, uptime, 90*time.Minute)
}

func TestHealthDatabase_Up(t *testing.T) {
	handler := newHealthHandler(&mockProber{typeName: "SQLite", version: "3.46.0"})
	req := handlers.NewTestRequest(t, "GET", "/health/database", nil)

	w := httptest.NewRecorder()
	handler.Database(w, req)

	var resp map[string]any
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, "up", resp["database"])
	assert.Equal(t, "SQLite", resp["database_type"])
	assert.Equal(t, "3.46.0", resp["version"])
}

func TestHealthDatabase_DownIsNeverAnHTTPError(t *testing.T) {
	handler := newHealthHandler(&mockProber{err: errors.New("connection refused")})
	req := handlers.NewTestRequest(t, "GET", "/health/database", nil)

	w := httptest.NewRecorder()
	handler.Database(w, req)

	var resp map[string]any
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, "down", resp["database"])
	assert.Equal(t, "connection refused", resp["error_message"])
}

func TestHealthConfiguration_DenylistHidesSensitiveKeys(t *testing.T) {
	handler := newHealthHandler(&mockProber{})
	req := handlers.NewTestRequest(t, "GET", "/health/configuration", nil)

	w := httptest.NewRecorder()
	handler.Configuration(w, req)

	var resp struct {
		Configuration map[string]any `json:"configuration"`
	}
	handlers.AssertJSONResponse(t, w, 200, &resp)
	require.NotEmpty(t, resp.Configuration)

	// Safe keys survive.
	assert.Contains(t, resp.Configuration, "app_name")
	assert.Contains(t, resp.Configuration, "release_env")
	assert.Contains(t, resp.Configuration, "database_driver")

	// Anything containing a denylisted substring is hidden, including
	// innocuously-named keys like db_username (contains "username").
	assert.NotContains(t, resp.Configuration, "db_password")
	assert.NotContains(t, resp.Configuration, "admin_password")
	assert.NotContains(t, resp.Configuration, "db_username")
	for key := range resp.Configuration {
		assert.NotContains(t, key, "password")
		assert.NotContains(t, key, "secret")
		assert.NotContains(t, key, "username")
	}
}

func TestHealthHeapdump_PlainText(t *testing.T) {
	handler := newHealthHandler(&mockProber{})
	req := handlers.NewTestRequest(t, "GET", "/health/heapdump", nil)

	w := httptest.NewRecorder()
	handler.Heapdump(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.NotEmpty(t, w.Body.String())
}

func TestHealthSystemInfo(t *testing.T) {
	handler := newHealthHandler(&mockProber{})
	req := handlers.NewTestRequest(t, "GET", "/health/system-info", nil)

	w := httptest.NewRecorder()
	handler.SystemInfo(w, req)

	var resp map[string]any
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Contains(t, resp, "current_datetime")
	assert.Contains(t, resp, "system_info")
}
