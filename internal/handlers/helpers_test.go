package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/devsetgo/userbase/internal/models"
	"github.com/devsetgo/userbase/internal/services"
	"github.com/go-chi/chi/v5"
)

// MockUserService is a function-field mock of UserService for handler tests.
type MockUserService struct {
	ListUsersFunc  func(ctx context.Context, params models.ListParams) ([]*models.User, int, error)
	GetUserFunc    func(ctx context.Context, id string) (*models.User, error)
	CreateUserFunc func(ctx context.Context, user *models.User, password string) (*models.User, error)
	UpdateUserFunc func(ctx context.Context, id string, update services.UserUpdate) (*models.User, error)
	DeleteUserFunc func(ctx context.Context, id string) (bool, error)
}

func (m *MockUserService) ListUsers(ctx context.Context, params models.ListParams) ([]*models.User, int, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx, params)
	}
	return []*models.User{}, 0, nil
}

func (m *MockUserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserService) CreateUser(ctx context.Context, user *models.User, password string) (*models.User, error) {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, user, password)
	}
	return user, nil
}

func (m *MockUserService) UpdateUser(ctx context.Context, id string, update services.UserUpdate) (*models.User, error) {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(ctx, id, update)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserService) DeleteUser(ctx context.Context, id string) (bool, error) {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(ctx, id)
	}
	return false, nil
}

// NewTestRequest builds an HTTP request with an optional JSON body.
func NewTestRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithChiURLParam attaches a chi route parameter to the request context.
func WithChiURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// AssertJSONResponse checks the status code and decodes the JSON body into dest.
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, dest any) {
	t.Helper()

	if w.Code != expectedStatus {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, expectedStatus, w.Body.String())
	}
	if dest != nil {
		if err := json.Unmarshal(w.Body.Bytes(), dest); err != nil {
			t.Fatalf("failed to decode response body: %v (body: %s)", err, w.Body.String())
		}
	}
}
