package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/devsetgo/userbase/internal/models"
	"github.com/devsetgo/userbase/internal/services"
	"github.com/devsetgo/userbase/pkg/auth"
	pkghttp "github.com/devsetgo/userbase/pkg/http"
	"github.com/go-chi/chi/v5"
)

// UserService defines the interface for user business logic
type UserService interface {
	ListUsers(ctx context.Context, params models.ListParams) ([]*models.User, int, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User, password string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, update services.UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, id string) (bool, error)
}

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	service UserService
}

func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// Request/Response DTOs

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	UserName             string `json:"user_name" validate:"required,min=4,max=20,alphanum"`
	FirstName            string `json:"first_name" validate:"required,min=1,max=50"`
	LastName             string `json:"last_name" validate:"required,min=1,max=50"`
	Email                string `json:"email" validate:"required,email"`
	Notes                string `json:"notes" validate:"omitempty,max=5000"`
	Password             string `json:"password" validate:"required,min=5,max=50"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

// UpdateUserRequest represents the request body for a partial update.
// Absent fields are left untouched.
type UpdateUserRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=50"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1,max=50"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Notes     *string `json:"notes" validate:"omitempty,max=5000"`
}

// UserResponse is the output projection. It never carries the password.
type UserResponse struct {
	ID          string `json:"id"`
	UserName    string `json:"user_name"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Notes       string `json:"notes,omitempty"`
	IsActive    bool   `json:"is_active"`
	IsApproved  bool   `json:"is_approved"`
	IsAdmin     bool   `json:"is_admin"`
	DateCreated string `json:"date_created"`
	DateUpdated string `json:"date_updated"`
}

// QueryData echoes the window and filters a list request resolved to.
type QueryData struct {
	TotalCount  int            `json:"total_count"`
	ResultCount int            `json:"result_count"`
	Limit       int            `json:"limit"`
	Offset      int            `json:"offset"`
	Filters     map[string]any `json:"filters"`
}

// ListUsersResponse represents a list of users with pagination metadata.
type ListUsersResponse struct {
	QueryData QueryData       `json:"query_data"`
	Users     []*UserResponse `json:"users"`
}

func userModelToResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:          user.ID,
		UserName:    user.UserName,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		FullName:    user.FullName(),
		Email:       user.Email,
		Notes:       user.Notes,
		IsActive:    user.IsActive,
		IsApproved:  user.IsApproved,
		IsAdmin:     user.IsAdmin,
		DateCreated: user.DateCreated.Format(time.RFC3339),
		DateUpdated: user.DateUpdated.Format(time.RFC3339),
	}
}

// allowedListParams is the accepted query-parameter set for ListUsers.
// Unrecognized keys are rejected, never silently ignored.
var allowedListParams = map[string]bool{
	"user_name":    true,
	"first_name":   true,
	"last_name":    true,
	"email":        true,
	"notes":        true,
	"is_active":    true,
	"is_approved":  true,
	"created_days": true,
	"updated_days": true,
	"order_by":     true,
	"limit":        true,
	"offset":       true,
}

// ListUsers retrieves a filtered, paginated list of users.
//
// GET /users?user_name=&first_name=&last_name=&email=&notes=&is_active=&is_approved=
//
//	&created_days=&updated_days=&order_by=&limit=&offset=
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	for key := range query {
		if !allowedListParams[key] {
			pkghttp.WriteBadRequest(w, fmt.Sprintf("unknown query parameter %q", key))
			return
		}
	}

	params := models.ListParams{Limit: models.DefaultListLimit}
	filters := make(map[string]any)

	if v := query.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > models.MaxListLimit {
			pkghttp.WriteBadRequest(w, fmt.Sprintf("limit must be between 0 and %d", models.MaxListLimit))
			return
		}
		params.Limit = n
	}

	if v := query.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > models.MaxListOffset {
			pkghttp.WriteBadRequest(w, fmt.Sprintf("offset must be between 0 and %d", models.MaxListOffset))
			return
		}
		params.Offset = n
	}

	if v := query.Get("order_by"); v != "" {
		field, _, _ := strings.Cut(v, ":")
		if !models.SortableUserFields[field] {
			pkghttp.WriteBadRequest(w, fmt.Sprintf("cannot order by %q", field))
			return
		}
		params.OrderBy = v
	}

	if v := query.Get("user_name"); v != "" {
		params.Filter.UserName = v
		filters["user_name"] = v
	}
	if v := query.Get("first_name"); v != "" {
		params.Filter.FirstName = v
		filters["first_name"] = v
	}
	if v := query.Get("last_name"); v != "" {
		params.Filter.LastName = v
		filters["last_name"] = v
	}
	if v := query.Get("email"); v != "" {
		params.Filter.Email = v
		filters["email"] = v
	}
	if v := query.Get("notes"); v != "" {
		params.Filter.Notes = v
		filters["notes"] = v
	}

	if v := query.Get("is_active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			pkghttp.WriteBadRequest(w, "is_active must be a boolean")
			return
		}
		params.Filter.IsActive = &b
		filters["is_active"] = b
	}
	if v := query.Get("is_approved"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			pkghttp.WriteBadRequest(w, "is_approved must be a boolean")
			return
		}
		params.Filter.IsApproved = &b
		filters["is_approved"] = b
	}

	if v := query.Get("created_days"); v != "" {
		days, ok := parseDayWindow(v)
		if !ok {
			pkghttp.WriteBadRequest(w, "invalid value for created_days")
			return
		}
		params.Filter.CreatedSince = time.Now().UTC().AddDate(0, 0, -days)
		filters["created_days"] = days
	}
	if v := query.Get("updated_days"); v != "" {
		days, ok := parseDayWindow(v)
		if !ok {
			pkghttp.WriteBadRequest(w, "invalid value for updated_days")
			return
		}
		params.Filter.UpdatedSince = time.Now().UTC().AddDate(0, 0, -days)
		filters["updated_days"] = days
	}

	users, total, err := h.service.ListUsers(r.Context(), params)
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			pkghttp.WriteBadRequest(w, err.Error())
			return
		}
		pkghttp.WriteInternalError(w, "internal server error")
		return
	}

	response := &ListUsersResponse{
		QueryData: QueryData{
			TotalCount:  total,
			ResultCount: len(users),
			Limit:       params.Limit,
			Offset:      params.Offset,
			Filters:     filters,
		},
		Users: make([]*UserResponse, len(users)),
	}
	for i, user := range users {
		response.Users[i] = userModelToResponse(user)
	}

	pkghttp.WriteJSON(w, http.StatusOK, response)
}

// GetUser retrieves a user by ID.
//
// GET /users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		pkghttp.WriteBadRequest(w, "user ID is required")
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "user not found")
			return
		}
		pkghttp.WriteInternalError(w, "internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, userModelToResponse(user))
}

// CreateUser creates a new user.
//
// POST /users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteUnprocessable(w, err.Error())
		return
	}

	user := &models.User{
		UserName:  req.UserName,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Notes:     req.Notes,
	}

	createdUser, err := h.service.CreateUser(r.Context(), user, req.Password)
	if err != nil {
		var pwErr *auth.PasswordValidationError
		switch {
		case errors.Is(err, models.ErrConflict):
			pkghttp.WriteConflict(w, "user_name or email already exists")
		case errors.As(err, &pwErr):
			pkghttp.WriteUnprocessable(w, pwErr.Error())
		default:
			pkghttp.WriteInternalError(w, "internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, userModelToResponse(createdUser))
}

// UpdateUser applies a partial update to an existing user.
//
// PUT /users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		pkghttp.WriteBadRequest(w, "user ID is required")
		return
	}

	var req UpdateUserRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteUnprocessable(w, err.Error())
		return
	}

	update := services.UserUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Notes:     req.Notes,
	}

	updatedUser, err := h.service.UpdateUser(r.Context(), userID, update)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "user not found")
		case errors.Is(err, models.ErrConflict):
			pkghttp.WriteConflict(w, "email already exists")
		default:
			pkghttp.WriteInternalError(w, "internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, userModelToResponse(updatedUser))
}

// DeleteUser removes a user by ID. The response body is a bare boolean
// reporting whether a row was removed; a missing id is not an error.
//
// DELETE /users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		pkghttp.WriteBadRequest(w, "user ID is required")
		return
	}

	deleted, err := h.service.DeleteUser(r.Context(), userID)
	if err != nil {
		pkghttp.WriteInternalError(w, "internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, deleted)
}

// Helper functions

func parseDayWindow(value string) (int, bool) {
	days, err := strconv.Atoi(value)
	if err != nil || !models.DayWindows[days] {
		return 0, false
	}
	return days, true
}
