package services

import (
	"context"

	"github.com/devsetgo/userbase/internal/models"
)

// MockUserRepository is a function-field mock of UserRepository for tests.
type MockUserRepository struct {
	ListFunc       func(ctx context.Context, params models.ListParams) ([]*models.User, error)
	CountFunc      func(ctx context.Context, filter models.UserFilter) (int, error)
	GetByIDFunc    func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	CreateFunc     func(ctx context.Context, user *models.User) (*models.User, error)
	UpdateFunc     func(ctx context.Context, id string, user *models.User) (*models.User, error)
	DeleteFunc     func(ctx context.Context, id string) (bool, error)
}

func (m *MockUserRepository) List(ctx context.Context, params models.ListParams) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, params)
	}
	return []*models.User{}, nil
}

func (m *MockUserRepository) Count(ctx context.Context, filter models.UserFilter) (int, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, filter)
	}
	return 0, nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return user, nil
}

func (m *MockUserRepository) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, user)
	}
	return user, nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return false, nil
}

// NewTestUser builds a user with sensible defaults for tests.
func NewTestUser(id, userName, email string) *models.User {
	return &models.User{
		ID:        id,
		UserName:  userName,
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
	}
}
