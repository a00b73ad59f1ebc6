package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/devsetgo/userbase/internal/models"
	"github.com/devsetgo/userbase/pkg/auth"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	List(ctx context.Context, params models.ListParams) ([]*models.User, error)
	Count(ctx context.Context, filter models.UserFilter) (int, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id string, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// UserUpdate carries the mutable field subset of a partial update. Nil
// fields are left untouched.
type UserUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
	Notes     *string
}

// UserService handles user business logic
type UserService struct {
	repo   UserRepository
	logger *slog.Logger
}

func NewUserService(repo UserRepository, logger *slog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		logger: logger,
	}
}

// ListUsers returns one page of users plus the total match count.
func (s *UserService) ListUsers(ctx context.Context, params models.ListParams) ([]*models.User, int, error) {
	users, err := s.repo.List(ctx, params)
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			return nil, 0, err
		}
		s.logger.Error("failed to list users", slog.Any("error", err))
		return nil, 0, models.ErrInternalServer
	}

	total, err := s.repo.Count(ctx, params.Filter)
	if err != nil {
		s.logger.Error("failed to count users", slog.Any("error", err))
		return nil, 0, models.ErrInternalServer
	}

	return users, total, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("user not found", slog.String("user_id", id))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.String("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return user, nil
}

// CreateUser normalizes identity fields, enforces the password policy,
// hashes the password and persists the user. A unique-constraint violation
// surfaces as models.ErrConflict.
func (s *UserService) CreateUser(ctx context.Context, user *models.User, password string) (*models.User, error) {
	user.UserName = strings.ToLower(strings.TrimSpace(user.UserName))
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	if err := auth.ValidatePassword(password); err != nil {
		return nil, err
	}

	// The unique index is still the arbiter under concurrent creates.
	if _, err := s.repo.GetByEmail(ctx, user.Email); err == nil {
		s.logger.Info("duplicate email on create")
		return nil, models.ErrConflict
	} else if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to check email uniqueness", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	user.PasswordHash = hashedPassword

	createdUser, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			s.logger.Info("duplicate user_name or email on create")
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user created", slog.String("user_id", createdUser.ID))
	return createdUser, nil
}

// UpdateUser applies a partial update. Fields absent from the update are
// left unchanged; date_updated is refreshed by the repository.
func (s *UserService) UpdateUser(ctx context.Context, id string, update UserUpdate) (*models.User, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("user not found", slog.String("user_id", id))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.String("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if update.FirstName != nil {
		existing.FirstName = strings.TrimSpace(*update.FirstName)
	}
	if update.LastName != nil {
		existing.LastName = strings.TrimSpace(*update.LastName)
	}
	if update.Email != nil {
		existing.Email = strings.ToLower(strings.TrimSpace(*update.Email))
	}
	if update.Notes != nil {
		existing.Notes = *update.Notes
	}

	updatedUser, err := s.repo.Update(ctx, id, existing)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		if errors.Is(err, models.ErrConflict) {
			s.logger.Info("duplicate email on update", slog.String("user_id", id))
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to update user", slog.String("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user updated", slog.String("user_id", id))
	return updatedUser, nil
}

// DeleteUser removes a user. A missing id is reported as false, never an
// error.
func (s *UserService) DeleteUser(ctx context.Context, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete user", slog.String("user_id", id), slog.Any("error", err))
		return false, models.ErrInternalServer
	}

	s.logger.Info("user delete processed", slog.String("user_id", id), slog.Bool("deleted", deleted))
	return deleted, nil
}
