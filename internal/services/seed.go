package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/devsetgo/userbase/internal/config"
	"github.com/devsetgo/userbase/internal/models"
	"github.com/devsetgo/userbase/pkg/auth"
	"github.com/google/uuid"
)

// SeedService bootstraps the admin account and optional demo data at
// startup. Both operations are guarded by existence checks so a redeploy
// never duplicates rows.
type SeedService struct {
	repo   UserRepository
	logger *slog.Logger
}

func NewSeedService(repo UserRepository, logger *slog.Logger) *SeedService {
	return &SeedService{repo: repo, logger: logger}
}

// EnsureAdmin creates the configured admin account unless an admin row
// already exists. At most one seed admin is ever created per deployment.
func (s *SeedService) EnsureAdmin(ctx context.Context, cfg config.AdminConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		s.logger.Info("no admin bootstrap credentials set, skipping admin creation")
		return nil
	}

	isAdmin := true
	count, err := s.repo.Count(ctx, models.UserFilter{IsAdmin: &isAdmin})
	if err != nil {
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}
	if count > 0 {
		s.logger.Info("admin user already exists")
		return nil
	}

	hashedPassword, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	email := strings.ToLower(strings.TrimSpace(cfg.Email))
	userName, _, _ := strings.Cut(email, "@")

	admin := &models.User{
		UserName:     userName,
		FirstName:    cfg.FirstName,
		LastName:     cfg.LastName,
		Email:        email,
		PasswordHash: hashedPassword,
		IsActive:     true,
		IsApproved:   true,
		IsAdmin:      true,
	}

	created, err := s.repo.Create(ctx, admin)
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	s.logger.Info("admin user created", slog.String("user_id", created.ID))
	return nil
}

// demoEpoch anchors the randomized historical timestamps on demo rows.
var demoEpoch = time.Date(2015, 8, 20, 0, 0, 0, 0, time.UTC)

// SeedDemoUsers inserts qty generated users unless non-admin rows already
// exist. Created/updated dates are randomized into the past so date-range
// filters have data to match.
func (s *SeedService) SeedDemoUsers(ctx context.Context, qty int) error {
	if qty <= 0 {
		return nil
	}

	isAdmin := false
	count, err := s.repo.Count(ctx, models.UserFilter{IsAdmin: &isAdmin})
	if err != nil {
		return fmt.Errorf("failed to check for existing users: %w", err)
	}
	if count > 0 {
		s.logger.Warn("demo data creation aborted, users table already has data")
		return nil
	}

	// One shared hash keeps seeding fast; demo accounts are not for login.
	hashedPassword, err := auth.HashPassword(fmt.Sprintf("Demo-%04x", rand.Intn(0xffff)))
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	for i := 0; i < qty; i++ {
		user := demoUser(hashedPassword)
		if _, err := s.repo.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create demo user %d: %w", i, err)
		}
	}

	s.logger.Info("demo users created", slog.Int("count", qty))
	return nil
}

func demoUser(passwordHash string) *models.User {
	created := demoEpoch.AddDate(0, 0, rand.Intn(365*8))
	updated := created.AddDate(0, 0, rand.Intn(365))

	return &models.User{
		UserName:     fmt.Sprintf("demo%s", uuid.New().String()[:8]),
		FirstName:    fmt.Sprintf("test-%05d", rand.Intn(100000)),
		LastName:     fmt.Sprintf("test-%05d", rand.Intn(100000)),
		Email:        fmt.Sprintf("%s@example-%02d.com", uuid.New().String(), rand.Intn(100)),
		PasswordHash: passwordHash,
		DateCreated:  created,
		DateUpdated:  updated,
	}
}
