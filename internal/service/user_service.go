package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-wellbeing-api/internal/models"
	"github.com/noah-isme/sma-wellbeing-api/internal/repository"
	appErrors "github.com/noah-isme/sma-wellbeing-api/pkg/errors"
)

// UserService exposes read access to the user roster.
type UserService struct {
	store  *repository.RecordStore
	logger *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(store *repository.RecordStore, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{store: store, logger: logger}
}

// List returns users matching the filter in stored order.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) []models.User {
	return filterUsers(repository.Load(ctx, s.store, repository.Users), filter)
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	users := repository.Load(ctx, s.store, repository.Users)
	idx := indexOfUser(users, id)
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	user := users[idx]
	return &user, nil
}

func filterUsers(users []models.User, filter models.UserFilter) []models.User {
	if filter.Role == "" {
		return users
	}
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.Role == filter.Role {
			out = append(out, u)
		}
	}
	return out
}

func indexOfUser(users []models.User, id string) int {
	for i := range users {
		if users[i].ID == id {
			return i
		}
	}
	return -1
}
