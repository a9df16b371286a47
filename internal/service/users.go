package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	passwordvalidator "github.com/wagslane/go-password-validator"

	"github.com/Skotchmaster/webshop/internal/hash"
	"github.com/Skotchmaster/webshop/internal/logging"
	"github.com/Skotchmaster/webshop/internal/models"
	"github.com/Skotchmaster/webshop/internal/mykafka"
	"github.com/Skotchmaster/webshop/internal/repo"
	"github.com/Skotchmaster/webshop/internal/transport"
)

const PasswordMinEntropyBits = 30

type UserService struct {
	Creds  *repo.GormRepo
	Users  *repo.UserStore
	Events mykafka.Publisher
}

// Register creates a user with role user, whatever the request asks for.
func (s *UserService) Register(ctx context.Context, req transport.UserRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "users.register", "username", req.Username)

	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if err := passwordvalidator.Validate(req.Password, PasswordMinEntropyBits); err != nil {
		return nil, fmt.Errorf("%w: password is not strong enough: %v", ErrValidation, err)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}
	user := &models.User{
		Username:     username,
		PasswordHash: pwHash,
		Role:         models.RoleUser,
	}

	if err := s.Creds.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("register_error", "status", 409, "reason", "user already exist")
			return nil, fmt.Errorf("%w: %w", ErrConflict, err)
		}
		l.Error("register_error", "reason", "cannot create user", "error", err)
		return nil, err
	}

	publish(ctx, s.Events, mykafka.TopicUserEvents, user.ID.String(), map[string]any{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	})
	l.Info("register_success", "user_id", user.ID)
	return user, nil
}

// EnsureUser seeds an account at startup. An existing username is left untouched.
func (s *UserService) EnsureUser(ctx context.Context, username, password string, role models.Role) error {
	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return err
	}
	err = s.Creds.CreateUserIfNotExists(ctx, &models.User{Username: username, PasswordHash: pwHash, Role: role})
	if err != nil && !errors.Is(err, repo.ErrUserAlreadyExist) {
		return err
	}
	return nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.Users.Find(ctx, id)
	return u, storageErr(err)
}

func (s *UserService) ListUsers(ctx context.Context, offset, limit int) (int64, []models.User, error) {
	total, users, err := s.Users.List(ctx, offset, limit, nil)
	return total, users, storageErr(err)
}

// UpdateUser rewrites the account. An empty password or role keeps the stored value.
func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, req transport.UserRequest) (*models.User, error) {
	existing, err := s.Users.Find(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}

	if username := strings.TrimSpace(req.Username); username != "" {
		existing.Username = username
	}
	switch req.Role {
	case "":
	case models.RoleUser, models.RoleAdmin:
		existing.Role = req.Role
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, req.Role)
	}
	if req.Password != "" {
		if err := passwordvalidator.Validate(req.Password, PasswordMinEntropyBits); err != nil {
			return nil, fmt.Errorf("%w: password is not strong enough: %v", ErrValidation, err)
		}
		if existing.PasswordHash, err = hash.HashPassword(req.Password); err != nil {
			return nil, err
		}
	}

	if err := s.Users.Update(ctx, id, existing); err != nil {
		return nil, storageErr(err)
	}
	publish(ctx, s.Events, mykafka.TopicUserEvents, id.String(), map[string]any{
		"type":   "user_updated",
		"userID": id,
	})
	return existing, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.Users.Delete(ctx, id); err != nil {
		return storageErr(err)
	}
	publish(ctx, s.Events, mykafka.TopicUserEvents, id.String(), map[string]any{
		"type":   "user_deleted",
		"userID": id,
	})
	return nil
}
