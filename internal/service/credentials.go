package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/tasktracker-server/internal/apierror"
	"github.com/dtroode/tasktracker-server/internal/logger"
	"github.com/dtroode/tasktracker-server/internal/model"
	"github.com/dtroode/tasktracker-server/internal/validate"
)

// Credentials manages user identity records: validation, hashing and lookups.
type Credentials struct {
	userStore model.UserStore
	hasher    model.PasswordHasher
	cache     model.UserCache
	validator *validate.Validator
	logger    *logger.Logger
}

// NewCredentials creates a Credentials service. cache may be nil.
func NewCredentials(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	cache model.UserCache,
	logger *logger.Logger,
) *Credentials {
	return &Credentials{
		userStore: userStore,
		hasher:    hasher,
		cache:     cache,
		validator: validate.New(),
		logger:    logger,
	}
}

// CreateUser validates params, hashes the password and persists the user.
func (c *Credentials) CreateUser(ctx context.Context, params model.CreateUserParams) (model.User, error) {
	params.Name = strings.TrimSpace(params.Name)
	params.Email = NormalizeEmail(params.Email)

	if err := c.validator.Struct(params); err != nil {
		return model.User{}, err
	}

	_, err := c.userStore.GetByEmail(ctx, params.Email)
	if err == nil {
		c.logger.Info("Credentials service: user already exists",
			"email", params.Email)
		return model.User{}, apierror.NewErrEmailIsTaken()
	}
	if !errors.Is(err, model.ErrNotFound) {
		c.logger.Error("Credentials service: failed to get user by email",
			"email", params.Email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := c.hasher.Hash(params.Password)
	if err != nil {
		c.logger.Error("Credentials service: failed to hash password",
			"email", params.Email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := c.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		CreatedAt:    time.Now().UTC(),
	})
	if errors.Is(err, model.ErrDuplicateEmail) {
		return model.User{}, apierror.NewErrEmailIsTaken()
	}
	if err != nil {
		c.logger.Error("Credentials service: failed to create user",
			"email", params.Email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	c.logger.Info("Credentials service: user created",
		"user_id", user.ID.String())

	return user, nil
}

// FindByEmail returns model.ErrNotFound when no user has the email.
func (c *Credentials) FindByEmail(ctx context.Context, email string) (model.User, error) {
	user, err := c.userStore.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// FindByID returns model.ErrNotFound when the user does not exist.
// Lookups go through the cache when one is configured; cache failures are logged and bypassed.
func (c *Credentials) FindByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	if c.cache != nil {
		user, err := c.cache.Get(ctx, id)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, model.ErrNotFound) {
			c.logger.Warn("Credentials service: user cache read failed",
				"user_id", id.String(),
				"error", err.Error())
		}
	}

	user, err := c.userStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, user); err != nil {
			c.logger.Warn("Credentials service: user cache write failed",
				"user_id", id.String(),
				"error", err.Error())
		}
	}

	return user, nil
}

// NormalizeEmail trims and lowercases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
