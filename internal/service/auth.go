package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/tasktracker-server/internal/apierror"
	"github.com/dtroode/tasktracker-server/internal/logger"
	"github.com/dtroode/tasktracker-server/internal/model"
)

// AuthResult is returned by successful registration and login.
type AuthResult struct {
	User  model.User
	Token string
}

type Auth struct {
	credentials  *Credentials
	hasher       model.PasswordHasher
	tokenService *TokenService
	logger       *logger.Logger
}

func NewAuth(
	credentials *Credentials,
	hasher model.PasswordHasher,
	tokenService *TokenService,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		credentials:  credentials,
		hasher:       hasher,
		tokenService: tokenService,
		logger:       logger,
	}
}

// Register creates an account and issues a session token for it.
func (a *Auth) Register(ctx context.Context, params model.CreateUserParams) (AuthResult, error) {
	a.logger.Debug("Auth service: starting user registration",
		"email", params.Email)

	user, err := a.credentials.CreateUser(ctx, params)
	if err != nil {
		return AuthResult{}, err
	}

	token, err := a.tokenService.Issue(ctx, user.ID)
	if err != nil {
		a.logger.Error("Auth service: failed to issue token",
			"user_id", user.ID.String(),
			"error", err.Error())
		return AuthResult{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: registration completed successfully",
		"user_id", user.ID.String())

	return AuthResult{User: user, Token: token}, nil
}

// Login checks credentials. Unknown email and wrong password yield the same error.
func (a *Auth) Login(ctx context.Context, email, password string) (AuthResult, error) {
	user, err := a.credentials.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		a.logger.Info("Auth service: login failed", "reason", "unknown email")
		return AuthResult{}, apierror.NewErrInvalidCredentials()
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user by email",
			"error", err.Error())
		return AuthResult{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		a.logger.Info("Auth service: login failed",
			"reason", "password mismatch",
			"user_id", user.ID.String())
		return AuthResult{}, apierror.NewErrInvalidCredentials()
	}

	token, err := a.tokenService.Issue(ctx, user.ID)
	if err != nil {
		a.logger.Error("Auth service: failed to issue token",
			"user_id", user.ID.String(),
			"error", err.Error())
		return AuthResult{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: login completed successfully",
		"user_id", user.ID.String())

	return AuthResult{User: user, Token: token}, nil
}

func (a *Auth) GetProfile(ctx context.Context, userID uuid.UUID) (model.User, error) {
	user, err := a.credentials.FindByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, apierror.NewErrUserNotFound()
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}
