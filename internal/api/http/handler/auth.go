package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dtroode/tasktracker-server/internal/api/http/response"
	"github.com/dtroode/tasktracker-server/internal/apierror"
	"github.com/dtroode/tasktracker-server/internal/logger"
	"github.com/dtroode/tasktracker-server/internal/model"
	"github.com/dtroode/tasktracker-server/internal/service"
)

// AuthService defines user registration, login and profile operations.
type AuthService interface {
	Register(ctx context.Context, params model.CreateUserParams) (service.AuthResult, error)
	Login(ctx context.Context, email, password string) (service.AuthResult, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (model.User, error)
}

// LoginObserver counts login attempts by outcome.
type LoginObserver interface {
	ObserveLogin(outcome string)
}

// Auth handles REST endpoints for authentication.
type Auth struct {
	authService    AuthService
	loginObserver  LoginObserver
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, loginObserver LoginObserver, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		loginObserver:  loginObserver,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register creates an account and returns it with a session token.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var params model.CreateUserParams
	if err := response.DecodeJSON(r, &params); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	result, err := h.authService.Register(r.Context(), params)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Auth handler: user registered", "user_id", result.User.ID)

	response.Created(w, toAuthResponse(result))
}

// Login exchanges credentials for a session token.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		h.loginObserver.ObserveLogin("invalid_request")
		handleError(w, r, h.logger, err)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.loginObserver.ObserveLogin(loginOutcome(err))
		handleError(w, r, h.logger, err)
		return
	}

	h.loginObserver.ObserveLogin("success")
	response.OK(w, toAuthResponse(result))
}

// Profile returns the authenticated caller's account.
func (h *Auth) Profile(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.contextManager.GetUserFromContext(r.Context())
	if !ok {
		handleError(w, r, h.logger, apierror.NewErrMissingAuthorizationToken())
		return
	}

	user, err := h.authService.GetProfile(r.Context(), caller.ID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	response.OK(w, toUserResponse(user))
}

func loginOutcome(err error) string {
	switch apierror.KindOf(err) {
	case apierror.KindInvalidCredentials:
		return "invalid_credentials"
	case apierror.KindValidation:
		return "invalid_request"
	default:
		return "error"
	}
}
