package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/tasktracker-server/internal/api/http/response"
	"github.com/dtroode/tasktracker-server/internal/apierror"
	"github.com/dtroode/tasktracker-server/internal/logger"
	"github.com/dtroode/tasktracker-server/internal/model"
)

// TokenService resolves user ID from bearer tokens.
type TokenService interface {
	GetUserID(ctx context.Context, token string) (uuid.UUID, error)
}

// UserResolver loads the account a token was issued for.
type UserResolver interface {
	FindByID(ctx context.Context, id uuid.UUID) (model.User, error)
}

// Authenticate validates bearer tokens and injects the caller into the request context.
type Authenticate struct {
	tokenService   TokenService
	users          UserResolver
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenService TokenService, users UserResolver, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, users: users, contextManager: contextManager, logger: logger}
}

// Handle rejects requests without a valid token for an existing user.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.authenticateUser(r.Context(), bearerToken(r))
		if err != nil {
			response.WriteError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(m.contextManager.SetUserToContext(r.Context(), user)))
	})
}

func (m *Authenticate) authenticateUser(ctx context.Context, tokenString string) (model.User, error) {
	if tokenString == "" {
		return model.User{}, apierror.NewErrMissingAuthorizationToken()
	}

	userID, err := m.tokenService.GetUserID(ctx, tokenString)
	if err != nil || userID == uuid.Nil {
		return model.User{}, apierror.NewErrInvalidAuthorizationToken()
	}

	user, err := m.users.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			m.logger.Error("authenticate middleware: failed to load user", "user_id", userID, "error", err.Error())
			return model.User{}, err
		}
		return model.User{}, apierror.NewErrInvalidAuthorizationToken()
	}

	return user, nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
