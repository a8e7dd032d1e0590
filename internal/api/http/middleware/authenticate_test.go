package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appctx "github.com/dtroode/tasktracker-server/internal/api/http/context"
	"github.com/dtroode/tasktracker-server/internal/mocks"
	"github.com/dtroode/tasktracker-server/internal/model"
	"github.com/dtroode/tasktracker-server/internal/testutil"
)

func TestAuthenticate_Handle(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	user := model.User{ID: userID, Name: "Ann", Email: "ann@example.com", Role: model.RoleUser}

	tests := []struct {
		name       string
		header     string
		setup      func(ts *mocks.TokenService, ur *mocks.UserResolver)
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "missing header",
			header:     "",
			setup:      func(ts *mocks.TokenService, ur *mocks.UserResolver) {},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Not authorized, no token",
		},
		{
			name:       "wrong scheme",
			header:     "Basic abc",
			setup:      func(ts *mocks.TokenService, ur *mocks.UserResolver) {},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Not authorized, no token",
		},
		{
			name:   "invalid token",
			header: "Bearer bad",
			setup: func(ts *mocks.TokenService, ur *mocks.UserResolver) {
				ts.On("GetUserID", mock.Anything, "bad").Return(uuid.Nil, model.ErrInvalidToken).Once()
			},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Not authorized, invalid token",
		},
		{
			name:   "user no longer exists",
			header: "Bearer good",
			setup: func(ts *mocks.TokenService, ur *mocks.UserResolver) {
				ts.On("GetUserID", mock.Anything, "good").Return(userID, nil).Once()
				ur.On("FindByID", mock.Anything, userID).Return(model.User{}, model.ErrNotFound).Once()
			},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Not authorized, invalid token",
		},
		{
			name:   "user lookup fails",
			header: "Bearer good",
			setup: func(ts *mocks.TokenService, ur *mocks.UserResolver) {
				ts.On("GetUserID", mock.Anything, "good").Return(userID, nil).Once()
				ur.On("FindByID", mock.Anything, userID).Return(model.User{}, errors.New("db down")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "internal server error",
		},
		{
			name:   "authenticated",
			header: "Bearer good",
			setup: func(ts *mocks.TokenService, ur *mocks.UserResolver) {
				ts.On("GetUserID", mock.Anything, "good").Return(userID, nil).Once()
				ur.On("FindByID", mock.Anything, userID).Return(user, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts := mocks.NewTokenService(t)
			ur := mocks.NewUserResolver(t)
			tt.setup(ts, ur)

			cm := appctx.NewManager()
			mw := NewAuthenticate(ts, ur, cm, testutil.MakeNoopLogger())

			var gotUser model.User
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser, _ = cm.GetUserFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			mw.Handle(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, user, gotUser)
				return
			}

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantMsg, body["message"])
		})
	}
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":             "",
		"Bearer":       "",
		"Bearer abc":   "abc",
		"bearer abc":   "abc",
		"Bearer  abc ": "abc",
		"Token abc":    "",
	}

	for header, want := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		assert.Equal(t, want, bearerToken(req), "header %q", header)
	}
}
