package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/tasktracker-server/internal/apierror"
	"github.com/dtroode/tasktracker-server/internal/mocks"
	"github.com/dtroode/tasktracker-server/internal/model"
	"github.com/dtroode/tasktracker-server/internal/testutil"
)

func validParams() model.CreateUserParams {
	return model.CreateUserParams{Name: " John Doe ", Email: " John@Example.COM ", Password: "password123"}
}

func TestCredentials_CreateUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("success normalizes and hashes", func(t *testing.T) {
		t.Parallel()

		store := mocks.NewUserStore(t)
		hasher := mocks.NewPasswordHasher(t)

		store.On("GetByEmail", ctx, "john@example.com").Return(model.User{}, model.ErrNotFound).Once()
		hasher.On("Hash", "password123").Return("hashed", nil).Once()
		store.On("Create", ctx, mock.MatchedBy(func(u model.User) bool {
			return u.Name == "John Doe" &&
				u.Email == "john@example.com" &&
				u.PasswordHash == "hashed" &&
				u.Role == model.RoleUser &&
				u.ID != uuid.Nil &&
				!u.CreatedAt.IsZero()
		})).Return(func(_ context.Context, u model.User) (model.User, error) { return u, nil }).Once()

		svc := NewCredentials(store, hasher, nil, testutil.MakeNoopLogger())

		user, err := svc.CreateUser(ctx, validParams())
		require.NoError(t, err)
		assert.Equal(t, "john@example.com", user.Email)
		assert.Equal(t, "hashed", user.PasswordHash)
	})

	t.Run("validation failure touches nothing", func(t *testing.T) {
		t.Parallel()

		store := mocks.NewUserStore(t)
		hasher := mocks.NewPasswordHasher(t)
		svc := NewCredentials(store, hasher, nil, testutil.MakeNoopLogger())

		params := validParams()
		params.Password = "short"

		_, err := svc.CreateUser(ctx, params)
		require.Error(t, err)
		assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
		assert.Contains(t, err.Error(), "password must be at least 6 characters")
	})

	t.Run("existing email", func(t *testing.T) {
		t.Parallel()

		store := mocks.NewUserStore(t)
		hasher := mocks.NewPasswordHasher(t)
		store.On("GetByEmail", ctx, "john@example.com").Return(model.User{ID: uuid.New()}, nil).Once()

		svc := NewCredentials(store, hasher, nil, testutil.MakeNoopLogger())

		_, err := svc.CreateUser(ctx, validParams())
		require.Error(t, err)
		assert.Equal(t, apierror.KindDuplicateEmail, apierror.KindOf(err))
		assert.Equal(t, "User already exists", err.Error())
	})

	t.Run("unique violation on insert", func(t *testing.T) {
		t.Parallel()

		store := mocks.NewUserStore(t)
		hasher := mocks.NewPasswordHasher(t)
		store.On("GetByEmail", ctx, "john@example.com").Return(model.User{}, model.ErrNotFound).Once()
		hasher.On("Hash", "password123").Return("hashed", nil).Once()
		store.On("Create", ctx, mock.Anything).Return(model.User{}, model.ErrDuplicateEmail).Once()

		svc := NewCredentials(store, hasher, nil, testutil.MakeNoopLogger())

		_, err := svc.CreateUser(ctx, validParams())
		assert.Equal(t, apierror.KindDuplicateEmail, apierror.KindOf(err))
	})

	t.Run("store error", func(t *testing.T) {
		t.Parallel()

		store := mocks.NewUserStore(t)
		hasher := mocks.NewPasswordHasher(t)
		store.On("GetByEmail", ctx, "john@example.com").Return(model.User{}, errors.New("db down")).Once()

		svc := NewCredentials(store, hasher, nil, testutil.MakeNoopLogger())

		_, err := svc.CreateUser(ctx, validParams())
		require.Error(t, err)
		assert.Equal(t, apierror.Kind(""), apierror.KindOf(err))
		assert.Contains(t, err.Error(), "db down")
	})

	t.Run("hash error", func(t *testing.T) {
		t.Parallel()

		store := mocks.NewUserStore(t)
		hasher := mocks.NewPasswordHasher(t)
		store.On("GetByEmail", ctx, "john@example.com").Return(model.User{}, model.ErrNotFound).Once()
		hasher.On("Hash", "password123").Return("", assert.AnError).Once()

		svc := NewCredentials(store, hasher, nil, testutil.MakeNoopLogger())

		_, err := svc.CreateUser(ctx, validParams())
		require.ErrorIs(t, err, assert.AnError)
	})
}

func TestCredentials_FindByEmail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := mocks.NewUserStore(t)
	want := model.User{ID: uuid.New(), Email: "ann@example.com"}
	store.On("GetByEmail", ctx, "ann@example.com").Return(want, nil).Once()
	store.On("GetByEmail", ctx, "nobody@example.com").Return(model.User{}, model.ErrNotFound).Once()

	svc := NewCredentials(store, mocks.NewPasswordHasher(t), nil, testutil.MakeNoopLogger())

	got, err := svc.FindByEmail(ctx, "  ANN@example.com")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = svc.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCredentials_FindByID_Cache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	id := uuid.New()
	user := model.User{ID: id, Name: "Ann"}

	t.Run("hit skips store", func(t *testing.T) {
		t.Parallel()

		store := mocks.NewUserStore(t)
		cache := mocks.NewUserCache(t)
		cache.On("Get", ctx, id).Return(user, nil).Once()

		svc := NewCredentials(store, mocks.NewPasswordHasher(t), cache, testutil.MakeNoopLogger())

		got, err := svc.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, user, got)
	})

	t.Run("miss fills cache", func(t *testing.T) {
		t.Parallel()

		store := mocks.NewUserStore(t)
		cache := mocks.NewUserCache(t)
		cache.On("Get", ctx, id).Return(model.User{}, model.ErrNotFound).Once()
		store.On("GetByID", ctx, id).Return(user, nil).Once()
		cache.On("Set", ctx, user).Return(nil).Once()

		svc := NewCredentials(store, mocks.NewPasswordHasher(t), cache, testutil.MakeNoopLogger())

		got, err := svc.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, user, got)
	})

	t.Run("cache failures are bypassed", func(t *testing.T) {
		t.Parallel()

		store := mocks.NewUserStore(t)
		cache := mocks.NewUserCache(t)
		cache.On("Get", ctx, id).Return(model.User{}, errors.New("redis down")).Once()
		store.On("GetByID", ctx, id).Return(user, nil).Once()
		cache.On("Set", ctx, user).Return(errors.New("redis down")).Once()

		svc := NewCredentials(store, mocks.NewPasswordHasher(t), cache, testutil.MakeNoopLogger())

		got, err := svc.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, user, got)
	})

	t.Run("missing user is not cached", func(t *testing.T) {
		t.Parallel()

		store := mocks.NewUserStore(t)
		cache := mocks.NewUserCache(t)
		cache.On("Get", ctx, id).Return(model.User{}, model.ErrNotFound).Once()
		store.On("GetByID", ctx, id).Return(model.User{}, model.ErrNotFound).Once()

		svc := NewCredentials(store, mocks.NewPasswordHasher(t), cache, testutil.MakeNoopLogger())

		_, err := svc.FindByID(ctx, id)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "user@example.com", NormalizeEmail("  User@Example.COM\t"))
}
