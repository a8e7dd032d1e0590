package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
}

// UserCache caches users looked up by id.
type UserCache interface {
	Get(ctx context.Context, id uuid.UUID) (User, error)
	Set(ctx context.Context, user User) error
	Purge(ctx context.Context) error
}

// Role is a user role.
type Role string

// RoleUser is assigned to every registered account.
const RoleUser Role = "user"

// User represents a stored user with its password hash.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string `json:"-"`
	Role         Role
	CreatedAt    time.Time
}

// CreateUserParams contains registration input before hashing.
type CreateUserParams struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}
