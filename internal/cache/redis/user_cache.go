package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dtroode/tasktracker-server/internal/model"
)

const (
	keyPrefix  = "tasktracker:user:"
	scanBatch  = 100
	defaultTTL = 5 * time.Minute
)

var _ model.UserCache = (*UserCache)(nil)

// UserCache stores users by id in Redis. Password hashes are never cached.
type UserCache struct {
	rdb *goredis.Client
	ttl time.Duration
}

type cachedUser struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// New connects a cache to the Redis server at addr.
func New(addr, password string, db int, ttl time.Duration) *UserCache {
	return NewWithClient(goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}), ttl)
}

// NewWithClient wraps an existing client.
func NewWithClient(rdb *goredis.Client, ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &UserCache{rdb: rdb, ttl: ttl}
}

func (c *UserCache) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.rdb.Ping(ctx).Err()
}

func (c *UserCache) Close() error {
	return c.rdb.Close()
}

// Get returns model.ErrNotFound on a cache miss.
func (c *UserCache) Get(ctx context.Context, id uuid.UUID) (model.User, error) {
	raw, err := c.rdb.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get cached user: %w", err)
	}

	var cu cachedUser
	if err := json.Unmarshal(raw, &cu); err != nil {
		return model.User{}, fmt.Errorf("failed to decode cached user: %w", err)
	}

	return model.User{
		ID:        cu.ID,
		Name:      cu.Name,
		Email:     cu.Email,
		Role:      model.Role(cu.Role),
		CreatedAt: cu.CreatedAt,
	}, nil
}

func (c *UserCache) Set(ctx context.Context, user model.User) error {
	raw, err := json.Marshal(cachedUser{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	if err := c.rdb.Set(ctx, key(user.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache user: %w", err)
	}
	return nil
}

// Purge deletes every cached user. Keys are collected before any delete so
// the scan cursor stays valid.
func (c *UserCache) Purge(ctx context.Context) error {
	var (
		cursor uint64
		keys   []string
	)
	for {
		batch, next, err := c.rdb.Scan(ctx, cursor, keyPrefix+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cached users: %w", err)
		}
		keys = append(keys, batch...)
		if next == 0 {
			break
		}
		cursor = next
	}

	for start := 0; start < len(keys); start += scanBatch {
		end := min(start+scanBatch, len(keys))
		if err := c.rdb.Del(ctx, keys[start:end]...).Err(); err != nil {
			return fmt.Errorf("failed to delete cached users: %w", err)
		}
	}
	return nil
}

func key(id uuid.UUID) string {
	return keyPrefix + id.String()
}
