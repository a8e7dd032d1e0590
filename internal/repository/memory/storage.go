// Package memory keeps users and tasks in process memory.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/tasktracker-server/internal/model"
)

var (
	_ model.Pinger   = (*Storage)(nil)
	_ model.Resetter = (*Storage)(nil)
)

// Storage holds the shared state behind the memory user and task repositories.
type Storage struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]model.User
	byEmail map[string]uuid.UUID
	tasks   map[uuid.UUID]storedTask
	seq     uint64
}

type storedTask struct {
	task model.Task
	seq  uint64
}

// New creates an empty Storage.
func New() *Storage {
	s := &Storage{}
	s.clear()
	return s
}

// Users returns a UserStore backed by s.
func (s *Storage) Users() *UserRepository {
	return &UserRepository{s: s}
}

// Tasks returns a TaskStore backed by s.
func (s *Storage) Tasks() *TaskRepository {
	return &TaskRepository{s: s}
}

// Ping always succeeds.
func (s *Storage) Ping(context.Context) error {
	return nil
}

// Reset drops every user and task.
func (s *Storage) Reset(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
	return nil
}

// Close is a no-op kept for parity with the postgres connection.
func (s *Storage) Close() error {
	return nil
}

func (s *Storage) clear() {
	s.users = make(map[uuid.UUID]model.User)
	s.byEmail = make(map[string]uuid.UUID)
	s.tasks = make(map[uuid.UUID]storedTask)
}
