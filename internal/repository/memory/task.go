package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/tasktracker-server/internal/model"
)

var _ model.TaskStore = (*TaskRepository)(nil)

type TaskRepository struct {
	s *Storage
}

func (r *TaskRepository) Create(_ context.Context, task model.Task) (model.Task, error) {
	if err := task.CheckEnums(); err != nil {
		return model.Task{}, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.seq++
	r.s.tasks[task.ID] = storedTask{task: task, seq: r.s.seq}
	return task, nil
}

func (r *TaskRepository) GetByID(_ context.Context, ownerID, id uuid.UUID) (model.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	st, ok := r.s.tasks[id]
	if !ok || st.task.UserID != ownerID {
		return model.Task{}, model.ErrNotFound
	}
	return st.task, nil
}

func (r *TaskRepository) List(_ context.Context, ownerID uuid.UUID, filter model.TaskFilter) ([]model.Task, error) {
	r.s.mu.RLock()
	matched := make([]storedTask, 0)
	for _, st := range r.s.tasks {
		if st.task.UserID != ownerID {
			continue
		}
		if filter.Status != "" && st.task.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && st.task.Priority != filter.Priority {
			continue
		}
		matched = append(matched, st)
	}
	r.s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.task.CreatedAt.Equal(b.task.CreatedAt) {
			return a.task.CreatedAt.After(b.task.CreatedAt)
		}
		return a.seq > b.seq
	})

	tasks := make([]model.Task, len(matched))
	for i, st := range matched {
		tasks[i] = st.task
	}
	return tasks, nil
}

func (r *TaskRepository) Update(_ context.Context, ownerID, id uuid.UUID, update model.TaskUpdate) (model.Task, error) {
	if err := update.CheckEnums(); err != nil {
		return model.Task{}, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	st, ok := r.s.tasks[id]
	if !ok || st.task.UserID != ownerID {
		return model.Task{}, model.ErrNotFound
	}

	update.Apply(&st.task)
	st.task.UpdatedAt = time.Now().UTC()
	r.s.tasks[id] = st
	return st.task, nil
}

func (r *TaskRepository) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	st, ok := r.s.tasks[id]
	if !ok || st.task.UserID != ownerID {
		return model.ErrNotFound
	}
	delete(r.s.tasks, id)
	return nil
}
