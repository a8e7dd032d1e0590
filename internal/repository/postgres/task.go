package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/tasktracker-server/internal/model"
)

const taskColumns = `id, user_id, title, description, status, priority, created_at, updated_at`

var _ model.TaskStore = (*TaskRepository)(nil)

type TaskRepository struct {
	db *Connection
}

func NewTaskRepository(db *Connection) *TaskRepository {
	return &TaskRepository{
		db: db,
	}
}

func (r *TaskRepository) Create(ctx context.Context, task model.Task) (model.Task, error) {
	if err := task.CheckEnums(); err != nil {
		return model.Task{}, err
	}

	query := `INSERT INTO tasks (` + taskColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING ` + taskColumns

	saved, err := scanTask(r.db.QueryRow(ctx, query,
		task.ID, task.UserID, task.Title, task.Description,
		string(task.Status), string(task.Priority), task.CreatedAt, task.UpdatedAt,
	))
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	return saved, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`

	task, err := scanTask(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Task{}, model.ErrNotFound
		}
		return model.Task{}, fmt.Errorf("failed to get task by id: %w", err)
	}

	return task, nil
}

func (r *TaskRepository) List(ctx context.Context, ownerID uuid.UUID, filter model.TaskFilter) ([]model.Task, error) {
	query, args := buildListQuery(ownerID, filter)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}

// Update changes only the non-nil fields in one statement scoped to the owner.
func (r *TaskRepository) Update(ctx context.Context, ownerID, id uuid.UUID, update model.TaskUpdate) (model.Task, error) {
	if err := update.CheckEnums(); err != nil {
		return model.Task{}, err
	}

	query := `UPDATE tasks SET
				title       = COALESCE($3, title),
				description = COALESCE($4, description),
				status      = COALESCE($5, status),
				priority    = COALESCE($6, priority),
				updated_at  = NOW()
			  WHERE id = $1 AND user_id = $2
			  RETURNING ` + taskColumns

	task, err := scanTask(r.db.QueryRow(ctx, query,
		id, ownerID, update.Title, update.Description,
		enumArg(update.Status), enumArg(update.Priority),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Task{}, model.ErrNotFound
		}
		return model.Task{}, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

func (r *TaskRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func buildListQuery(ownerID uuid.UUID, filter model.TaskFilter) (string, []any) {
	conditions := []string{"user_id = $1"}
	args := []any{ownerID}

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Priority != "" {
		args = append(args, string(filter.Priority))
		conditions = append(conditions, fmt.Sprintf("priority = $%d", len(args)))
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` +
		strings.Join(conditions, " AND ") +
		` ORDER BY created_at DESC, id DESC`

	return query, args
}

func enumArg[T ~string](v *T) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

func scanTask(row pgx.Row) (model.Task, error) {
	var (
		task             model.Task
		status, priority string
	)
	err := row.Scan(
		&task.ID, &task.UserID, &task.Title, &task.Description,
		&status, &priority, &task.CreatedAt, &task.UpdatedAt,
	)
	task.Status = model.TaskStatus(status)
	task.Priority = model.TaskPriority(priority)
	return task, err
}
