package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gurkanbulca/projecttracker/internal/models"
)

const taskColumns = `t.id, t.project_id, t.assigned_to, t.title, t.status, t.due_date,
	t.created_at, t.updated_at, t.deleted_at`

// Tasks without a due date sort after dated ones on every driver; id breaks ties.
const taskOrder = `ORDER BY t.due_date IS NULL, t.due_date ASC, t.id ASC`

type TaskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

type TaskInput struct {
	ProjectID  int64
	AssignedTo *int64
	Title      string
	Status     models.Status
	DueDate    *time.Time
}

func (r *TaskRepository) Create(ctx context.Context, in *TaskInput) (*models.Task, error) {
	status := in.Status
	if status == "" {
		status = models.StatusPending
	}

	ts := now()
	var id int64
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(
		`INSERT INTO tasks (project_id, assigned_to, title, status, due_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		in.ProjectID, nullInt64(in.AssignedTo), in.Title, status, nullTime(in.DueDate), ts, ts,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID returns a live task.
func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	return r.get(ctx, `SELECT `+taskColumns+` FROM tasks t WHERE t.id = ? AND t.deleted_at IS NULL`, id)
}

// GetByIDWithDeleted returns a task whether or not it has been soft-deleted.
func (r *TaskRepository) GetByIDWithDeleted(ctx context.Context, id int64) (*models.Task, error) {
	return r.get(ctx, `SELECT `+taskColumns+` FROM tasks t WHERE t.id = ?`, id)
}

func (r *TaskRepository) get(ctx context.Context, query string, id int64) (*models.Task, error) {
	var t models.Task
	if err := r.db.GetContext(ctx, &t, r.db.Rebind(query), id); err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// ListByProject returns the live tasks of a project with their assignees.
func (r *TaskRepository) ListByProject(ctx context.Context, projectID int64) ([]models.TaskWithAssignee, error) {
	tasks := []models.TaskWithAssignee{}
	err := r.db.SelectContext(ctx, &tasks, r.db.Rebind(
		`SELECT `+taskColumns+`, u.id AS assignee_id, u.name AS assignee_name
		 FROM tasks t
		 LEFT JOIN users u ON u.id = t.assigned_to
		 WHERE t.project_id = ? AND t.deleted_at IS NULL
		 `+taskOrder), projectID)
	if err != nil {
		return nil, fmt.Errorf("query tasks of project %d: %w", projectID, err)
	}
	return tasks, nil
}

// ListByUser returns the live tasks assigned to userID in live projects.
func (r *TaskRepository) ListByUser(ctx context.Context, userID int64) ([]models.UserTask, error) {
	tasks := []models.UserTask{}
	err := r.db.SelectContext(ctx, &tasks, r.db.Rebind(
		`SELECT t.id, t.title, t.status, t.due_date, p.id AS project_id, p.name AS project_name
		 FROM tasks t
		 JOIN projects p ON t.project_id = p.id
		 WHERE t.assigned_to = ? AND t.deleted_at IS NULL AND p.deleted_at IS NULL
		 `+taskOrder), userID)
	if err != nil {
		return nil, fmt.Errorf("query tasks of user %d: %w", userID, err)
	}
	return tasks, nil
}

// UpdateStatus stores status on a live task.
func (r *TaskRepository) UpdateStatus(ctx context.Context, id int64, status models.Status) error {
	if !status.Valid() {
		return fmt.Errorf("update task %d: invalid status %q", id, status)
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(
		`UPDATE tasks SET status = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`),
		status, now(), id)
	if err != nil {
		return fmt.Errorf("update task %d: %w", id, err)
	}
	return expectAffected(res)
}

// SoftDelete marks a live task as deleted; the row stays in place.
func (r *TaskRepository) SoftDelete(ctx context.Context, id int64) error {
	ts := now()
	res, err := r.db.ExecContext(ctx, r.db.Rebind(
		`UPDATE tasks SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`),
		ts, ts, id)
	if err != nil {
		return fmt.Errorf("soft delete task %d: %w", id, err)
	}
	return expectAffected(res)
}

// Touch bumps updated_at on a live task without changing anything else.
func (r *TaskRepository) Touch(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(
		`UPDATE tasks SET updated_at = ? WHERE id = ? AND deleted_at IS NULL`), now(), id)
	if err != nil {
		return fmt.Errorf("touch task %d: %w", id, err)
	}
	return expectAffected(res)
}
