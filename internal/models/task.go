package models

import (
	"database/sql"
	"time"
)

type Task struct {
	ID         int64         `db:"id"`
	ProjectID  int64         `db:"project_id"`
	AssignedTo sql.NullInt64 `db:"assigned_to"`
	Title      string        `db:"title"`
	Status     Status        `db:"status"`
	DueDate    sql.NullTime  `db:"due_date"`
	CreatedAt  time.Time     `db:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at"`
	DeletedAt  sql.NullTime  `db:"deleted_at"`
}

// Deleted reports whether the task has been soft-deleted.
func (t *Task) Deleted() bool {
	return t.DeletedAt.Valid
}

// TaskWithAssignee is a task row joined with its (optional) assignee.
type TaskWithAssignee struct {
	Task
	AssigneeID   sql.NullInt64  `db:"assignee_id"`
	AssigneeName sql.NullString `db:"assignee_name"`
}

// UserTask is the flat row returned when listing a user's tasks.
type UserTask struct {
	ID          int64        `db:"id"`
	Title       string       `db:"title"`
	Status      Status       `db:"status"`
	DueDate     sql.NullTime `db:"due_date"`
	ProjectID   int64        `db:"project_id"`
	ProjectName string       `db:"project_name"`
}

type TaskComment struct {
	ID        int64     `db:"id"`
	TaskID    int64     `db:"task_id"`
	UserID    int64     `db:"user_id"`
	Comment   string    `db:"comment"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CommentWithAuthor is a comment row joined with its author.
type CommentWithAuthor struct {
	TaskComment
	AuthorID   sql.NullInt64  `db:"author_id"`
	AuthorName sql.NullString `db:"author_name"`
}
