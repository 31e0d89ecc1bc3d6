package models

import (
	"database/sql"
	"time"
)

type User struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type Project struct {
	ID          int64          `db:"id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	StartDate   sql.NullTime   `db:"start_date"`
	EndDate     sql.NullTime   `db:"end_date"`
	UserID      int64          `db:"user_id"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
	DeletedAt   sql.NullTime   `db:"deleted_at"`
}

// ProjectWithOwner is a project row joined with its owner. The owner columns
// are null when the referenced user no longer exists.
type ProjectWithOwner struct {
	Project
	OwnerID   sql.NullInt64  `db:"owner_id"`
	OwnerName sql.NullString `db:"owner_name"`
}

// TaskCount is the per-project aggregation of non-deleted tasks.
type TaskCount struct {
	ProjectID int64 `db:"project_id"`
	Total     int64 `db:"total"`
	Completed int64 `db:"completed"`
}
