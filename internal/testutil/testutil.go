// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/projecttracker/internal/database"
	"github.com/gurkanbulca/projecttracker/internal/models"
)

// OpenDB returns a migrated, private in-memory SQLite database that is closed
// when the test ends.
func OpenDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", uuid.NewString())
	db, err := sqlx.Open(database.DriverSQLite, dsn)
	require.NoError(t, err)

	// A single connection keeps the shared in-memory database alive and
	// serialises access the way the tests expect.
	db.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(context.Background(), db))
	t.Cleanup(func() { db.Close() })
	return db
}

// Helpers inserts fixture rows directly, bypassing the repositories under test.
type Helpers struct {
	t  *testing.T
	db *sqlx.DB
	// clock is advanced on every insert so created_at ordering is deterministic.
	clock time.Time
}

func NewHelpers(t *testing.T, db *sqlx.DB) *Helpers {
	return &Helpers{
		t:     t,
		db:    db,
		clock: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (h *Helpers) tick() time.Time {
	h.clock = h.clock.Add(time.Minute)
	return h.clock
}

func (h *Helpers) insert(query string, args ...any) int64 {
	h.t.Helper()
	var id int64
	err := h.db.QueryRowx(h.db.Rebind(query+" RETURNING id"), args...).Scan(&id)
	require.NoError(h.t, err)
	return id
}

// CreateUser creates a user with a unique email.
func (h *Helpers) CreateUser(name string) int64 {
	h.t.Helper()
	now := h.tick()
	return h.insert(
		`INSERT INTO users (name, email, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		name, uuid.NewString()+"@example.com", now, now,
	)
}

// CreateProject creates a project owned by ownerID.
func (h *Helpers) CreateProject(ownerID int64, name string) int64 {
	h.t.Helper()
	now := h.tick()
	return h.insert(
		`INSERT INTO projects (name, user_id, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		name, ownerID, now, now,
	)
}

// TaskFixture describes a task row; zero values mean "unset".
type TaskFixture struct {
	Title      string
	Status     models.Status
	AssignedTo int64
	DueDate    *time.Time
	Deleted    bool
}

// CreateTask creates a task in projectID.
func (h *Helpers) CreateTask(projectID int64, f TaskFixture) int64 {
	h.t.Helper()
	now := h.tick()

	if f.Title == "" {
		f.Title = "task"
	}
	if f.Status == "" {
		f.Status = models.StatusPending
	}
	var assignedTo sql.NullInt64
	if f.AssignedTo != 0 {
		assignedTo = sql.NullInt64{Int64: f.AssignedTo, Valid: true}
	}
	var dueDate sql.NullTime
	if f.DueDate != nil {
		dueDate = sql.NullTime{Time: *f.DueDate, Valid: true}
	}
	var deletedAt sql.NullTime
	if f.Deleted {
		deletedAt = sql.NullTime{Time: now, Valid: true}
	}

	return h.insert(
		`INSERT INTO tasks (project_id, assigned_to, title, status, due_date, created_at, updated_at, deleted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		projectID, assignedTo, f.Title, f.Status, dueDate, now, now, deletedAt,
	)
}

// CreateComment adds a comment authored by userID to taskID.
func (h *Helpers) CreateComment(taskID, userID int64, text string) int64 {
	h.t.Helper()
	now := h.tick()
	return h.insert(
		`INSERT INTO task_comments (task_id, user_id, comment, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		taskID, userID, text, now, now,
	)
}

// Count returns the number of rows in table matching the optional where clause.
func (h *Helpers) Count(table, where string, args ...any) int {
	h.t.Helper()
	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	var n int
	require.NoError(h.t, h.db.Get(&n, h.db.Rebind(query), args...))
	return n
}

// Date returns a UTC midnight date for fixtures.
func Date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}
