package repository

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"

	"github.com/gurkanbulca/projecttracker/internal/models"
)

type ProjectRepository struct {
	db *sqlx.DB
}

func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Types for repository input
type ProjectInput struct {
	Name        string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	UserID      int64
}

type ProjectFilter struct {
	// Search is a substring matched against the project name using the
	// store's default LIKE collation. Empty means no filter.
	Search string
}

func (r *ProjectRepository) Create(ctx context.Context, in *ProjectInput) (*models.ProjectWithOwner, error) {
	ts := now()
	var id int64
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(
		`INSERT INTO projects (name, description, start_date, end_date, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		in.Name, nullString(in.Description), nullTime(in.StartDate), nullTime(in.EndDate), in.UserID, ts, ts,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID returns a live project with its owner.
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*models.ProjectWithOwner, error) {
	var p models.ProjectWithOwner
	err := r.db.GetContext(ctx, &p, r.db.Rebind(
		`SELECT p.id, p.name, p.description, p.start_date, p.end_date, p.user_id,
		        p.created_at, p.updated_at, p.deleted_at,
		        u.id AS owner_id, u.name AS owner_name
		 FROM projects p
		 LEFT JOIN users u ON u.id = p.user_id
		 WHERE p.id = ? AND p.deleted_at IS NULL`), id)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// List returns live projects with their owners, newest first.
func (r *ProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]models.ProjectWithOwner, error) {
	b := builder(r.db)
	p := b.Table("projects")
	u := b.Table("users")

	s := b.Select(
		p.C("id"), p.C("name"), p.C("description"), p.C("start_date"), p.C("end_date"),
		p.C("user_id"), p.C("created_at"), p.C("updated_at"), p.C("deleted_at"),
		entsql.As(u.C("id"), "owner_id"),
		entsql.As(u.C("name"), "owner_name"),
	).From(p)
	s.LeftJoin(u).On(p.C("user_id"), u.C("id"))
	s.Where(entsql.IsNull(p.C("deleted_at")))
	if filter.Search != "" {
		s.Where(entsql.Contains(p.C("name"), filter.Search))
	}
	s.OrderBy(entsql.Desc(p.C("created_at")), entsql.Desc(p.C("id")))

	query, args := s.Query()
	projects := []models.ProjectWithOwner{}
	if err := r.db.SelectContext(ctx, &projects, query, args...); err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	return projects, nil
}

// TaskCounts aggregates live tasks per project: the total and how many are
// completed. With a search term the tasks are joined to their project and the
// same name filter is applied to the join, independently of List.
func (r *ProjectRepository) TaskCounts(ctx context.Context, filter ProjectFilter) (map[int64]models.TaskCount, error) {
	b := builder(r.db)
	t := b.Table("tasks")

	completed := fmt.Sprintf("SUM(CASE WHEN %s = '%s' THEN 1 ELSE 0 END)", t.C("status"), models.StatusCompleted)
	s := b.Select(
		t.C("project_id"),
		entsql.As(entsql.Count("*"), "total"),
		entsql.As(completed, "completed"),
	).From(t)
	if filter.Search != "" {
		p := b.Table("projects")
		s.Join(p).On(t.C("project_id"), p.C("id"))
		s.Where(entsql.Contains(p.C("name"), filter.Search))
	}
	s.Where(entsql.IsNull(t.C("deleted_at")))
	s.GroupBy(t.C("project_id"))

	query, args := s.Query()
	var rows []models.TaskCount
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	counts := make(map[int64]models.TaskCount, len(rows))
	for _, row := range rows {
		counts[row.ProjectID] = row
	}
	return counts, nil
}

// Delete hard-deletes a live project together with its tasks (soft-deleted
// ones included) and their comments, in one transaction.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(
		`DELETE FROM task_comments WHERE task_id IN (SELECT id FROM tasks WHERE project_id = ?)`), id); err != nil {
		return rollback(tx, fmt.Errorf("delete comments of project %d: %w", id, err))
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM tasks WHERE project_id = ?`), id); err != nil {
		return rollback(tx, fmt.Errorf("delete tasks of project %d: %w", id, err))
	}

	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM projects WHERE id = ? AND deleted_at IS NULL`), id)
	if err != nil {
		return rollback(tx, fmt.Errorf("delete project %d: %w", id, err))
	}
	if err := expectAffected(res); err != nil {
		return rollback(tx, err)
	}

	return tx.Commit()
}
