package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gurkanbulca/projecttracker/internal/models"
)

type CommentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, taskID, userID int64, comment string) (*models.CommentWithAuthor, error) {
	ts := now()
	var id int64
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(
		`INSERT INTO task_comments (task_id, user_id, comment, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`),
		taskID, userID, comment, ts, ts,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	var c models.CommentWithAuthor
	err = r.db.GetContext(ctx, &c, r.db.Rebind(
		`SELECT c.id, c.task_id, c.user_id, c.comment, c.created_at, c.updated_at,
		        u.id AS author_id, u.name AS author_name
		 FROM task_comments c
		 LEFT JOIN users u ON u.id = c.user_id
		 WHERE c.id = ?`), id)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// ListByTasks returns the comments of the given tasks in creation order.
func (r *CommentRepository) ListByTasks(ctx context.Context, taskIDs []int64) ([]models.CommentWithAuthor, error) {
	comments := []models.CommentWithAuthor{}
	if len(taskIDs) == 0 {
		return comments, nil
	}

	query, args, err := sqlx.In(
		`SELECT c.id, c.task_id, c.user_id, c.comment, c.created_at, c.updated_at,
		        u.id AS author_id, u.name AS author_name
		 FROM task_comments c
		 LEFT JOIN users u ON u.id = c.user_id
		 WHERE c.task_id IN (?)
		 ORDER BY c.created_at ASC, c.id ASC`, taskIDs)
	if err != nil {
		return nil, fmt.Errorf("build comment query: %w", err)
	}

	if err := r.db.SelectContext(ctx, &comments, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	return comments, nil
}
