package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gurkanbulca/projecttracker/internal/repository"
	"github.com/gurkanbulca/projecttracker/pkg/logger"
)

type CreateCommentRequest struct {
	Comment string `json:"comment" validate:"required"`
}

type CommentService struct {
	comments *repository.CommentRepository
	tasks    *repository.TaskRepository
}

func NewCommentService(comments *repository.CommentRepository, tasks *repository.TaskRepository) *CommentService {
	return &CommentService{comments: comments, tasks: tasks}
}

// Create adds a comment by userID to a live task and returns it with its
// author attached.
func (s *CommentService) Create(ctx context.Context, taskID, userID int64, req CreateCommentRequest) (*CommentView, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		return nil, err
	}

	req.Comment = strings.TrimSpace(req.Comment)
	if err := validateStruct(req).err(); err != nil {
		return nil, err
	}

	comment, err := s.comments.Create(ctx, taskID, userID, req.Comment)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	logger.FromContext(ctx).Info("comment added", "comment_id", comment.ID, "task_id", taskID, "user_id", userID)

	view := newCommentView(comment)
	return &view, nil
}
