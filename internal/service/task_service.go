package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gurkanbulca/projecttracker/internal/models"
	"github.com/gurkanbulca/projecttracker/internal/repository"
	"github.com/gurkanbulca/projecttracker/pkg/logger"
)

type CreateTaskRequest struct {
	Title      string `json:"title" validate:"required,max=255"`
	AssignedTo string `json:"assigned_to" validate:"omitempty,integer"`
	DueDate    string `json:"due_date" validate:"omitempty,date"`
	Status     string `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
}

// UpdateStatusRequest either sets Status explicitly or, when Advance is
// truthy, moves the task one step along its lifecycle. Advance wins.
type UpdateStatusRequest struct {
	Status  string `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
	Advance string `json:"advance" validate:"omitempty,boolean"`
}

type TaskService struct {
	tasks    *repository.TaskRepository
	projects *repository.ProjectRepository
	users    *repository.UserRepository
}

func NewTaskService(
	tasks *repository.TaskRepository,
	projects *repository.ProjectRepository,
	users *repository.UserRepository,
) *TaskService {
	return &TaskService{
		tasks:    tasks,
		projects: projects,
		users:    users,
	}
}

// Create adds a task to a live project.
func (s *TaskService) Create(ctx context.Context, projectID int64, req CreateTaskRequest) (*TaskView, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	req.Title = strings.TrimSpace(req.Title)
	verr := validateStruct(req)

	assignee, err := optionalID(req.AssignedTo)
	if err != nil && !verr.Has("assigned_to") {
		verr.Add("assigned_to", "The assigned to field must be an integer.")
	}
	if assignee != nil && !verr.Has("assigned_to") {
		ok, err := s.users.Exists(ctx, *assignee)
		if err != nil {
			return nil, err
		}
		if !ok {
			verr.Add("assigned_to", invalidReference("assigned_to"))
		}
	}

	if err := verr.err(); err != nil {
		return nil, err
	}

	task, err := s.tasks.Create(ctx, &repository.TaskInput{
		ProjectID:  projectID,
		AssignedTo: assignee,
		Title:      req.Title,
		Status:     models.Status(req.Status),
		DueDate:    optionalDate(req.DueDate),
	})
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	logger.FromContext(ctx).Info("task created", "task_id", task.ID, "project_id", projectID)

	view := newTaskView(task, nil)
	return &view, nil
}

// UpdateStatus applies req to a live task and returns the stored result.
// A request carrying neither field still bumps updated_at.
func (s *TaskService) UpdateStatus(ctx context.Context, id int64, req UpdateStatusRequest) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validateStruct(req).err(); err != nil {
		return nil, err
	}

	var next models.Status
	switch {
	case truthy(req.Advance):
		next = models.Advance(task.Status)
	case req.Status != "":
		next = models.Status(req.Status)
	}

	if next == "" {
		err = s.tasks.Touch(ctx, id)
	} else {
		err = s.tasks.UpdateStatus(ctx, id, next)
	}
	if err != nil {
		return nil, err
	}

	if next != "" && next != task.Status {
		logger.FromContext(ctx).Info("task status changed",
			"task_id", id, "from", task.Status, "to", next)
	}

	return s.tasks.GetByID(ctx, id)
}

// Delete soft-deletes a task and returns it as it was before deletion.
func (s *TaskService) Delete(ctx context.Context, id int64) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.SoftDelete(ctx, id); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("task deleted", "task_id", id, "project_id", task.ProjectID)
	return task, nil
}

// ListByUser returns the live tasks assigned to userID inside live projects.
// An unknown user simply has no tasks.
func (s *TaskService) ListByUser(ctx context.Context, userID int64) (*UserTasksView, error) {
	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]UserTaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, UserTaskView{
			ID:          t.ID,
			Title:       t.Title,
			Status:      t.Status,
			DueDate:     dateString(t.DueDate),
			ProjectID:   t.ProjectID,
			ProjectName: t.ProjectName,
		})
	}

	return &UserTasksView{Tasks: views, UserID: userID}, nil
}
