package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gurkanbulca/projecttracker/internal/models"
	"github.com/gurkanbulca/projecttracker/internal/repository"
	"github.com/gurkanbulca/projecttracker/pkg/logger"
)

type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
	StartDate   string `json:"start_date" validate:"omitempty,date"`
	EndDate     string `json:"end_date" validate:"omitempty,date"`
	UserID      string `json:"user_id" validate:"required,integer"`
}

type ProjectService struct {
	projects *repository.ProjectRepository
	tasks    *repository.TaskRepository
	comments *repository.CommentRepository
	users    *repository.UserRepository
}

func NewProjectService(
	projects *repository.ProjectRepository,
	tasks *repository.TaskRepository,
	comments *repository.CommentRepository,
	users *repository.UserRepository,
) *ProjectService {
	return &ProjectService{
		projects: projects,
		tasks:    tasks,
		comments: comments,
		users:    users,
	}
}

// List returns live projects, newest first, each with its owner and the
// counts of its live tasks. search filters by name substring.
func (s *ProjectService) List(ctx context.Context, search string) (*ProjectListView, error) {
	filter := repository.ProjectFilter{Search: strings.TrimSpace(search)}

	projects, err := s.projects.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	counts, err := s.projects.TaskCounts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count project tasks: %w", err)
	}

	views := make([]ProjectView, 0, len(projects))
	for i := range projects {
		views = append(views, newProjectView(&projects[i], counts[projects[i].ID]))
	}

	return &ProjectListView{
		Projects: views,
		Filters:  ProjectFilters{Search: filter.Search},
	}, nil
}

// Show returns a project with its live tasks, their assignees and comments.
func (s *ProjectService) Show(ctx context.Context, id int64) (*ProjectDetailView, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListByProject(ctx, id)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	comments, err := s.comments.ListByTasks(ctx, ids)
	if err != nil {
		return nil, err
	}

	byTask := make(map[int64][]CommentView, len(tasks))
	for i := range comments {
		c := &comments[i]
		byTask[c.TaskID] = append(byTask[c.TaskID], newCommentView(c))
	}

	var counts models.TaskCount
	taskViews := make([]TaskView, 0, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		v := newTaskView(&t.Task, userRef(t.AssigneeID, t.AssigneeName))
		if cs, ok := byTask[t.ID]; ok {
			v.Comments = cs
		}
		taskViews = append(taskViews, v)

		counts.Total++
		if t.Status == models.StatusCompleted {
			counts.Completed++
		}
	}

	return &ProjectDetailView{
		Project: ProjectDetail{
			ProjectView: newProjectView(project, counts),
			Tasks:       taskViews,
		},
	}, nil
}

// Create validates req and stores a new project.
func (s *ProjectService) Create(ctx context.Context, req CreateProjectRequest) (*ProjectView, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)

	verr := validateStruct(req)

	start := optionalDate(req.StartDate)
	end := optionalDate(req.EndDate)
	if start != nil && end != nil && end.Before(*start) {
		verr.Add("end_date", "The end date field must be a date after or equal to start date.")
	}

	ownerID, err := optionalID(req.UserID)
	if err != nil && !verr.Has("user_id") {
		verr.Add("user_id", "The user id field must be an integer.")
	}
	if ownerID != nil && !verr.Has("user_id") {
		ok, err := s.users.Exists(ctx, *ownerID)
		if err != nil {
			return nil, err
		}
		if !ok {
			verr.Add("user_id", invalidReference("user_id"))
		}
	}

	if err := verr.err(); err != nil {
		return nil, err
	}

	project, err := s.projects.Create(ctx, &repository.ProjectInput{
		Name:        req.Name,
		Description: optionalString(req.Description),
		StartDate:   start,
		EndDate:     end,
		UserID:      *ownerID,
	})
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	logger.FromContext(ctx).Info("project created", "project_id", project.ID, "user_id", project.UserID)

	view := newProjectView(project, models.TaskCount{})
	return &view, nil
}

// Delete removes a project and everything under it.
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete project: %w", err)
	}

	logger.FromContext(ctx).Info("project deleted", "project_id", id)
	return nil
}
