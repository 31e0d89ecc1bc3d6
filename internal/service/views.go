package service

import (
	"database/sql"
	"time"

	"github.com/gurkanbulca/projecttracker/internal/models"
)

// The types below are the JSON view-models handed to the presentation layer.

type UserRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ProjectView struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description"`
	StartDate      *string   `json:"start_date"`
	EndDate        *string   `json:"end_date"`
	UserID         int64     `json:"user_id"`
	Owner          *UserRef  `json:"owner"`
	TaskCount      int64     `json:"task_count"`
	CompletedCount int64     `json:"completed_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type ProjectFilters struct {
	Search string `json:"search"`
}

type ProjectListView struct {
	Projects []ProjectView `json:"projects"`
	Filters  ProjectFilters `json:"filters"`
}

type ProjectDetail struct {
	ProjectView
	Tasks []TaskView `json:"tasks"`
}

type ProjectDetailView struct {
	Project ProjectDetail `json:"project"`
}

type TaskView struct {
	ID         int64         `json:"id"`
	ProjectID  int64         `json:"project_id"`
	AssignedTo *int64        `json:"assigned_to"`
	Title      string        `json:"title"`
	Status     models.Status `json:"status"`
	DueDate    *string       `json:"due_date"`
	Assignee   *UserRef      `json:"assignee"`
	Comments   []CommentView `json:"comments"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

type CommentView struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	UserID    int64     `json:"user_id"`
	Comment   string    `json:"comment"`
	User      *UserRef  `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserTaskView struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Status      models.Status `json:"status"`
	DueDate     *string       `json:"due_date"`
	ProjectID   int64         `json:"project_id"`
	ProjectName string        `json:"project_name"`
}

type UserTasksView struct {
	Tasks  []UserTaskView `json:"tasks"`
	UserID int64          `json:"user_id"`
}

func userRef(id sql.NullInt64, name sql.NullString) *UserRef {
	if !id.Valid {
		return nil
	}
	return &UserRef{ID: id.Int64, Name: name.String}
}

func dateString(t sql.NullTime) *string {
	if !t.Valid {
		return nil
	}
	s := t.Time.UTC().Format(dateLayout)
	return &s
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func newProjectView(p *models.ProjectWithOwner, counts models.TaskCount) ProjectView {
	return ProjectView{
		ID:             p.ID,
		Name:           p.Name,
		Description:    stringPtr(p.Description),
		StartDate:      dateString(p.StartDate),
		EndDate:        dateString(p.EndDate),
		UserID:         p.UserID,
		Owner:          userRef(p.OwnerID, p.OwnerName),
		TaskCount:      counts.Total,
		CompletedCount: counts.Completed,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func newTaskView(t *models.Task, assignee *UserRef) TaskView {
	return TaskView{
		ID:         t.ID,
		ProjectID:  t.ProjectID,
		AssignedTo: int64Ptr(t.AssignedTo),
		Title:      t.Title,
		Status:     t.Status,
		DueDate:    dateString(t.DueDate),
		Assignee:   assignee,
		Comments:   []CommentView{},
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

func newCommentView(c *models.CommentWithAuthor) CommentView {
	return CommentView{
		ID:        c.ID,
		TaskID:    c.TaskID,
		UserID:    c.UserID,
		Comment:   c.Comment,
		User:      userRef(c.AuthorID, c.AuthorName),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
