package service

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/projecttracker/internal/models"
	"github.com/gurkanbulca/projecttracker/internal/repository"
	"github.com/gurkanbulca/projecttracker/internal/testutil"
)

type testServices struct {
	db       *sqlx.DB
	h        *testutil.Helpers
	projects *ProjectService
	tasks    *TaskService
	comments *CommentService
	taskRepo *repository.TaskRepository
}

// Test helpers
func setupServices(t *testing.T) *testServices {
	db := testutil.OpenDB(t)

	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	userRepo := repository.NewUserRepository(db)

	return &testServices{
		db:       db,
		h:        testutil.NewHelpers(t, db),
		projects: NewProjectService(projectRepo, taskRepo, commentRepo, userRepo),
		tasks:    NewTaskService(taskRepo, projectRepo, userRepo),
		comments: NewCommentService(commentRepo, taskRepo),
		taskRepo: taskRepo,
	}
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

func findProject(t *testing.T, list *ProjectListView, id int64) ProjectView {
	t.Helper()
	for _, p := range list.Projects {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("project %d not in list", id)
	return ProjectView{}
}

func TestProjectService_List(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	ada := s.h.CreateUser("Ada")
	website := s.h.CreateProject(ada, "Company Website")
	mobile := s.h.CreateProject(ada, "Mobile App")
	empty := s.h.CreateProject(ada, "Website Backlog")

	s.h.CreateTask(website, testutil.TaskFixture{Status: models.StatusCompleted})
	s.h.CreateTask(website, testutil.TaskFixture{Status: models.StatusPending})
	s.h.CreateTask(website, testutil.TaskFixture{Status: models.StatusCompleted, Deleted: true})
	s.h.CreateTask(mobile, testutil.TaskFixture{Status: models.StatusCompleted})

	t.Run("counts only live tasks", func(t *testing.T) {
		list, err := s.projects.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, list.Projects, 3)
		assert.Equal(t, "", list.Filters.Search)

		w := findProject(t, list, website)
		assert.Equal(t, int64(2), w.TaskCount)
		assert.Equal(t, int64(1), w.CompletedCount)
		require.NotNil(t, w.Owner)
		assert.Equal(t, UserRef{ID: ada, Name: "Ada"}, *w.Owner)

		e := findProject(t, list, empty)
		assert.Zero(t, e.TaskCount)
		assert.Zero(t, e.CompletedCount)
	})

	t.Run("search filters projects and counts", func(t *testing.T) {
		list, err := s.projects.List(ctx, "  Website ")
		require.NoError(t, err)
		assert.Equal(t, "Website", list.Filters.Search)

		require.Len(t, list.Projects, 2)
		for _, p := range list.Projects {
			assert.Contains(t, p.Name, "Website")
		}
		assert.Equal(t, empty, list.Projects[0].ID, "newest first")
		assert.Equal(t, int64(2), findProject(t, list, website).TaskCount)
	})
}

func TestProjectService_Show(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	ada := s.h.CreateUser("Ada")
	bob := s.h.CreateUser("Bob")
	project := s.h.CreateProject(ada, "Website")

	undated := s.h.CreateTask(project, testutil.TaskFixture{Title: "undated"})
	dated := s.h.CreateTask(project, testutil.TaskFixture{Title: "dated", AssignedTo: bob, DueDate: testutil.Date(2025, 2, 3), Status: models.StatusCompleted})
	gone := s.h.CreateTask(project, testutil.TaskFixture{Title: "gone", Deleted: true})
	s.h.CreateComment(dated, ada, "first")
	s.h.CreateComment(dated, bob, "second")

	view, err := s.projects.Show(ctx, project)
	require.NoError(t, err)

	p := view.Project
	assert.Equal(t, "Website", p.Name)
	require.NotNil(t, p.Owner)
	assert.Equal(t, "Ada", p.Owner.Name)
	assert.Equal(t, int64(2), p.TaskCount)
	assert.Equal(t, int64(1), p.CompletedCount)

	require.Len(t, p.Tasks, 2)
	assert.Equal(t, dated, p.Tasks[0].ID)
	assert.Equal(t, undated, p.Tasks[1].ID)
	for _, task := range p.Tasks {
		assert.NotEqual(t, gone, task.ID)
	}

	first := p.Tasks[0]
	require.NotNil(t, first.DueDate)
	assert.Equal(t, "2025-02-03", *first.DueDate)
	require.NotNil(t, first.Assignee)
	assert.Equal(t, UserRef{ID: bob, Name: "Bob"}, *first.Assignee)
	require.Len(t, first.Comments, 2)
	assert.Equal(t, "first", first.Comments[0].Comment)
	assert.Equal(t, "Ada", first.Comments[0].User.Name)
	assert.Equal(t, "second", first.Comments[1].Comment)

	assert.Nil(t, p.Tasks[1].Assignee)
	assert.Nil(t, p.Tasks[1].DueDate)
	assert.NotNil(t, p.Tasks[1].Comments)
	assert.Empty(t, p.Tasks[1].Comments)

	_, err = s.projects.Show(ctx, project+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectService_Create(t *testing.T) {
	tests := []struct {
		name       string
		request    func(owner int64) CreateProjectRequest
		wantFields []string
	}{
		{
			name: "successful creation",
			request: func(owner int64) CreateProjectRequest {
				return CreateProjectRequest{
					Name:        "Website",
					Description: "Relaunch",
					StartDate:   "2025-03-01",
					EndDate:     "2025-03-01",
					UserID:      itoa(owner),
				}
			},
		},
		{
			name: "missing name",
			request: func(owner int64) CreateProjectRequest {
				return CreateProjectRequest{Name: "   ", UserID: itoa(owner)}
			},
			wantFields: []string{"name"},
		},
		{
			name: "name too long",
			request: func(owner int64) CreateProjectRequest {
				return CreateProjectRequest{Name: strings.Repeat("a", 256), UserID: itoa(owner)}
			},
			wantFields: []string{"name"},
		},
		{
			name: "end date before start date",
			request: func(owner int64) CreateProjectRequest {
				return CreateProjectRequest{
					Name:      "Website",
					StartDate: "2025-03-02",
					EndDate:   "2025-03-01",
					UserID:    itoa(owner),
				}
			},
			wantFields: []string{"end_date"},
		},
		{
			name: "malformed date",
			request: func(owner int64) CreateProjectRequest {
				return CreateProjectRequest{Name: "Website", StartDate: "next week", UserID: itoa(owner)}
			},
			wantFields: []string{"start_date"},
		},
		{
			name: "unknown owner",
			request: func(owner int64) CreateProjectRequest {
				return CreateProjectRequest{Name: "Website", UserID: itoa(owner + 100)}
			},
			wantFields: []string{"user_id"},
		},
		{
			name: "owner id overflows int64",
			request: func(int64) CreateProjectRequest {
				return CreateProjectRequest{Name: "Website", UserID: "99999999999999999999"}
			},
			wantFields: []string{"user_id"},
		},
		{
			name: "missing owner",
			request: func(int64) CreateProjectRequest {
				return CreateProjectRequest{Name: "Website"}
			},
			wantFields: []string{"user_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupServices(t)
			owner := s.h.CreateUser("Ada")

			project, err := s.projects.Create(context.Background(), tt.request(owner))

			if len(tt.wantFields) > 0 {
				verr, ok := IsValidationError(err)
				require.True(t, ok, "expected validation error, got %v", err)
				for _, f := range tt.wantFields {
					assert.Contains(t, verr.Fields, f)
				}
				assert.Equal(t, 0, s.h.Count("projects", ""))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Website", project.Name)
			require.NotNil(t, project.Description)
			assert.Equal(t, "Relaunch", *project.Description)
			require.NotNil(t, project.EndDate)
			assert.Equal(t, "2025-03-01", *project.EndDate)
			assert.Equal(t, owner, project.Owner.ID)
			assert.Equal(t, 1, s.h.Count("projects", ""))
		})
	}
}

func TestProjectService_Delete(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	ada := s.h.CreateUser("Ada")
	project := s.h.CreateProject(ada, "Website")
	task := s.h.CreateTask(project, testutil.TaskFixture{})
	s.h.CreateComment(task, ada, "bye")

	require.NoError(t, s.projects.Delete(ctx, project))

	list, err := s.projects.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, list.Projects)

	_, err = s.projects.Show(ctx, project)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, s.h.Count("tasks", ""))
	assert.Equal(t, 0, s.h.Count("task_comments", ""))

	assert.ErrorIs(t, s.projects.Delete(ctx, project), ErrNotFound)
}
