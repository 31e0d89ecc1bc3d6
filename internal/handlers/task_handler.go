package handlers

import (
	"fmt"
	"net/http"

	"github.com/gurkanbulca/projecttracker/internal/service"
)

type TaskHandler struct {
	tasks *service.TaskService
}

// Create handles POST /projects/{id}/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(r, "id")
	if !ok {
		notFound(w, r)
		return
	}

	in, err := decodeInput(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	_, err = h.tasks.Create(r.Context(), projectID, service.CreateTaskRequest{
		Title:      in.get("title"),
		AssignedTo: in.get("assigned_to"),
		DueDate:    in.get("due_date"),
		Status:     in.get("status"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	redirect(w, r, projectURL(projectID))
}

// UpdateStatus handles POST /tasks/{id}/status
func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		notFound(w, r)
		return
	}

	in, err := decodeInput(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	task, err := h.tasks.UpdateStatus(r.Context(), id, service.UpdateStatusRequest{
		Status:  in.get("status"),
		Advance: in.get("advance"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	back(w, r, projectURL(task.ProjectID))
}

// Delete handles DELETE /tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		notFound(w, r)
		return
	}

	task, err := h.tasks.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	back(w, r, projectURL(task.ProjectID))
}

// ListByUser handles GET /users/{id}/tasks
func (h *TaskHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "id")
	if !ok {
		notFound(w, r)
		return
	}

	view, err := h.tasks.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func projectURL(id int64) string {
	return fmt.Sprintf("/projects/%d", id)
}
