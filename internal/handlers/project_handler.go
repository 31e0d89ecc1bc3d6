package handlers

import (
	"net/http"

	"github.com/gurkanbulca/projecttracker/internal/service"
)

type ProjectHandler struct {
	projects *service.ProjectService
}

// List handles GET /projects?search=...
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	view, err := h.projects.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Show handles GET /projects/{id}
func (h *ProjectHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		notFound(w, r)
		return
	}

	view, err := h.projects.Show(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Create handles POST /projects
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	project, err := h.projects.Create(r.Context(), service.CreateProjectRequest{
		Name:        in.get("name"),
		Description: in.get("description"),
		StartDate:   in.get("start_date"),
		EndDate:     in.get("end_date"),
		UserID:      in.get("user_id"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	redirect(w, r, projectURL(project.ID))
}

// Delete handles DELETE /projects/{id}
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		notFound(w, r)
		return
	}

	if err := h.projects.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	redirect(w, r, "/projects")
}
