package handlers

import (
	"net/http"

	"github.com/gurkanbulca/projecttracker/internal/middleware"
	"github.com/gurkanbulca/projecttracker/internal/service"
)

type CommentHandler struct {
	comments *service.CommentService
}

type commentCreatedResponse struct {
	Message string               `json:"message"`
	Comment *service.CommentView `json:"comment"`
}

// Create handles POST /tasks/{id}/comments. JSON clients receive the new
// comment; everyone else is sent back to the page they came from.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathID(r, "id")
	if !ok {
		notFound(w, r)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, service.ErrUnauthenticated)
		return
	}

	in, err := decodeInput(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	comment, err := h.comments.Create(r.Context(), taskID, userID, service.CreateCommentRequest{
		Comment: in.get("comment"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	if middleware.WantsJSON(r) {
		writeJSON(w, http.StatusCreated, commentCreatedResponse{
			Message: "Comment added",
			Comment: comment,
		})
		return
	}

	back(w, r, "/projects")
}
