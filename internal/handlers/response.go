package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gurkanbulca/projecttracker/internal/service"
	"github.com/gurkanbulca/projecttracker/pkg/logger"
)

type messageResponse struct {
	Message string `json:"message"`
}

type validationResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps service errors onto status codes. Unexpected errors are
// logged and hidden from the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if verr, ok := service.IsValidationError(err); ok {
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{
			Message: verr.Message(),
			Errors:  verr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		notFound(w, r)
	case errors.Is(err, service.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "Unauthenticated."})
	case errors.Is(err, errBadRequest):
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Malformed request body."})
	default:
		logger.FromContext(r.Context()).Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Server Error"})
	}
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, messageResponse{Message: "Not found."})
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, messageResponse{Message: "Method not allowed."})
}

// redirect answers a mutation with 303 See Other so the follow-up is a GET.
func redirect(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// back redirects to the referring page, or fallback when there is none or it
// points at another host.
func back(w http.ResponseWriter, r *http.Request, fallback string) {
	location := localReferer(r)
	if location == "" {
		location = fallback
	}
	redirect(w, r, location)
}

// localReferer returns the Referer as a path on this host, or "" when it is
// missing, unparsable or cross-origin.
func localReferer(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" {
		return ""
	}
	if ref.Host != "" && !strings.EqualFold(ref.Host, r.Host) {
		return ""
	}
	if ref.Scheme != "" && ref.Scheme != "http" && ref.Scheme != "https" {
		return ""
	}
	// Browsers read "//host" and "/\host" as another origin.
	if !strings.HasPrefix(ref.Path, "/") || strings.HasPrefix(ref.Path, "//") || strings.HasPrefix(ref.Path, "/\\") {
		return ""
	}
	return ref.RequestURI()
}
