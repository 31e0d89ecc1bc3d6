// Package handlers exposes the services over HTTP.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/gurkanbulca/projecttracker/internal/middleware"
	"github.com/gurkanbulca/projecttracker/internal/service"
)

type RouterConfig struct {
	Projects *service.ProjectService
	Tasks    *service.TaskService
	Comments *service.CommentService

	Auth    *middleware.Authenticator
	Metrics *middleware.Metrics
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler

	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter builds the complete HTTP handler including the middleware chain.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler).Methods(http.MethodGet)
	}

	projects := &ProjectHandler{projects: cfg.Projects}
	tasks := &TaskHandler{tasks: cfg.Tasks}
	comments := &CommentHandler{comments: cfg.Comments}

	// Every application route requires a session.
	app := r.NewRoute().Subrouter()
	app.Use(cfg.Auth.Middleware)

	app.HandleFunc("/projects", projects.List).Methods(http.MethodGet)
	app.HandleFunc("/projects", projects.Create).Methods(http.MethodPost)
	app.HandleFunc("/projects/{id:[0-9]+}", projects.Show).Methods(http.MethodGet)
	app.HandleFunc("/projects/{id:[0-9]+}", projects.Delete).Methods(http.MethodDelete)
	app.HandleFunc("/projects/{id:[0-9]+}/tasks", tasks.Create).Methods(http.MethodPost)

	app.HandleFunc("/tasks/{id:[0-9]+}/status", tasks.UpdateStatus).Methods(http.MethodPost)
	app.HandleFunc("/tasks/{id:[0-9]+}", tasks.Delete).Methods(http.MethodDelete)
	app.HandleFunc("/tasks/{id:[0-9]+}/comments", comments.Create).Methods(http.MethodPost)

	app.HandleFunc("/users/{id:[0-9]+}/tasks", tasks.ListByUser).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Accept", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	})

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	var h http.Handler = r
	h = methodOverride(h)
	h = c.Handler(h)
	h = middleware.AccessLog(log)(h)
	h = middleware.ClientInfo(h)
	h = middleware.RequestID(h)
	h = middleware.Recover(h)
	return h
}

// methodOverride lets HTML forms reach DELETE routes by posting a _method
// field, the convention browser clients of this service use.
func methodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && isFormRequest(r) {
			if err := parseForm(r); err == nil {
				if m := r.PostForm.Get("_method"); m == http.MethodDelete || m == "delete" {
					r.Method = http.MethodDelete
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}
