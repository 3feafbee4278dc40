package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/todos/internal/access"
	"github.com/rpggio/todos/internal/domain/project"
	"github.com/rpggio/todos/internal/domain/task"
)

// ProjectService defines project operations exposed over HTTP.
type ProjectService interface {
	Create(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	List(ctx context.Context, opts project.ListOptions) ([]project.Project, error)
}

// TaskService defines task operations exposed over HTTP.
type TaskService interface {
	Create(ctx context.Context, req task.CreateRequest) (*task.Task, error)
	Get(ctx context.Context, id string) (*task.Task, error)
	List(ctx context.Context, opts task.ListOptions) ([]task.Task, error)
	Save(ctx context.Context, req task.SaveRequest) (*task.Task, error)
	Delete(ctx context.Context, id string) error
}

// Server wires HTTP handlers.
type Server struct {
	projects ProjectService
	tasks    TaskService
	guard    *access.Guard
	logger   *slog.Logger
}

// NewServer creates an HTTP router with the record API. Extra mounts (such
// as the MCP endpoint) are attached by the caller. When the auth middleware
// puts an identity on the request, handlers are limited to what that
// identity may see; without one the API is open.
func NewServer(projects ProjectService, tasks TaskService, logger *slog.Logger, authMiddleware func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()

	if authMiddleware != nil {
		r.Use(authMiddleware)
	}

	srv := &Server{
		projects: projects,
		tasks:    tasks,
		guard:    access.NewGuard(projects, tasks),
		logger:   logger,
	}

	r.Get("/health", srv.handleHealth)
	r.Route("/api/projects", func(r chi.Router) {
		r.Get("/", srv.listProjects)
		r.Post("/", srv.createProject)
		r.Get("/{id}", srv.getProject)
	})
	r.Route("/api/tasks", func(r chi.Router) {
		r.Get("/", srv.listTasks)
		r.Post("/", srv.createTask)
		r.Get("/{id}", srv.getTask)
		r.Put("/{id}", srv.saveTask)
		r.Delete("/{id}", srv.deleteTask)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
