package transport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/todos/internal/access"
	"github.com/rpggio/todos/internal/domain/project"
	"github.com/rpggio/todos/internal/domain/task"
	"github.com/rpggio/todos/internal/identity"
)

type createProjectBody struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	OrgID string `json:"orgId"`
}

type createTaskBody struct {
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	UserID    string    `json:"userId"`
	ProjectID string    `json:"projectId"`
	CreatedAt time.Time `json:"createdAt"`
}

type saveTaskBody struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	opts := project.ListOptions{OrgID: r.URL.Query().Get("orgId")}
	if id, ok := identity.FromContext(r.Context()); ok {
		if !id.HasOrganization() {
			s.writeError(w, access.ErrNoOrganization)
			return
		}
		opts.OrgID = id.OrgID
	}

	projects, err := s.projects.List(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var body createProjectBody
	if err := decodeBody(r.Body, &body); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if id, ok := identity.FromContext(r.Context()); ok {
		if !id.HasOrganization() {
			s.writeError(w, access.ErrNoOrganization)
			return
		}
		body.OrgID = id.OrgID
	}

	proj, err := s.projects.Create(r.Context(), project.CreateRequest{
		ID:    body.ID,
		Title: body.Title,
		OrgID: body.OrgID,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, proj)
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")
	if id, ok := identity.FromContext(r.Context()); ok {
		if _, err := s.guard.Project(r.Context(), id, projectID); err != nil {
			s.writeError(w, err)
			return
		}
	}

	proj, err := s.projects.Get(r.Context(), projectID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := task.ListOptions{
		ProjectID: q.Get("projectId"),
		UserID:    q.Get("userId"),
	}

	if id, ok := identity.FromContext(r.Context()); ok {
		projectID, err := s.guard.Project(r.Context(), id, opts.ProjectID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		switch {
		case !id.HasOrganization():
			opts = task.ListOptions{UserID: id.UserID}
		case projectID == "":
			writeJSON(w, http.StatusOK, []task.Task{})
			return
		default:
			opts.ProjectID = projectID
		}
	}

	tasks, err := s.tasks.List(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var body createTaskBody
	if err := decodeBody(r.Body, &body); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if id, ok := identity.FromContext(r.Context()); ok {
		projectID, err := s.guard.Project(r.Context(), id, body.ProjectID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if id.HasOrganization() && projectID == "" {
			s.writeError(w, project.ErrProjectNotFound)
			return
		}
		body.ProjectID = projectID
		body.UserID = id.UserID
	}

	created, err := s.tasks.Create(r.Context(), task.CreateRequest{
		Title:     body.Title,
		Completed: body.Completed,
		UserID:    body.UserID,
		ProjectID: body.ProjectID,
		CreatedAt: body.CreatedAt,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// visibleTask loads the task named in the URL, limited to the request's
// identity when there is one.
func (s *Server) visibleTask(r *http.Request) (*task.Task, error) {
	taskID := chi.URLParam(r, "id")
	if id, ok := identity.FromContext(r.Context()); ok {
		return s.guard.Task(r.Context(), id, taskID)
	}
	return s.tasks.Get(r.Context(), taskID)
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.visibleTask(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) saveTask(w http.ResponseWriter, r *http.Request) {
	var body saveTaskBody
	if err := decodeBody(r.Body, &body); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := identity.FromContext(r.Context()); ok {
		if _, err := s.visibleTask(r); err != nil {
			s.writeError(w, err)
			return
		}
	}

	saved, err := s.tasks.Save(r.Context(), task.SaveRequest{
		ID:        chi.URLParam(r, "id"),
		Title:     body.Title,
		Completed: body.Completed,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	if _, ok := identity.FromContext(r.Context()); ok {
		if _, err := s.visibleTask(r); err != nil {
			s.writeError(w, err)
			return
		}
	}

	if err := s.tasks.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
