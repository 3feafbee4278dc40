package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rpggio/todos/internal/domain/project"
	"github.com/rpggio/todos/internal/domain/task"
	"github.com/rpggio/todos/internal/repository"
	"github.com/stretchr/testify/require"
)

type projectStub struct {
	listOpts project.ListOptions
	created  project.CreateRequest
	err      error
}

func (p *projectStub) Create(_ context.Context, req project.CreateRequest) (*project.Project, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.created = req
	return &project.Project{ID: "p1", Title: req.Title, OrgID: req.OrgID}, nil
}

func (p *projectStub) Get(_ context.Context, id string) (*project.Project, error) {
	if id != "p1" {
		return nil, project.ErrProjectNotFound
	}
	return &project.Project{ID: "p1", Title: "Project 1", OrgID: "org1"}, nil
}

func (p *projectStub) List(_ context.Context, opts project.ListOptions) ([]project.Project, error) {
	p.listOpts = opts
	return []project.Project{{ID: "p1", Title: "Project 1", OrgID: opts.OrgID}}, p.err
}

type taskStub struct {
	byID     map[string]task.Task
	listOpts task.ListOptions
	saved    task.SaveRequest
	deleted  string
	err      error
}

func (s *taskStub) Create(_ context.Context, req task.CreateRequest) (*task.Task, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, &task.ValidationError{Field: "title", Message: "Should not be empty"}
	}
	return &task.Task{ID: "t1", Title: req.Title, ProjectID: req.ProjectID, UserID: req.UserID}, nil
}

func (s *taskStub) Get(_ context.Context, id string) (*task.Task, error) {
	if t, ok := s.byID[id]; ok {
		return &t, nil
	}
	return nil, task.ErrTaskNotFound
}

func (s *taskStub) List(_ context.Context, opts task.ListOptions) ([]task.Task, error) {
	s.listOpts = opts
	return []task.Task{}, s.err
}

func (s *taskStub) Save(_ context.Context, req task.SaveRequest) (*task.Task, error) {
	s.saved = req
	return &task.Task{ID: req.ID, Title: "Buy milk", Completed: *req.Completed}, nil
}

func (s *taskStub) Delete(_ context.Context, id string) error {
	s.deleted = id
	return s.err
}

func newTestServer(t *testing.T, projects *projectStub, tasks *taskStub) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(NewServer(projects, tasks, nil, nil))
	t.Cleanup(server.Close)
	return server
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHTTPServer_Health(t *testing.T) {
	server := newTestServer(t, &projectStub{}, &taskStub{})

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPServer_Projects(t *testing.T) {
	projects := &projectStub{}
	server := newTestServer(t, projects, &taskStub{})

	resp := do(t, http.MethodGet, server.URL+"/api/projects?orgId=org1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "org1", projects.listOpts.OrgID)

	var listed []project.Project
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	require.Len(t, listed, 1)

	resp = do(t, http.MethodPost, server.URL+"/api/projects", `{"title":"Project 2","orgId":"org1"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "Project 2", projects.created.Title)

	resp = do(t, http.MethodGet, server.URL+"/api/projects/missing", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHTTPServer_TaskValidationIsVerbatim(t *testing.T) {
	server := newTestServer(t, &projectStub{}, &taskStub{})

	resp := do(t, http.MethodPost, server.URL+"/api/tasks", `{"title":"","projectId":"p1"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body ErrorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "title: Should not be empty", body.Message)
	require.Equal(t, "Should not be empty", body.ModelState["title"])
}

func TestHTTPServer_TaskLifecycle(t *testing.T) {
	tasks := &taskStub{}
	server := newTestServer(t, &projectStub{}, tasks)

	resp := do(t, http.MethodGet, server.URL+"/api/tasks?projectId=p1&userId=u1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, task.ListOptions{ProjectID: "p1", UserID: "u1"}, tasks.listOpts)

	resp = do(t, http.MethodPut, server.URL+"/api/tasks/t1", `{"completed":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "t1", tasks.saved.ID)
	require.Nil(t, tasks.saved.Title)
	require.True(t, *tasks.saved.Completed)

	resp = do(t, http.MethodDelete, server.URL+"/api/tasks/t1", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "t1", tasks.deleted)

	resp = do(t, http.MethodGet, server.URL+"/api/tasks/t1", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHTTPServer_InternalErrorsAreMasked(t *testing.T) {
	tasks := &taskStub{err: errors.New("disk on fire")}
	server := newTestServer(t, &projectStub{}, tasks)

	resp := do(t, http.MethodGet, server.URL+"/api/tasks", "")
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body ErrorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "internal error", body.Message)
}

func TestHTTPServer_BadJSON(t *testing.T) {
	server := newTestServer(t, &projectStub{}, &taskStub{})

	resp := do(t, http.MethodPost, server.URL+"/api/tasks", `{`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHTTPServer_DuplicateProjectIsConflict(t *testing.T) {
	projects := &projectStub{err: fmt.Errorf("creating project: %w", repository.ErrDuplicate)}
	server := newTestServer(t, projects, &taskStub{})

	resp := do(t, http.MethodPost, server.URL+"/api/projects", `{"id":"p1","title":"Again","orgId":"org1"}`)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var body ErrorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "record already exists", body.Message)
}
