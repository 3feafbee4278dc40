// Package apiclient talks to the record API. It is the persistence
// collaborator of the selection and task list controllers.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rpggio/todos/internal/domain/project"
	"github.com/rpggio/todos/internal/domain/task"
	"github.com/rpggio/todos/internal/tasklist"
)

// APIError is a failed response. Message is the server's text, suitable for
// showing to the user as is.
type APIError struct {
	Status     int
	Message    string
	ModelState map[string]string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client calls the record API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sends a bearer token with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FindProjects lists the projects of an organization.
func (c *Client) FindProjects(ctx context.Context, orgID string) ([]project.Project, error) {
	q := url.Values{}
	if orgID != "" {
		q.Set("orgId", orgID)
	}
	var out []project.Project
	if err := c.do(ctx, http.MethodGet, "/api/projects", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// InsertProject creates a project; the server assigns id and createdAt.
func (c *Client) InsertProject(ctx context.Context, proj project.Project) (*project.Project, error) {
	body := map[string]string{"title": proj.Title, "orgId": proj.OrgID}
	var out project.Project
	if err := c.do(ctx, http.MethodPost, "/api/projects", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindTasks lists tasks matching the filter.
func (c *Client) FindTasks(ctx context.Context, f tasklist.Filter) ([]task.Task, error) {
	q := url.Values{}
	if f.ProjectID != "" {
		q.Set("projectId", f.ProjectID)
	}
	if f.UserID != "" {
		q.Set("userId", f.UserID)
	}
	var out []task.Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// InsertTask creates a task.
func (c *Client) InsertTask(ctx context.Context, t task.Task) (*task.Task, error) {
	var out task.Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", nil, t, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveTask persists the title and completed flag of an existing task.
func (c *Client) SaveTask(ctx context.Context, t task.Task) (*task.Task, error) {
	if t.ID == "" {
		return nil, errors.New("task id is required")
	}
	body := map[string]any{"title": t.Title, "completed": t.Completed}
	var out task.Task
	if err := c.do(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(t.ID), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var body struct {
		Message    string            `json:"message"`
		ModelState map[string]string `json:"modelState"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
		apiErr.Message = body.Message
		apiErr.ModelState = body.ModelState
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
