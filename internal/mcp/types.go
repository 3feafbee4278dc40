package mcp

import (
	"time"

	"github.com/rpggio/todos/internal/domain/project"
	"github.com/rpggio/todos/internal/domain/task"
)

// ProjectView is the tool representation of a project.
type ProjectView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	OrgID     string `json:"org_id"`
	CreatedAt string `json:"created_at"`
}

func projectView(p project.Project) ProjectView {
	return ProjectView{ID: p.ID, Title: p.Title, OrgID: p.OrgID, CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339)}
}

// TaskView is the tool representation of a task.
type TaskView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	State     string `json:"state"`
	UserID    string `json:"user_id,omitempty"`
	ProjectID string `json:"project_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

func taskView(t task.Task) TaskView {
	return TaskView{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Completed,
		State:     string(t.State()),
		UserID:    t.UserID,
		ProjectID: t.ProjectID,
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type ListProjectsParams struct{}

type ListProjectsResult struct {
	Projects []ProjectView `json:"projects"`
}

type CreateProjectParams struct {
	Title string `json:"title,omitempty" jsonschema:"project title, defaults to the next Project N"`
}

type ProjectResult struct {
	Project ProjectView `json:"project"`
}

type ListTasksParams struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"project to list, defaults to the first project of the organization"`
}

type ListTasksResult struct {
	ProjectID string      `json:"project_id,omitempty"`
	Tasks     []TaskView `json:"tasks"`
}

type AddTaskParams struct {
	Title     string `json:"title" jsonschema:"task title"`
	ProjectID string `json:"project_id,omitempty" jsonschema:"project for the task, defaults to the first project of the organization"`
}

type SetTaskCompletedParams struct {
	ID        string `json:"id" jsonschema:"task id"`
	Completed bool   `json:"completed" jsonschema:"new completed flag"`
}

type DeleteTaskParams struct {
	ID string `json:"id" jsonschema:"task id"`
}

type TaskResult struct {
	Task TaskView `json:"task"`
}

type DeleteTaskResult struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
