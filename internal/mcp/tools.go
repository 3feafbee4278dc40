package mcp

import (
	"context"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/todos/internal/access"
	"github.com/rpggio/todos/internal/domain/project"
	"github.com/rpggio/todos/internal/domain/task"
	"github.com/rpggio/todos/internal/identity"
)

// toolset holds the tool handlers. Every handler is scoped to the identity
// on the context: the organization's projects, or the user's own tasks
// when there is no organization.
type toolset struct {
	projects ProjectService
	tasks    TaskService
	guard    *access.Guard
}

func newToolset(services Services) *toolset {
	return &toolset{
		projects: services.Projects,
		tasks:    services.Tasks,
		guard:    access.NewGuard(services.Projects, services.Tasks),
	}
}

func registerTools(server *sdkmcp.Server, services Services) {
	ts := newToolset(services)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List the projects of the caller's organization in creation order",
	}, ts.listProjects)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a project in the caller's organization",
	}, ts.createProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_tasks",
		Description: "List the tasks of a project, or the caller's own tasks outside an organization",
	}, ts.listTasks)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_task",
		Description: "Add an active task",
	}, ts.addTask)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_task_completed",
		Description: "Mark a task completed or active",
	}, ts.setTaskCompleted)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_task",
		Description: "Delete a task",
	}, ts.deleteTask)
}

func caller(ctx context.Context) (identity.Identity, error) {
	id, ok := identity.FromContext(ctx)
	if !ok || id.UserID == "" {
		return identity.Identity{}, identity.ErrUnauthorized
	}
	return id, nil
}

func (ts *toolset) listProjects(ctx context.Context, _ *sdkmcp.CallToolRequest, _ ListProjectsParams) (*sdkmcp.CallToolResult, ListProjectsResult, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, ListProjectsResult{}, toolError(err)
	}
	if !id.HasOrganization() {
		return nil, ListProjectsResult{}, toolError(access.ErrNoOrganization)
	}

	projects, err := ts.projects.List(ctx, project.ListOptions{OrgID: id.OrgID})
	if err != nil {
		return nil, ListProjectsResult{}, toolError(err)
	}
	out := ListProjectsResult{Projects: make([]ProjectView, 0, len(projects))}
	for _, p := range projects {
		out.Projects = append(out.Projects, projectView(p))
	}
	return nil, out, nil
}

func (ts *toolset) createProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateProjectParams) (*sdkmcp.CallToolResult, ProjectResult, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, ProjectResult{}, toolError(err)
	}
	if !id.HasOrganization() {
		return nil, ProjectResult{}, toolError(access.ErrNoOrganization)
	}

	title := in.Title
	if strings.TrimSpace(title) == "" {
		existing, err := ts.projects.List(ctx, project.ListOptions{OrgID: id.OrgID})
		if err != nil {
			return nil, ProjectResult{}, toolError(err)
		}
		title = project.NextTitle(len(existing))
	}

	created, err := ts.projects.Create(ctx, project.CreateRequest{Title: title, OrgID: id.OrgID})
	if err != nil {
		return nil, ProjectResult{}, toolError(err)
	}
	return nil, ProjectResult{Project: projectView(*created)}, nil
}

func (ts *toolset) listTasks(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListTasksParams) (*sdkmcp.CallToolResult, ListTasksResult, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, ListTasksResult{}, toolError(err)
	}
	projectID, err := ts.guard.Project(ctx, id, in.ProjectID)
	if err != nil {
		return nil, ListTasksResult{}, toolError(err)
	}

	out := ListTasksResult{ProjectID: projectID, Tasks: []TaskView{}}
	opts := task.ListOptions{ProjectID: projectID}
	if !id.HasOrganization() {
		opts = task.ListOptions{UserID: id.UserID}
	} else if projectID == "" {
		return nil, out, nil
	}

	tasks, err := ts.tasks.List(ctx, opts)
	if err != nil {
		return nil, ListTasksResult{}, toolError(err)
	}
	for _, t := range tasks {
		out.Tasks = append(out.Tasks, taskView(t))
	}
	return nil, out, nil
}

func (ts *toolset) addTask(ctx context.Context, _ *sdkmcp.CallToolRequest, in AddTaskParams) (*sdkmcp.CallToolResult, TaskResult, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, TaskResult{}, toolError(err)
	}
	projectID, err := ts.guard.Project(ctx, id, in.ProjectID)
	if err != nil {
		return nil, TaskResult{}, toolError(err)
	}
	if id.HasOrganization() && projectID == "" {
		return nil, TaskResult{}, toolError(project.ErrProjectNotFound)
	}

	created, err := ts.tasks.Create(ctx, task.CreateRequest{
		Title:     in.Title,
		UserID:    id.UserID,
		ProjectID: projectID,
	})
	if err != nil {
		return nil, TaskResult{}, toolError(err)
	}
	return nil, TaskResult{Task: taskView(*created)}, nil
}

func (ts *toolset) setTaskCompleted(ctx context.Context, _ *sdkmcp.CallToolRequest, in SetTaskCompletedParams) (*sdkmcp.CallToolResult, TaskResult, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, TaskResult{}, toolError(err)
	}
	if _, err := ts.guard.Task(ctx, id, in.ID); err != nil {
		return nil, TaskResult{}, toolError(err)
	}

	completed := in.Completed
	saved, err := ts.tasks.Save(ctx, task.SaveRequest{ID: in.ID, Completed: &completed})
	if err != nil {
		return nil, TaskResult{}, toolError(err)
	}
	return nil, TaskResult{Task: taskView(*saved)}, nil
}

func (ts *toolset) deleteTask(ctx context.Context, _ *sdkmcp.CallToolRequest, in DeleteTaskParams) (*sdkmcp.CallToolResult, DeleteTaskResult, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, DeleteTaskResult{}, toolError(err)
	}
	if _, err := ts.guard.Task(ctx, id, in.ID); err != nil {
		return nil, DeleteTaskResult{}, toolError(err)
	}
	if err := ts.tasks.Delete(ctx, in.ID); err != nil {
		return nil, DeleteTaskResult{}, toolError(err)
	}
	return nil, DeleteTaskResult{ID: in.ID, Deleted: true}, nil
}
