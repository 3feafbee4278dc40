package mcp

import (
	"context"
	"errors"
	"fmt"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/todos/internal/access"
	"github.com/rpggio/todos/internal/domain/project"
	"github.com/rpggio/todos/internal/identity"
	"github.com/rpggio/todos/internal/repository"
	"github.com/rpggio/todos/internal/testserver"
	"github.com/stretchr/testify/require"
)

func newTestToolset(t *testing.T) (*toolset, *testserver.TestServer) {
	t.Helper()
	ts := testserver.New(t, false)
	return newToolset(Services{Projects: ts.Projects, Tasks: ts.Tasks}), ts
}

func as(userID, orgID string) context.Context {
	return identity.WithIdentity(context.Background(), identity.Identity{UserID: userID, OrgID: orgID})
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "expected APIError, got %v", err)
	require.Equal(t, code, apiErr.Code)
}

func TestTools_ProjectsNeedOrganization(t *testing.T) {
	tools, _ := newTestToolset(t)

	_, _, err := tools.listProjects(as("user-1", ""), &sdkmcp.CallToolRequest{}, ListProjectsParams{})
	requireCode(t, err, "NO_ORGANIZATION")

	_, _, err = tools.createProject(as("user-1", ""), &sdkmcp.CallToolRequest{}, CreateProjectParams{})
	requireCode(t, err, "NO_ORGANIZATION")

	_, _, err = tools.listProjects(context.Background(), &sdkmcp.CallToolRequest{}, ListProjectsParams{})
	requireCode(t, err, "UNAUTHORIZED")
}

func TestTools_CreateProjectNumbersTitles(t *testing.T) {
	tools, _ := newTestToolset(t)
	ctx := as("user-1", "org1")

	_, first, err := tools.createProject(ctx, &sdkmcp.CallToolRequest{}, CreateProjectParams{})
	require.NoError(t, err)
	require.Equal(t, "Project 1", first.Project.Title)
	require.Equal(t, "org1", first.Project.OrgID)

	_, second, err := tools.createProject(ctx, &sdkmcp.CallToolRequest{}, CreateProjectParams{Title: "Groceries"})
	require.NoError(t, err)
	require.Equal(t, "Groceries", second.Project.Title)

	_, listed, err := tools.listProjects(ctx, &sdkmcp.CallToolRequest{}, ListProjectsParams{})
	require.NoError(t, err)
	require.Len(t, listed.Projects, 2)

	_, other, err := tools.listProjects(as("user-2", "org2"), &sdkmcp.CallToolRequest{}, ListProjectsParams{})
	require.NoError(t, err)
	require.Empty(t, other.Projects)
}

func TestTools_TaskLifecycleInOrganization(t *testing.T) {
	tools, ts := newTestToolset(t)
	ctx := as("user-1", "org1")
	_, err := ts.Projects.Create(context.Background(), project.CreateRequest{ID: "p1", Title: "Project 1", OrgID: "org1"})
	require.NoError(t, err)

	_, added, err := tools.addTask(ctx, &sdkmcp.CallToolRequest{}, AddTaskParams{Title: "Buy milk"})
	require.NoError(t, err)
	require.Equal(t, "p1", added.Task.ProjectID)
	require.Equal(t, "user-1", added.Task.UserID)
	require.Equal(t, "active", added.Task.State)

	_, listed, err := tools.listTasks(ctx, &sdkmcp.CallToolRequest{}, ListTasksParams{})
	require.NoError(t, err)
	require.Equal(t, "p1", listed.ProjectID)
	require.Len(t, listed.Tasks, 1)

	_, saved, err := tools.setTaskCompleted(ctx, &sdkmcp.CallToolRequest{}, SetTaskCompletedParams{ID: added.Task.ID, Completed: true})
	require.NoError(t, err)
	require.True(t, saved.Task.Completed)
	require.Equal(t, "completed", saved.Task.State)

	// Another organization cannot see the task.
	_, _, err = tools.deleteTask(as("user-2", "org2"), &sdkmcp.CallToolRequest{}, DeleteTaskParams{ID: added.Task.ID})
	requireCode(t, err, "TASK_NOT_FOUND")
	_, _, err = tools.listTasks(as("user-2", "org2"), &sdkmcp.CallToolRequest{}, ListTasksParams{ProjectID: "p1"})
	requireCode(t, err, "PROJECT_NOT_FOUND")

	_, deleted, err := tools.deleteTask(ctx, &sdkmcp.CallToolRequest{}, DeleteTaskParams{ID: added.Task.ID})
	require.NoError(t, err)
	require.True(t, deleted.Deleted)

	_, listed, err = tools.listTasks(ctx, &sdkmcp.CallToolRequest{}, ListTasksParams{ProjectID: "p1"})
	require.NoError(t, err)
	require.Empty(t, listed.Tasks)
}

func TestTools_TasksWithoutOrganization(t *testing.T) {
	tools, _ := newTestToolset(t)
	ctx := as("user-1", "")

	_, added, err := tools.addTask(ctx, &sdkmcp.CallToolRequest{}, AddTaskParams{Title: "personal"})
	require.NoError(t, err)
	require.Empty(t, added.Task.ProjectID)

	_, listed, err := tools.listTasks(ctx, &sdkmcp.CallToolRequest{}, ListTasksParams{})
	require.NoError(t, err)
	require.Len(t, listed.Tasks, 1)

	_, listed, err = tools.listTasks(as("user-2", ""), &sdkmcp.CallToolRequest{}, ListTasksParams{})
	require.NoError(t, err)
	require.Empty(t, listed.Tasks)

	_, _, err = tools.setTaskCompleted(as("user-2", ""), &sdkmcp.CallToolRequest{}, SetTaskCompletedParams{ID: added.Task.ID, Completed: true})
	requireCode(t, err, "TASK_NOT_FOUND")

	_, _, err = tools.listTasks(ctx, &sdkmcp.CallToolRequest{}, ListTasksParams{ProjectID: "p1"})
	requireCode(t, err, "NO_ORGANIZATION")
}

func TestTools_NoOrganizationListsOwnTasksAcrossProjects(t *testing.T) {
	tools, ts := newTestToolset(t)
	_, err := ts.Projects.Create(context.Background(), project.CreateRequest{ID: "p1", Title: "Project 1", OrgID: "org1"})
	require.NoError(t, err)

	_, inProject, err := tools.addTask(as("user-1", "org1"), &sdkmcp.CallToolRequest{}, AddTaskParams{Title: "in p1"})
	require.NoError(t, err)
	_, _, err = tools.addTask(as("user-1", ""), &sdkmcp.CallToolRequest{}, AddTaskParams{Title: "personal"})
	require.NoError(t, err)

	_, listed, err := tools.listTasks(as("user-1", ""), &sdkmcp.CallToolRequest{}, ListTasksParams{})
	require.NoError(t, err)
	require.Len(t, listed.Tasks, 2)

	_, saved, err := tools.setTaskCompleted(as("user-1", ""), &sdkmcp.CallToolRequest{}, SetTaskCompletedParams{ID: inProject.Task.ID, Completed: true})
	require.NoError(t, err)
	require.True(t, saved.Task.Completed)
}

func TestTools_AddTaskValidation(t *testing.T) {
	tools, ts := newTestToolset(t)
	ctx := as("user-1", "org1")

	// No project in the organization yet.
	_, _, err := tools.addTask(ctx, &sdkmcp.CallToolRequest{}, AddTaskParams{Title: "x"})
	requireCode(t, err, "PROJECT_NOT_FOUND")

	_, err = ts.Projects.Create(context.Background(), project.CreateRequest{ID: "p1", Title: "Project 1", OrgID: "org1"})
	require.NoError(t, err)

	_, _, err = tools.addTask(ctx, &sdkmcp.CallToolRequest{}, AddTaskParams{Title: "  "})
	requireCode(t, err, "VALIDATION_FAILED")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "title: Should not be empty", apiErr.Message)
}

func TestMapError(t *testing.T) {
	require.Nil(t, MapError(nil))
	require.Nil(t, MapError(errors.New("boom")))
	require.Equal(t, "PROJECT_NOT_FOUND", MapError(project.ErrProjectNotFound).Code)
	require.Equal(t, "UNAUTHORIZED", MapError(identity.ErrUnauthorized).Code)
	require.Equal(t, "ALREADY_EXISTS", MapError(fmt.Errorf("creating project: %w", repository.ErrDuplicate)).Code)
	require.Equal(t, "NO_ORGANIZATION", MapError(access.ErrNoOrganization).Code)
}
