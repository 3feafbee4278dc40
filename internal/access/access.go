// Package access limits project and task ids to what an identity may see:
// its organization's projects and their tasks, or, outside an organization,
// the tasks the user owns.
package access

import (
	"context"
	"errors"

	"github.com/rpggio/todos/internal/domain/project"
	"github.com/rpggio/todos/internal/domain/task"
	"github.com/rpggio/todos/internal/identity"
)

// ErrNoOrganization indicates a project operation outside an organization.
var ErrNoOrganization = errors.New("no organization found")

// ProjectReader reads projects.
type ProjectReader interface {
	Get(ctx context.Context, id string) (*project.Project, error)
	List(ctx context.Context, opts project.ListOptions) ([]project.Project, error)
}

// TaskReader reads tasks.
type TaskReader interface {
	Get(ctx context.Context, id string) (*task.Task, error)
}

// Guard checks ids against an identity. Ids out of scope read as not found.
type Guard struct {
	projects ProjectReader
	tasks    TaskReader
}

// NewGuard creates a guard over the project and task readers.
func NewGuard(projects ProjectReader, tasks TaskReader) *Guard {
	return &Guard{projects: projects, tasks: tasks}
}

// Project returns the project a task operation runs in. An empty projectID
// means the first project of the organization, which is "" when the
// organization has none. Outside an organization the result is always "".
func (g *Guard) Project(ctx context.Context, id identity.Identity, projectID string) (string, error) {
	if !id.HasOrganization() {
		if projectID != "" {
			return "", ErrNoOrganization
		}
		return "", nil
	}

	if projectID == "" {
		projects, err := g.projects.List(ctx, project.ListOptions{OrgID: id.OrgID})
		if err != nil {
			return "", err
		}
		if len(projects) == 0 {
			return "", nil
		}
		return projects[0].ID, nil
	}

	proj, err := g.projects.Get(ctx, projectID)
	if err != nil {
		return "", err
	}
	if proj.OrgID != id.OrgID {
		return "", project.ErrProjectNotFound
	}
	return proj.ID, nil
}

// Task fetches a task the identity may see. Outside an organization tasks
// are unscoped by project: the user sees every task they own.
func (g *Guard) Task(ctx context.Context, id identity.Identity, taskID string) (*task.Task, error) {
	t, err := g.tasks.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !id.HasOrganization() {
		if t.UserID != id.UserID {
			return nil, task.ErrTaskNotFound
		}
		return t, nil
	}

	if t.ProjectID == "" {
		return nil, task.ErrTaskNotFound
	}
	if _, err := g.Project(ctx, id, t.ProjectID); err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			return nil, task.ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}
