// Package workspace connects the signed-in identity, the project selection
// and the task list the way the todo screen uses them.
package workspace

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rpggio/todos/internal/domain/project"
	"github.com/rpggio/todos/internal/domain/task"
	"github.com/rpggio/todos/internal/preference"
	"github.com/rpggio/todos/internal/selection"
	"github.com/rpggio/todos/internal/tasklist"
)

// ErrSignedOut indicates the identity is not loaded or nobody is signed in.
var ErrSignedOut = errors.New("please sign in to continue")

// Session is the identity collaborator's view of the current user.
type Session struct {
	UserID string
	OrgID  string
	Loaded bool
}

// Backend is the persistence collaborator for both entities.
type Backend interface {
	selection.ProjectSource
	tasklist.Store
}

// Workspace is the state behind one todo screen.
type Workspace struct {
	session   Session
	selection *selection.Controller
	tasks     *tasklist.Controller
	logger    *slog.Logger
}

// Config holds workspace collaborators.
type Config struct {
	Session  Session
	Backend  Backend
	Store    preference.Store
	Notifier tasklist.Notifier
	Logger   *slog.Logger
}

// New creates a workspace. Call Sync to load it.
func New(cfg Config) *Workspace {
	w := &Workspace{
		session:   cfg.Session,
		selection: selection.NewController(cfg.Backend, cfg.Store, cfg.Logger),
		logger:    cfg.Logger,
	}
	w.tasks = tasklist.NewController(cfg.Backend, tasklist.Filter{},
		tasklist.WithAuthor(cfg.Session.UserID),
		tasklist.WithNotifier(cfg.Notifier),
		tasklist.WithLogger(cfg.Logger),
	)
	return w
}

func (w *Workspace) ready() error {
	if !w.session.Loaded || w.session.UserID == "" {
		return ErrSignedOut
	}
	return nil
}

// filter derives the task filter: the selected project inside an
// organization, every task the user owns outside one.
func (w *Workspace) filter() tasklist.Filter {
	if w.session.OrgID == "" {
		return tasklist.Filter{UserID: w.session.UserID}
	}
	return tasklist.Filter{ProjectID: w.selection.Selected()}
}

// Sync loads projects for the organization, resolves the selection and
// loads the matching tasks.
func (w *Workspace) Sync(ctx context.Context) error {
	if err := w.ready(); err != nil {
		return err
	}
	if err := w.selection.SetOrganization(ctx, w.session.OrgID); err != nil {
		return err
	}
	return w.tasks.SetFilter(ctx, w.filter())
}

// SwitchOrganization changes the active organization and resyncs.
func (w *Workspace) SwitchOrganization(ctx context.Context, orgID string) error {
	w.session.OrgID = orgID
	return w.Sync(ctx)
}

// SelectProject makes projectID the selection and loads its tasks.
func (w *Workspace) SelectProject(ctx context.Context, projectID string) error {
	if err := w.ready(); err != nil {
		return err
	}
	if err := w.selection.Select(projectID); err != nil {
		return err
	}
	return w.tasks.SetFilter(ctx, w.filter())
}

// AddProject appends the next numbered project to the organization.
func (w *Workspace) AddProject(ctx context.Context) (*project.Project, error) {
	if err := w.ready(); err != nil {
		return nil, err
	}
	created, err := w.selection.AddProject(ctx)
	if err != nil {
		return created, err
	}
	// The first project of an organization becomes the selection.
	return created, w.tasks.SetFilter(ctx, w.filter())
}

// AddTask adds a task under the current filter and returns the cleared
// input value.
func (w *Workspace) AddTask(ctx context.Context, title string) (string, error) {
	if err := w.ready(); err != nil {
		return title, err
	}
	return w.tasks.Add(ctx, title)
}

// ToggleTask sets the completed flag of t.
func (w *Workspace) ToggleTask(ctx context.Context, t task.Task, completed bool) error {
	if err := w.ready(); err != nil {
		return err
	}
	return w.tasks.SetCompleted(ctx, t, completed)
}

// DeleteTask removes a task.
func (w *Workspace) DeleteTask(ctx context.Context, id string) error {
	if err := w.ready(); err != nil {
		return err
	}
	return w.tasks.Delete(ctx, id)
}

// Session returns the current identity view.
func (w *Workspace) Session() Session { return w.session }

// Projects returns the organization's projects.
func (w *Workspace) Projects() []project.Project { return w.selection.Projects() }

// SelectedProject returns the effective selection.
func (w *Workspace) SelectedProject() string { return w.selection.Selected() }

// Tasks returns the tasks for the current filter.
func (w *Workspace) Tasks() []task.Task { return w.tasks.Tasks() }

// Filter returns the filter the task list is keyed by.
func (w *Workspace) Filter() tasklist.Filter { return w.tasks.Filter() }
