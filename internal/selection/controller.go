package selection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/rpggio/todos/internal/domain/project"
	"github.com/rpggio/todos/internal/preference"
)

var (
	// ErrNoOrganization indicates an action needs an organization and none is active.
	ErrNoOrganization = errors.New("no organization found")
	// ErrUnknownProject indicates a pick outside the loaded project list.
	ErrUnknownProject = errors.New("project is not in the current organization")
)

// ProjectSource is the persistence collaborator for projects.
type ProjectSource interface {
	FindProjects(ctx context.Context, orgID string) ([]project.Project, error)
	InsertProject(ctx context.Context, proj project.Project) (*project.Project, error)
}

// Controller keeps the selected project consistent with the organization's
// project list. It is safe for concurrent use; collaborator calls run
// outside the lock and their results are applied only if the organization
// they were issued for is still current.
type Controller struct {
	source ProjectSource
	store  preference.Store
	logger *slog.Logger

	mu       sync.Mutex
	orgID    string
	projects []project.Project
	loaded   bool
	fetches  int
	applied  int
}

// NewController creates a selection controller.
func NewController(source ProjectSource, store preference.Store, logger *slog.Logger) *Controller {
	if store == nil {
		store = preference.Nop{}
	}
	return &Controller{source: source, store: store, logger: logger}
}

// SetOrganization switches the active organization and refetches its
// projects. An empty orgID means no organization.
func (c *Controller) SetOrganization(ctx context.Context, orgID string) error {
	c.mu.Lock()
	changed := c.orgID != orgID
	c.orgID = orgID
	if changed {
		c.projects = nil
		c.loaded = false
	}
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// Refresh refetches the project list for the current organization and
// re-runs the resolution. A completion that was overtaken by a newer fetch
// or an organization switch is discarded.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	orgID := c.orgID
	c.fetches++
	seq := c.fetches
	c.mu.Unlock()

	var projects []project.Project
	if orgID != "" {
		found, err := c.source.FindProjects(ctx, orgID)
		if err != nil {
			return fmt.Errorf("listing projects: %w", err)
		}
		projects = found
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.orgID != orgID || seq < c.applied {
		if c.logger != nil {
			c.logger.Debug("discarding stale project list", "org_id", orgID, "current_org_id", c.orgID)
		}
		return nil
	}
	c.applied = seq
	c.projects = projects
	c.loaded = true
	c.resolveLocked()
	return nil
}

// resolveLocked applies Resolve to the loaded list and writes back.
func (c *Controller) resolveLocked() Resolution {
	stored := c.store.Get(preference.SelectedProjectKey, "")
	res := Resolve(c.orgID, c.projects, stored)
	if res.WriteBack {
		c.store.Set(preference.SelectedProjectKey, res.ProjectID)
		if c.logger != nil {
			c.logger.Debug("selected project resolved", "org_id", c.orgID, "project_id", res.ProjectID, "previous", stored)
		}
	}
	return res
}

// Selected returns the effective selected project id. Until the list for a
// newly switched organization loads, the remembered value is returned as is.
func (c *Controller) Selected() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.orgID == "" {
		return ""
	}
	if !c.loaded {
		return c.store.Get(preference.SelectedProjectKey, "")
	}
	return Resolve(c.orgID, c.projects, c.store.Get(preference.SelectedProjectKey, "")).ProjectID
}

// Organization returns the active organization id.
func (c *Controller) Organization() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orgID
}

// Projects returns the loaded project list.
func (c *Controller) Projects() []project.Project {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.projects)
}

// Select records the user's pick. Only ids in the loaded list are accepted.
func (c *Controller) Select(projectID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.orgID == "" {
		return ErrNoOrganization
	}
	if !contains(c.projects, projectID) {
		return ErrUnknownProject
	}
	c.store.Set(preference.SelectedProjectKey, projectID)
	return nil
}

// AddProject creates the next numbered project in the active organization
// and refetches the list.
func (c *Controller) AddProject(ctx context.Context) (*project.Project, error) {
	c.mu.Lock()
	orgID := c.orgID
	count := len(c.projects)
	c.mu.Unlock()

	if orgID == "" {
		return nil, ErrNoOrganization
	}

	created, err := c.source.InsertProject(ctx, project.Project{
		Title: project.NextTitle(count),
		OrgID: orgID,
	})
	if err != nil {
		return nil, fmt.Errorf("adding project: %w", err)
	}

	if err := c.Refresh(ctx); err != nil {
		return created, err
	}
	return created, nil
}

// Fetches reports how many project list refreshes were issued.
func (c *Controller) Fetches() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetches
}
