// Package tasklist keeps a task list in step with a filter and sequences
// mutations as confirm-then-refetch.
package tasklist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rpggio/todos/internal/domain/task"
)

// ErrEmptyTitle rejects blank task submissions before any network call.
var ErrEmptyTitle = errors.New("task title is required")

// Filter selects tasks by equality. Empty fields impose no constraint. A
// Filter is also the cache key of its query.
type Filter struct {
	ProjectID string
	UserID    string
}

// Store is the persistence collaborator for tasks.
type Store interface {
	FindTasks(ctx context.Context, f Filter) ([]task.Task, error)
	InsertTask(ctx context.Context, t task.Task) (*task.Task, error)
	SaveTask(ctx context.Context, t task.Task) (*task.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Notifier shows a blocking failure message to the user.
type Notifier interface {
	Notify(err error)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(err error)

// Notify implements Notifier.
func (f NotifierFunc) Notify(err error) { f(err) }

type entry struct {
	tasks []task.Task
	stale bool
	// seq of the fetch that produced tasks; older completions never replace it.
	seq int
}

// Controller owns the task list for the current filter. It is safe for
// concurrent use. Store calls run outside the lock; a completion is stored
// under the key it was issued for and is only visible while that key is
// current.
type Controller struct {
	store    Store
	notifier Notifier
	author   string
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	filter  Filter
	cache   map[Filter]*entry
	fetches int
	// fetches issued at or before the last mutation; their results are
	// stored stale.
	invalidated int
}

// Option configures a Controller.
type Option func(*Controller)

// WithAuthor sets the user id attached to new tasks.
func WithAuthor(userID string) Option {
	return func(c *Controller) { c.author = userID }
}

// WithNotifier sets where mutation failures are reported.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithLogger sets the controller logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// NewController creates a task list controller for the initial filter. No
// fetch is issued until SetFilter or Refresh.
func NewController(store Store, initial Filter, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		filter: initial,
		cache:  map[Filter]*entry{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Filter returns the current filter.
func (c *Controller) Filter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// SetFilter makes f current and fetches it unless a fresh cached result
// exists.
func (c *Controller) SetFilter(ctx context.Context, f Filter) error {
	c.mu.Lock()
	c.filter = f
	e, ok := c.cache[f]
	fresh := ok && !e.stale
	c.mu.Unlock()

	if fresh {
		return nil
	}
	return c.Refresh(ctx)
}

// Refresh fetches the current filter.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	key := c.filter
	c.fetches++
	seq := c.fetches
	c.mu.Unlock()

	// The zero filter selects nothing; an organization without projects
	// must not fall through to an unscoped listing.
	var tasks []task.Task
	if key != (Filter{}) {
		found, err := c.store.FindTasks(ctx, key)
		if err != nil {
			return fmt.Errorf("listing tasks: %w", err)
		}
		tasks = found
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.cache[key]
	if ok && e.seq > seq {
		return nil
	}
	c.cache[key] = &entry{tasks: tasks, seq: seq, stale: seq <= c.invalidated}
	if c.filter != key && c.logger != nil {
		c.logger.Debug("cached task list for inactive filter", "project_id", key.ProjectID, "user_id", key.UserID)
	}
	return nil
}

// Tasks returns the list for the current filter, or nil when it has not been
// fetched yet. Results of other filters are never returned.
func (c *Controller) Tasks() []task.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.cache[c.filter]
	if !ok {
		return nil
	}
	return slices.Clone(e.tasks)
}

// Loaded reports whether the current filter has a result, fresh or stale.
func (c *Controller) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.cache[c.filter]
	return ok
}

// Fetches reports how many list fetches were issued.
func (c *Controller) Fetches() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetches
}

// Add creates a task under the current filter. On success the returned
// string is the cleared input value.
func (c *Controller) Add(ctx context.Context, title string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return title, c.fail(ErrEmptyTitle)
	}

	f := c.Filter()
	userID := c.author
	if userID == "" {
		userID = f.UserID
	}

	_, err := c.store.InsertTask(ctx, task.Task{
		Title:     title,
		Completed: false,
		UserID:    userID,
		ProjectID: f.ProjectID,
		CreatedAt: c.now(),
	})
	if err != nil {
		return title, c.fail(fmt.Errorf("adding task: %w", err))
	}

	if err := c.invalidateAndRefresh(ctx); err != nil {
		return "", err
	}
	return "", nil
}

// SetCompleted persists a new completed value for t, then refetches.
func (c *Controller) SetCompleted(ctx context.Context, t task.Task, completed bool) error {
	t.Completed = completed
	if _, err := c.store.SaveTask(ctx, t); err != nil {
		return c.fail(fmt.Errorf("updating task: %w", err))
	}
	return c.invalidateAndRefresh(ctx)
}

// Delete removes the task, then refetches.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.store.DeleteTask(ctx, id); err != nil {
		return c.fail(fmt.Errorf("deleting task: %w", err))
	}
	return c.invalidateAndRefresh(ctx)
}

// invalidateAndRefresh marks every cached filter stale, since a mutation can
// change any of them, and refetches the current one. Stale lists stay
// visible until replaced.
func (c *Controller) invalidateAndRefresh(ctx context.Context) error {
	c.mu.Lock()
	for _, e := range c.cache {
		e.stale = true
	}
	c.invalidated = c.fetches
	c.mu.Unlock()

	if err := c.Refresh(ctx); err != nil {
		return c.fail(err)
	}
	return nil
}

func (c *Controller) fail(err error) error {
	if c.logger != nil {
		c.logger.Warn("task operation failed", "error", err)
	}
	if c.notifier != nil {
		c.notifier.Notify(err)
	}
	return err
}
