package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/todos/internal/repository"
)

// Service handles task operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new task service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// CreateRequest describes a task creation request.
type CreateRequest struct {
	Title     string
	Completed bool
	UserID    string
	ProjectID string
	CreatedAt time.Time
}

// SaveRequest describes an in-place task update. Nil fields are left as is.
type SaveRequest struct {
	ID        string
	Title     *string
	Completed *bool
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Message: "Should not be empty"}
	}
	return nil
}

// Create creates a new task.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Task, error) {
	if err := validateTitle(req.Title); err != nil {
		return nil, err
	}

	createdAt := req.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	t := &Task{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Completed: req.Completed,
		UserID:    req.UserID,
		ProjectID: req.ProjectID,
		CreatedAt: createdAt,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, &ValidationError{Field: "projectId", Message: "Project does not exist"}
		}
		return nil, fmt.Errorf("creating task: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("task created", "task_id", t.ID, "project_id", t.ProjectID, "user_id", t.UserID)
	}
	return t, nil
}

// Get fetches a task by ID.
func (s *Service) Get(ctx context.Context, id string) (*Task, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("getting task: %w", err)
	}
	return t, nil
}

// List returns tasks matching the filter in creation order.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Task, error) {
	tasks, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

// Save applies an update to an existing task. Concurrent saves are
// last-write-wins.
func (s *Service) Save(ctx context.Context, req SaveRequest) (*Task, error) {
	t, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if err := validateTitle(*req.Title); err != nil {
			return nil, err
		}
		t.Title = *req.Title
	}
	if req.Completed != nil {
		t.Completed = *req.Completed
	}

	if err := s.repo.Update(ctx, t); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("saving task: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("task saved", "task_id", t.ID, "state", t.State())
	}
	return t, nil
}

// Delete removes a task. Removed is terminal.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("deleting task: %w", err)
	}
	if s.logger != nil {
		s.logger.Debug("task deleted", "task_id", id)
	}
	return nil
}
