package task_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/todos/internal/domain/task"
	"github.com/rpggio/todos/internal/repository"
	"github.com/rpggio/todos/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTaskService_Create(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.TaskRepository{}
	repo.On("Create", ctx, mock.MatchedBy(func(tk *task.Task) bool {
		return tk.Title == "Buy milk" && tk.ProjectID == "p1" && tk.UserID == "u1" && !tk.Completed
	})).Return(nil)

	svc := task.NewService(repo, nil)
	created, err := svc.Create(ctx, task.CreateRequest{Title: "Buy milk", ProjectID: "p1", UserID: "u1"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, task.StateActive, created.State())
	require.False(t, created.CreatedAt.IsZero())
}

func TestTaskService_CreateRequiresTitle(t *testing.T) {
	svc := task.NewService(&mocks.TaskRepository{}, nil)

	_, err := svc.Create(context.Background(), task.CreateRequest{Title: "   "})
	require.ErrorIs(t, err, task.ErrInvalidInput)
}

func TestTaskService_CreateUnknownProject(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.TaskRepository{}
	repo.On("Create", ctx, mock.Anything).Return(repository.ErrForeignKeyViolation)

	svc := task.NewService(repo, nil)
	_, err := svc.Create(ctx, task.CreateRequest{Title: "Buy milk", ProjectID: "p9"})
	var verr *task.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "projectId", verr.Field)
}

func TestTaskService_SaveTogglesState(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.TaskRepository{}
	repo.On("Get", ctx, "t1").Return(&task.Task{ID: "t1", Title: "Buy milk"}, nil)
	repo.On("Update", ctx, mock.Anything).Return(nil)

	svc := task.NewService(repo, nil)
	done := true
	saved, err := svc.Save(ctx, task.SaveRequest{ID: "t1", Completed: &done})
	require.NoError(t, err)
	require.Equal(t, task.StateCompleted, saved.State())
	require.Equal(t, "Buy milk", saved.Title)
}

func TestTaskService_SaveNotFound(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.TaskRepository{}
	repo.On("Get", ctx, "missing").Return((*task.Task)(nil), repository.ErrNotFound)

	svc := task.NewService(repo, nil)
	done := true
	_, err := svc.Save(ctx, task.SaveRequest{ID: "missing", Completed: &done})
	require.ErrorIs(t, err, task.ErrTaskNotFound)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestTaskService_Delete(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.TaskRepository{}
	repo.On("Delete", ctx, "t1").Return(nil)
	repo.On("Delete", ctx, "missing").Return(repository.ErrNotFound)

	svc := task.NewService(repo, nil)
	require.NoError(t, svc.Delete(ctx, "t1"))
	require.ErrorIs(t, svc.Delete(ctx, "missing"), task.ErrTaskNotFound)
}
