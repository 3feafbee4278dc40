package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/todos/internal/domain/project"
	"github.com/rpggio/todos/internal/repository"
	"github.com/stretchr/testify/require"
)

func createProject(t *testing.T, repo *ProjectRepository, id, orgID string, createdAt time.Time) *project.Project {
	t.Helper()
	proj := &project.Project{
		ID:        id,
		Title:     "Project " + id,
		OrgID:     orgID,
		CreatedAt: createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), proj))
	return proj
}

func TestProjectRepository_CreateAndGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := createProject(t, repo, "p1", "org1", time.Now())

	retrieved, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, proj.ID, retrieved.ID)
	require.Equal(t, proj.Title, retrieved.Title)
	require.Equal(t, "org1", retrieved.OrgID)
	require.WithinDuration(t, proj.CreatedAt, retrieved.CreatedAt, time.Second)

	// Try to get non-existent project
	_, err = repo.Get(ctx, "nonexistent")
	require.Equal(t, repository.ErrNotFound, err)
}

func TestProjectRepository_CreateDuplicate(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)

	createProject(t, repo, "p1", "org1", time.Now())
	err := repo.Create(context.Background(), &project.Project{ID: "p1", Title: "Again", OrgID: "org1", CreatedAt: time.Now()})
	require.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestProjectRepository_ListByOrganization(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	base := time.Now()
	createProject(t, repo, "p2", "org1", base.Add(time.Second))
	createProject(t, repo, "p1", "org1", base)
	createProject(t, repo, "p3", "org2", base)

	projects, err := repo.List(ctx, project.ListOptions{OrgID: "org1"})
	require.NoError(t, err)
	require.Len(t, projects, 2)

	// Oldest first
	require.Equal(t, "p1", projects[0].ID)
	require.Equal(t, "p2", projects[1].ID)

	projects, err = repo.List(ctx, project.ListOptions{OrgID: "org-empty"})
	require.NoError(t, err)
	require.Empty(t, projects)

	projects, err = repo.List(ctx, project.ListOptions{})
	require.NoError(t, err)
	require.Len(t, projects, 3)
}
