package main

import (
	"bytes"
	"context"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/rpggio/todos/internal/domain/project"
	"github.com/rpggio/todos/internal/identity"
	"github.com/rpggio/todos/internal/testserver"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, opts options, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), opts, args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRun_TaskCommands(t *testing.T) {
	ts := testserver.New(t, true)
	_, err := ts.Projects.Create(context.Background(), project.CreateRequest{ID: "p1", Title: "Project 1", OrgID: "org1"})
	require.NoError(t, err)

	opts := options{
		baseURL:   ts.URL(),
		token:     ts.Token(t, identity.Identity{UserID: "user-1", OrgID: "org1"}),
		userID:    "user-1",
		orgID:     "org1",
		prefsPath: filepath.Join(t.TempDir(), "prefs.yaml"),
	}

	out, _, err := runCommand(t, opts)
	require.NoError(t, err)
	require.Contains(t, out, "project p1")
	require.Contains(t, out, "no tasks")

	out, _, err = runCommand(t, opts, "add", "Buy", "milk")
	require.NoError(t, err)
	match := regexp.MustCompile(`\[ \] (\S+)  Buy milk`).FindStringSubmatch(out)
	require.Len(t, match, 2)
	id := match[1]

	out, _, err = runCommand(t, opts, "done", id)
	require.NoError(t, err)
	require.Contains(t, out, "[x] "+id+"  Buy milk")

	out, _, err = runCommand(t, opts, "rm", id)
	require.NoError(t, err)
	require.Contains(t, out, "no tasks")
}

func TestRun_Projects(t *testing.T) {
	ts := testserver.New(t, false)
	opts := options{
		baseURL:   ts.URL(),
		userID:    "user-1",
		orgID:     "org1",
		prefsPath: filepath.Join(t.TempDir(), "prefs.yaml"),
	}

	out, _, err := runCommand(t, opts, "projects")
	require.NoError(t, err)
	require.Contains(t, out, "no projects")

	out, _, err = runCommand(t, opts, "new-project")
	require.NoError(t, err)
	require.Contains(t, out, "created Project 1")
	require.Contains(t, out, "* ")

	_, stderr, err := runCommand(t, opts, "select", "p9")
	require.Error(t, err)
	require.Contains(t, stderr, "project is not in the current organization")
}

func TestRun_Failures(t *testing.T) {
	ts := testserver.New(t, false)
	opts := options{baseURL: ts.URL(), userID: "user-1", prefsPath: filepath.Join(t.TempDir(), "prefs.yaml")}

	_, stderr, err := runCommand(t, opts, "add", "  ")
	require.Error(t, err)
	require.Contains(t, stderr, "error: task title is required")

	_, stderr, err = runCommand(t, opts, "new-project")
	require.Error(t, err)
	require.Contains(t, stderr, "no organization found")

	_, stderr, err = runCommand(t, options{baseURL: ts.URL()}, "list")
	require.Error(t, err)
	require.Contains(t, stderr, "please sign in to continue")

	_, _, err = runCommand(t, opts, "bogus")
	require.Error(t, err)
}
