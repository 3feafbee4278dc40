package testserver

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/todos/internal/domain/project"
	"github.com/rpggio/todos/internal/domain/task"
	"github.com/rpggio/todos/internal/identity"
	"github.com/rpggio/todos/internal/sqlite"
	"github.com/rpggio/todos/internal/transport"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Projects *project.Service
	Tasks    *task.Service
	verifier *identity.Verifier
}

// New starts the record API over a fresh in-memory database. With auth
// enabled, requests need a token from Token.
func New(t *testing.T, auth bool) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	projectSvc := project.NewService(sqlite.NewProjectRepository(db), nil)
	taskSvc := task.NewService(sqlite.NewTaskRepository(db), nil)

	verifier, err := identity.NewVerifier(secret, "todos-test")
	require.NoError(t, err)

	var authMiddleware = transport.AuthMiddleware(verifier)
	if !auth {
		authMiddleware = nil
	}
	server := httptest.NewServer(transport.NewServer(projectSvc, taskSvc, nil, authMiddleware))

	ts := &TestServer{
		Server:   server,
		DB:       db,
		Projects: projectSvc,
		Tasks:    taskSvc,
		verifier: verifier,
	}

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// Token issues a bearer token for the identity.
func (ts *TestServer) Token(t *testing.T, id identity.Identity) string {
	t.Helper()
	token, err := ts.verifier.Issue(id, time.Hour)
	require.NoError(t, err)
	return token
}

// URL is the server base URL.
func (ts *TestServer) URL() string {
	return ts.Server.URL
}
