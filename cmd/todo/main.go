// Command todo is a terminal view over the todo workspace: it resolves the
// selected project, lists its tasks and applies one action per invocation.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rpggio/todos/internal/apiclient"
	"github.com/rpggio/todos/internal/config"
	"github.com/rpggio/todos/internal/preference"
	"github.com/rpggio/todos/internal/tasklist"
	"github.com/rpggio/todos/internal/workspace"
)

const usage = `usage: todo [flags] <command> [args]

commands:
  list                 show the tasks of the selected project (default)
  projects             show the organization's projects
  select <project-id>  make a project the selection
  new-project          add "Project N" to the organization
  add <title...>       add a task
  done <task-id>       mark a task completed
  undo <task-id>       mark a task active
  rm <task-id>         delete a task
`

type options struct {
	baseURL   string
	token     string
	userID    string
	orgID     string
	prefsPath string
	verbose   bool
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	opts := options{
		baseURL:   cfg.Client.BaseURL,
		token:     cfg.Client.Token,
		userID:    cfg.Client.UserID,
		orgID:     cfg.Client.OrgID,
		prefsPath: cfg.Client.PreferencesPath,
	}
	flag.StringVar(&opts.baseURL, "api", opts.baseURL, "todo API base URL")
	flag.StringVar(&opts.token, "token", opts.token, "bearer token")
	flag.StringVar(&opts.userID, "user", opts.userID, "signed-in user id")
	flag.StringVar(&opts.orgID, "org", opts.orgID, "active organization id (empty for none)")
	flag.StringVar(&opts.prefsPath, "prefs", opts.prefsPath, "preferences file (default: user config dir)")
	flag.BoolVar(&opts.verbose, "v", false, "verbose output")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if opts.prefsPath == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			opts.prefsPath = filepath.Join(dir, "todos", "preferences.yaml")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, flag.Args(), os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// run executes one command. Failures are already reported on stderr when
// it returns an error.
func run(ctx context.Context, opts options, args []string, stdout, stderr io.Writer) error {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	reported := false
	notify := tasklist.NotifierFunc(func(err error) {
		reported = true
		fmt.Fprintf(stderr, "error: %v\n", err)
	})
	fail := func(err error) error {
		if !reported {
			fmt.Fprintf(stderr, "error: %v\n", err)
		}
		return err
	}

	clientOpts := []apiclient.Option{}
	if opts.token != "" {
		clientOpts = append(clientOpts, apiclient.WithToken(opts.token))
	}

	w := workspace.New(workspace.Config{
		Session: workspace.Session{
			UserID: opts.userID,
			OrgID:  opts.orgID,
			Loaded: true,
		},
		Backend:  apiclient.New(opts.baseURL, clientOpts...),
		Store:    preference.Open(opts.prefsPath, logger),
		Notifier: notify,
		Logger:   logger,
	})

	if err := w.Sync(ctx); err != nil {
		return fail(err)
	}

	command := "list"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	switch command {
	case "list":
	case "projects":
		printProjects(stdout, w)
		return nil
	case "select":
		if len(args) != 1 {
			return fail(fmt.Errorf("select needs a project id"))
		}
		if err := w.SelectProject(ctx, args[0]); err != nil {
			return fail(err)
		}
	case "new-project":
		created, err := w.AddProject(ctx)
		if err != nil {
			return fail(err)
		}
		fmt.Fprintf(stdout, "created %s (%s)\n", created.Title, created.ID)
		printProjects(stdout, w)
		return nil
	case "add":
		if _, err := w.AddTask(ctx, strings.Join(args, " ")); err != nil {
			return fail(err)
		}
	case "done", "undo":
		if len(args) != 1 {
			return fail(fmt.Errorf("%s needs a task id", command))
		}
		t, ok := findTask(w, args[0])
		if !ok {
			return fail(fmt.Errorf("task %s is not in the current list", args[0]))
		}
		if err := w.ToggleTask(ctx, t, command == "done"); err != nil {
			return fail(err)
		}
	case "rm":
		if len(args) != 1 {
			return fail(fmt.Errorf("rm needs a task id"))
		}
		if err := w.DeleteTask(ctx, args[0]); err != nil {
			return fail(err)
		}
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}

	printTasks(stdout, w)
	return nil
}
