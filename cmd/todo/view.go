package main

import (
	"fmt"
	"io"

	"github.com/rpggio/todos/internal/domain/task"
	"github.com/rpggio/todos/internal/workspace"
)

func printProjects(out io.Writer, w *workspace.Workspace) {
	projects := w.Projects()
	if len(projects) == 0 {
		fmt.Fprintln(out, "no projects")
		return
	}
	selected := w.SelectedProject()
	for _, p := range projects {
		marker := " "
		if p.ID == selected {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %s  %s\n", marker, p.ID, p.Title)
	}
}

func printTasks(out io.Writer, w *workspace.Workspace) {
	if w.Session().OrgID != "" {
		if selected := w.SelectedProject(); selected != "" {
			fmt.Fprintf(out, "project %s\n", selected)
		} else {
			fmt.Fprintln(out, "no project selected")
			return
		}
	}

	tasks := w.Tasks()
	if len(tasks) == 0 {
		fmt.Fprintln(out, "no tasks")
		return
	}
	for _, t := range tasks {
		check := " "
		if t.State() == task.StateCompleted {
			check = "x"
		}
		fmt.Fprintf(out, "[%s] %s  %s\n", check, t.ID, t.Title)
	}
}

func findTask(w *workspace.Workspace, id string) (task.Task, bool) {
	for _, t := range w.Tasks() {
		if t.ID == id {
			return t, true
		}
	}
	return task.Task{}, false
}
