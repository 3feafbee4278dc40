package task

import "time"

// State is the derived lifecycle state of a task.
type State string

const (
	StateActive    State = "active"
	StateCompleted State = "completed"
)

// Task is a single to-do item, optionally attached to a project and a user.
type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	UserID    string    `json:"userId,omitempty"`
	ProjectID string    `json:"projectId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// State reports whether the task is active or completed.
func (t Task) State() State {
	if t.Completed {
		return StateCompleted
	}
	return StateActive
}

// ListOptions filters task listings. Empty fields impose no constraint.
type ListOptions struct {
	ProjectID string
	UserID    string
}
