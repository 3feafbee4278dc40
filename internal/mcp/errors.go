package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/todos/internal/access"
	"github.com/rpggio/todos/internal/domain/project"
	"github.com/rpggio/todos/internal/domain/task"
	"github.com/rpggio/todos/internal/identity"
	"github.com/rpggio/todos/internal/repository"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var (
		projectInvalid *project.ValidationError
		taskInvalid    *task.ValidationError
	)
	switch {
	case errors.As(err, &projectInvalid):
		return &APIError{Code: "VALIDATION_FAILED", Message: projectInvalid.Error(), Details: map[string]string{projectInvalid.Field: projectInvalid.Message}}
	case errors.As(err, &taskInvalid):
		return &APIError{Code: "VALIDATION_FAILED", Message: taskInvalid.Error(), Details: map[string]string{taskInvalid.Field: taskInvalid.Message}}
	case errors.Is(err, repository.ErrDuplicate):
		return &APIError{Code: "ALREADY_EXISTS", Message: "record already exists", RecoveryHint: "Omit the id to have one generated"}
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Call list_projects for valid ids"}
	case errors.Is(err, task.ErrTaskNotFound):
		return &APIError{Code: "TASK_NOT_FOUND", Message: "task not found", RecoveryHint: "Call list_tasks for valid ids"}
	case errors.Is(err, access.ErrNoOrganization):
		return &APIError{Code: "NO_ORGANIZATION", Message: "no organization found", RecoveryHint: "Sign in with an organization"}
	case errors.Is(err, identity.ErrUnauthorized):
		return &APIError{Code: "UNAUTHORIZED", Message: "unauthorized", RecoveryHint: "Send a valid bearer token"}
	default:
		return nil
	}
}

// toolError converts err into the error returned from a tool handler.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
