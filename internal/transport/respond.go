package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rpggio/todos/internal/access"
	"github.com/rpggio/todos/internal/domain/project"
	"github.com/rpggio/todos/internal/domain/task"
	"github.com/rpggio/todos/internal/repository"
)

// ErrorBody is the JSON shape of every failed response. ModelState names the
// fields that failed validation.
type ErrorBody struct {
	Message    string            `json:"message"`
	ModelState map[string]string `json:"modelState,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorBody{Message: message})
}

func decodeBody(body io.Reader, out any) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("parse error: %w", err)
	}
	return nil
}

// writeError maps domain errors onto HTTP statuses. Validation messages are
// passed through verbatim.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		projectInvalid *project.ValidationError
		taskInvalid    *task.ValidationError
	)
	switch {
	case errors.As(err, &projectInvalid):
		writeJSON(w, http.StatusBadRequest, ErrorBody{
			Message:    projectInvalid.Error(),
			ModelState: map[string]string{projectInvalid.Field: projectInvalid.Message},
		})
	case errors.As(err, &taskInvalid):
		writeJSON(w, http.StatusBadRequest, ErrorBody{
			Message:    taskInvalid.Error(),
			ModelState: map[string]string{taskInvalid.Field: taskInvalid.Message},
		})
	case errors.Is(err, project.ErrProjectNotFound), errors.Is(err, task.ErrTaskNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrDuplicate):
		writeMessage(w, http.StatusConflict, "record already exists")
	case errors.Is(err, access.ErrNoOrganization):
		writeMessage(w, http.StatusForbidden, access.ErrNoOrganization.Error())
	default:
		if s.logger != nil {
			s.logger.Error("request failed", "error", err)
		}
		writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}
