package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/repository"
)

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error      string              `json:"error"`
	Field      string              `json:"field,omitempty"`
	Fields     map[string][]string `json:"fields,omitempty"`
	FormErrors []string            `json:"formErrors,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error(r.Context(), "encode response", "error", err)
	}
}

func (s *Server) writeBody(w http.ResponseWriter, r *http.Request, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		s.logger.Warn(r.Context(), "write response", "error", err)
	}
}

// writeError maps err onto a status code and JSON body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		subErr   *orchestrator.SubmissionError
		validErr *model.ValidationError
	)
	switch {
	case errors.As(err, &subErr):
		s.writeJSON(w, r, http.StatusUnprocessableEntity, submissionResponse(subErr))
	case errors.As(err, &validErr):
		s.writeJSON(w, r, http.StatusUnprocessableEntity, errorResponse{
			Error: validErr.Reason,
			Field: validErr.Field,
		})
	case errors.Is(err, repository.ErrFormNotFound), errors.Is(err, repository.ErrEntryNotFound):
		s.writeJSON(w, r, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, render.ErrRendererNotFound):
		s.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		s.writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Debug(r.Context(), "bad request", "path", r.URL.Path, "error", err)
	s.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func submissionResponse(subErr *orchestrator.SubmissionError) errorResponse {
	return errorResponse{
		Error:      subErr.Error(),
		Fields:     render.FieldErrors(subErr.Fields),
		FormErrors: render.MergeFormErrors(nil, subErr.FormErrors...),
	}
}
