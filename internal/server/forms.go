package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formbuilder/pkg/definition"
	"github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
)

func (s *Server) listForms(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.orch.Repository().SearchForms(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, summaries)
}

func (s *Server) createForm(w http.ResponseWriter, r *http.Request) {
	def, err := decodeDefinition(r)
	if err != nil {
		s.badRequest(w, r, err)
		return
	}
	form, err := s.orch.CreateForm(r.Context(), def)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/forms/"+form.ID)
	s.writeJSON(w, r, http.StatusCreated, form)
}

func (s *Server) getForm(w http.ResponseWriter, r *http.Request) {
	form, err := s.orch.Repository().Form(r.Context(), chi.URLParam(r, "formID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, form)
}

func (s *Server) updateForm(w http.ResponseWriter, r *http.Request) {
	def, err := decodeDefinition(r)
	if err != nil {
		s.badRequest(w, r, err)
		return
	}
	form, err := s.orch.UpdateForm(r.Context(), chi.URLParam(r, "formID"), def)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, form)
}

func (s *Server) deleteForm(w http.ResponseWriter, r *http.Request) {
	if err := s.orch.DeleteForm(r.Context(), chi.URLParam(r, "formID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) cloneForm(w http.ResponseWriter, r *http.Request) {
	clone, err := s.orch.CloneForm(r.Context(), chi.URLParam(r, "formID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/forms/"+clone.ID)
	s.writeJSON(w, r, http.StatusCreated, clone)
}

// fillForm renders the form for filling in. ?renderer= selects a renderer
// other than the default.
func (s *Server) fillForm(w http.ResponseWriter, r *http.Request) {
	body, contentType, err := s.orch.Render(r.Context(), orchestrator.Request{
		FormID:   chi.URLParam(r, "formID"),
		Renderer: r.URL.Query().Get("renderer"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeBody(w, r, http.StatusOK, contentType, body)
}

func (s *Server) formSchema(w http.ResponseWriter, r *http.Request) {
	form, err := s.orch.Repository().Form(r.Context(), chi.URLParam(r, "formID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc := openapi.Document(form)
	if err := openapi.ValidateDocument(r.Context(), doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, doc)
}

func decodeDefinition(r *http.Request) (definition.Definition, error) {
	var def definition.Definition
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&def); err != nil {
		return definition.Definition{}, fmt.Errorf("decode definition: %w", err)
	}
	return def, nil
}
