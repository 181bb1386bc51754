package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/markdown"
)

const formatMarkdown = "markdown"

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	formID := chi.URLParam(r, "formID")
	list, err := s.orch.Repository().Entries(ctx, formID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if r.URL.Query().Get("format") != formatMarkdown {
		s.writeJSON(w, r, http.StatusOK, list)
		return
	}

	// Markdown needs the field labels, so it is the only listing that
	// requires the form to exist.
	form, err := s.orch.Repository().Form(ctx, formID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeBody(w, r, http.StatusOK, markdown.Renderer{}.ContentType(), []byte(markdown.Entries(form, list)))
}

func (s *Server) getEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	formID := chi.URLParam(r, "formID")
	entry, err := s.orch.Repository().Entry(ctx, formID, chi.URLParam(r, "entryID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if r.URL.Query().Get("format") != formatMarkdown {
		s.writeJSON(w, r, http.StatusOK, entry)
		return
	}

	form, err := s.orch.Repository().Form(ctx, formID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := markdown.Entry(form, entry)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeBody(w, r, http.StatusOK, markdown.Renderer{}.ContentType(), []byte(doc))
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	err := s.orch.DeleteEntry(r.Context(), chi.URLParam(r, "formID"), chi.URLParam(r, "entryID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// submitEntry accepts a JSON object of values or a browser form post. A
// rejected browser post is answered with the form re-rendered around the
// submitted values and their errors.
func (s *Server) submitEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	formID := chi.URLParam(r, "formID")

	browser := isFormPost(r)
	var values model.Values
	if browser {
		form, err := s.orch.Repository().Form(ctx, formID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		values, err = s.parseFormPost(w, r, form)
		if err != nil {
			s.badRequest(w, r, err)
			return
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
			s.badRequest(w, r, fmt.Errorf("decode values: %w", err))
			return
		}
	}

	entry, err := s.orch.Submit(ctx, formID, values)
	if err == nil {
		if browser {
			http.Redirect(w, r, "/forms/"+formID+"/entries/"+entry.ID, http.StatusSeeOther)
			return
		}
		w.Header().Set("Location", "/forms/"+formID+"/entries/"+entry.ID)
		s.writeJSON(w, r, http.StatusCreated, entry)
		return
	}

	var subErr *orchestrator.SubmissionError
	if browser && errors.As(err, &subErr) {
		body, contentType, renderErr := s.orch.RenderInvalid(ctx, r.URL.Query().Get("renderer"), values, subErr, render.RenderOptions{})
		if renderErr != nil {
			s.writeError(w, r, renderErr)
			return
		}
		s.writeBody(w, r, http.StatusUnprocessableEntity, contentType, body)
		return
	}
	s.writeError(w, r, err)
}

func (s *Server) parseFormPost(w http.ResponseWriter, r *http.Request, form model.Form) (model.Values, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
		if err := r.ParseMultipartForm(s.maxUpload); err != nil {
			return nil, fmt.Errorf("parse multipart form: %w", err)
		}
		defer r.MultipartForm.RemoveAll()
		return render.ParseSubmission(form, r.PostForm, r.MultipartForm.File), nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	return render.ParseSubmission(form, r.PostForm, nil), nil
}

func isFormPost(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"
}
