// Package repository maintains the form library (the "forms" document) and
// the submissions (the "entries" document) on top of a store.Store.
//
// Every mutation loads the affected document, applies the change and saves
// the whole document back. A Repository serialises its own mutations; two
// Repository values sharing one backend are last-writer-wins.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/store"
)

var (
	// ErrFormNotFound is returned when no form has the requested id.
	ErrFormNotFound = errors.New("repository: form not found")
	// ErrEntryNotFound is returned when no entry has the requested id.
	ErrEntryNotFound = errors.New("repository: entry not found")
)

// Repository reads and writes forms and entries.
type Repository struct {
	store   store.Store
	builder *builder.Builder
	mu      sync.Mutex
}

// Option configures a Repository.
type Option func(*Repository)

// WithBuilder sets the builder used by CloneForm.
func WithBuilder(b *builder.Builder) Option {
	return func(r *Repository) {
		if b != nil {
			r.builder = b
		}
	}
}

// New creates a repository over s.
func New(s store.Store, opts ...Option) *Repository {
	r := &Repository{store: s, builder: builder.New()}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// FormSummary is one row of the form library listing.
type FormSummary struct {
	Form       model.Form `json:"form"`
	FieldCount int        `json:"fieldCount"`
	EntryCount int        `json:"entryCount"`
}

func (r *Repository) loadForms(ctx context.Context) ([]model.Form, error) {
	raw, err := r.store.Load(ctx, store.KeyForms)
	if errors.Is(err, store.ErrNotFound) {
		return []model.Form{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repository: load forms: %w", err)
	}
	var forms []model.Form
	if err := json.Unmarshal(raw, &forms); err != nil {
		return nil, fmt.Errorf("repository: decode forms: %w", err)
	}
	if forms == nil {
		forms = []model.Form{}
	}
	return forms, nil
}

func (r *Repository) saveForms(ctx context.Context, forms []model.Form) error {
	raw, err := json.Marshal(forms)
	if err != nil {
		return fmt.Errorf("repository: encode forms: %w", err)
	}
	if err := r.store.Save(ctx, store.KeyForms, raw); err != nil {
		return fmt.Errorf("repository: save forms: %w", err)
	}
	return nil
}

func (r *Repository) loadEntries(ctx context.Context) (map[string][]model.Entry, error) {
	raw, err := r.store.Load(ctx, store.KeyEntries)
	if errors.Is(err, store.ErrNotFound) {
		return map[string][]model.Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repository: load entries: %w", err)
	}
	var entries map[string][]model.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("repository: decode entries: %w", err)
	}
	if entries == nil {
		entries = map[string][]model.Entry{}
	}
	return entries, nil
}

func (r *Repository) saveEntries(ctx context.Context, entries map[string][]model.Entry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("repository: encode entries: %w", err)
	}
	if err := r.store.Save(ctx, store.KeyEntries, raw); err != nil {
		return fmt.Errorf("repository: save entries: %w", err)
	}
	return nil
}

// Forms returns every form in insertion order.
func (r *Repository) Forms(ctx context.Context) ([]model.Form, error) {
	return r.loadForms(ctx)
}

// Form returns the form with id.
func (r *Repository) Form(ctx context.Context, id string) (model.Form, error) {
	forms, err := r.loadForms(ctx)
	if err != nil {
		return model.Form{}, err
	}
	if i := indexOfForm(forms, id); i >= 0 {
		return forms[i], nil
	}
	return model.Form{}, fmt.Errorf("%w: %s", ErrFormNotFound, id)
}

// SearchForms lists forms whose title contains query, ignoring case, with
// their field and entry counts. An empty query matches every form.
func (r *Repository) SearchForms(ctx context.Context, query string) ([]FormSummary, error) {
	forms, err := r.loadForms(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := r.EntryCounts(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]FormSummary, 0, len(forms))
	for _, form := range forms {
		if needle != "" && !strings.Contains(strings.ToLower(form.Title), needle) {
			continue
		}
		out = append(out, FormSummary{
			Form:       form,
			FieldCount: len(form.Fields),
			EntryCount: counts[form.ID],
		})
	}
	return out, nil
}

// PutForm replaces the form with the same id or appends it.
func (r *Repository) PutForm(ctx context.Context, form model.Form) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	forms, err := r.loadForms(ctx)
	if err != nil {
		return err
	}
	if i := indexOfForm(forms, form.ID); i >= 0 {
		forms[i] = form.Clone()
	} else {
		forms = append(forms, form.Clone())
	}
	return r.saveForms(ctx, forms)
}

// DeleteForm removes the form and every entry recorded against it.
func (r *Repository) DeleteForm(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	forms, err := r.loadForms(ctx)
	if err != nil {
		return err
	}
	i := indexOfForm(forms, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrFormNotFound, id)
	}

	// Entries go first so a failed write leaves the form in place to retry.
	entries, err := r.loadEntries(ctx)
	if err != nil {
		return err
	}
	if _, ok := entries[id]; ok {
		delete(entries, id)
		if err := r.saveEntries(ctx, entries); err != nil {
			return err
		}
	}

	forms = append(forms[:i], forms[i+1:]...)
	return r.saveForms(ctx, forms)
}

// CloneForm copies the form with id under a new id and a " (Copy)" title
// and stores the copy. Entries are not copied.
func (r *Repository) CloneForm(ctx context.Context, id string) (model.Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	forms, err := r.loadForms(ctx)
	if err != nil {
		return model.Form{}, err
	}
	i := indexOfForm(forms, id)
	if i < 0 {
		return model.Form{}, fmt.Errorf("%w: %s", ErrFormNotFound, id)
	}
	clone := r.builder.CloneForm(forms[i])
	forms = append(forms, clone)
	if err := r.saveForms(ctx, forms); err != nil {
		return model.Form{}, err
	}
	return clone, nil
}

// Entries returns the entries recorded for formID in submission order. A
// form without entries yields an empty slice.
func (r *Repository) Entries(ctx context.Context, formID string) ([]model.Entry, error) {
	entries, err := r.loadEntries(ctx)
	if err != nil {
		return nil, err
	}
	list := entries[formID]
	if list == nil {
		return []model.Entry{}, nil
	}
	return list, nil
}

// Entry returns one entry of formID.
func (r *Repository) Entry(ctx context.Context, formID, entryID string) (model.Entry, error) {
	list, err := r.Entries(ctx, formID)
	if err != nil {
		return model.Entry{}, err
	}
	for _, entry := range list {
		if entry.ID == entryID {
			return entry, nil
		}
	}
	return model.Entry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
}

// AddEntry appends entry to its form's list. The form must exist.
func (r *Repository) AddEntry(ctx context.Context, entry model.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	forms, err := r.loadForms(ctx)
	if err != nil {
		return err
	}
	if indexOfForm(forms, entry.FormID) < 0 {
		return fmt.Errorf("%w: %s", ErrFormNotFound, entry.FormID)
	}

	entries, err := r.loadEntries(ctx)
	if err != nil {
		return err
	}
	entries[entry.FormID] = append(entries[entry.FormID], entry)
	return r.saveEntries(ctx, entries)
}

// DeleteEntry removes one entry of formID.
func (r *Repository) DeleteEntry(ctx context.Context, formID, entryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.loadEntries(ctx)
	if err != nil {
		return err
	}
	list := entries[formID]
	for i, entry := range list {
		if entry.ID != entryID {
			continue
		}
		entries[formID] = append(list[:i], list[i+1:]...)
		return r.saveEntries(ctx, entries)
	}
	return fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
}

// EntryCounts returns the number of entries per form id.
func (r *Repository) EntryCounts(ctx context.Context) (map[string]int, error) {
	entries, err := r.loadEntries(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(entries))
	for id, list := range entries {
		counts[id] = len(list)
	}
	return counts, nil
}

func indexOfForm(forms []model.Form, id string) int {
	for i, form := range forms {
		if form.ID == id {
			return i
		}
	}
	return -1
}
