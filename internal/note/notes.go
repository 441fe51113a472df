// notes.go implements note CRUD for the Service layer.
//
// Separated from search.go because these are exact lookups and writes; the
// store already scopes every query to the user, so the service adds only
// configured limits and events.

package note

import (
	"context"
	"fmt"

	"github.com/jpl-au/kbase/extension"
	"github.com/jpl-au/kbase/internal/edit"
	"github.com/jpl-au/kbase/internal/log"
	"github.com/jpl-au/kbase/internal/store"
	"github.com/jpl-au/kbase/internal/validate"
)

// Note returns a single note.
func (s *Service) Note(ctx context.Context, userID, id string) (*store.Note, error) {
	return s.store.Note(ctx, userID, id)
}

// ListNotes lists notes. A zero Limit uses the configured search.limit.
func (s *Service) ListNotes(ctx context.Context, userID string, opts store.ListOptions) ([]store.Note, error) {
	if opts.Limit == 0 {
		opts.Limit = s.cfg.SearchLimit()
	}
	return s.store.ListNotes(ctx, userID, opts)
}

// CreateNote validates against configured limits and creates a note.
func (s *Service) CreateNote(ctx context.Context, userID string, in store.NoteInput) (*store.Note, error) {
	if err := s.checkLimits(&in.Title, &in.Body); err != nil {
		return nil, err
	}
	n, err := s.store.CreateNote(ctx, userID, in)
	log.Event("note:create", "create").User(userID).Target(noteID(n)).Write(err)
	if err != nil {
		return nil, err
	}
	s.fireEvent(extension.NoteWriteEvent{UserID: userID, NoteID: n.ID, Title: n.Title, Body: n.Body, Tags: n.Tags, Created: true})
	return n, nil
}

// UpdateNote applies a partial update.
func (s *Service) UpdateNote(ctx context.Context, userID, id string, p store.NotePatch) (*store.Note, error) {
	if err := s.checkLimits(p.Title, p.Body); err != nil {
		return nil, err
	}
	n, err := s.store.UpdateNote(ctx, userID, id, p)
	log.Event("note:update", "update").User(userID).Target(id).Write(err)
	if err != nil {
		return nil, err
	}
	s.fireEvent(extension.NoteWriteEvent{UserID: userID, NoteID: n.ID, Title: n.Title, Body: n.Body, Tags: n.Tags})
	return n, nil
}

// EditNote applies a search/replace or line-range edit to the body.
func (s *Service) EditNote(ctx context.Context, userID, id string, opts edit.Options) (before, after *store.Note, err error) {
	before, err = s.store.Note(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}
	body, err := edit.Apply(before.Body, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("edit note %s: %w", id, err)
	}
	after, err = s.UpdateNote(ctx, userID, id, store.NotePatch{Body: &body})
	if err != nil {
		return nil, nil, err
	}
	return before, after, nil
}

// DeleteNote hard-deletes a note.
func (s *Service) DeleteNote(ctx context.Context, userID, id string) error {
	err := s.store.DeleteNote(ctx, userID, id)
	log.Event("note:delete", "delete").User(userID).Target(id).Write(err)
	if err != nil {
		return err
	}
	s.fireEvent(extension.NoteDeleteEvent{UserID: userID, NoteID: id})
	return nil
}

func (s *Service) checkLimits(title, body *string) error {
	if title != nil {
		if err := validate.Length(*title, s.cfg.MaxTitle()); err != nil {
			return err
		}
	}
	if body != nil {
		if err := validate.Content(*body, s.cfg.MaxBody()); err != nil {
			return err
		}
	}
	return nil
}

func noteID(n *store.Note) string {
	if n == nil {
		return ""
	}
	return n.ID
}
