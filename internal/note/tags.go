// tags.go implements tag registry operations and the reconciled tag view.
//
// Separated from notes.go because tags have two representations (the
// registry and per-note arrays) that only meet here.
//
// Design: Reconciliation is read-side. With tags.register_observed enabled,
// names found only in note arrays are written to the registry after the
// view has been computed; a failure there is logged and never fails the read.

package note

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jpl-au/kbase/extension"
	"github.com/jpl-au/kbase/internal/log"
	"github.com/jpl-au/kbase/internal/store"
	"github.com/jpl-au/kbase/internal/tag"
)

// Tags returns the reconciled tag view for the user.
func (s *Service) Tags(ctx context.Context, userID string) ([]tag.View, error) {
	var (
		notes    []store.Note
		registry []store.Tag
		links    []store.TagLink
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		notes, err = s.store.ListNotes(gctx, userID, store.ListOptions{Archived: store.ArchivedAll})
		return err
	})
	g.Go(func() (err error) {
		registry, err = s.store.ListTags(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		links, err = s.store.ListTagLinks(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	views := tag.Reconcile(userID, notes, registry, links)

	if s.cfg.RegisterObservedTags() {
		if names := tag.Unregistered(views); len(names) > 0 {
			if _, err := s.register(ctx, userID, names); err != nil {
				log.Event("tag:register", "observed").User(userID).
					Detail("count", len(names)).Write(err)
			}
		}
	}
	return views, nil
}

// CreateTag adds a registry tag.
func (s *Service) CreateTag(ctx context.Context, userID, name, color string) (*store.Tag, error) {
	t, err := s.store.CreateTag(ctx, userID, name, color)
	log.Event("tag:create", "create").User(userID).Target(name).Write(err)
	if err != nil {
		return nil, err
	}
	s.fireEvent(extension.TagEvent{UserID: userID, Tag: name, Added: true})
	return t, nil
}

// DeleteTag removes a registry tag by name. Note arrays are left alone, so
// the name may reappear as unregistered.
func (s *Service) DeleteTag(ctx context.Context, userID, name string) error {
	t, err := s.store.TagByName(ctx, userID, name)
	if err != nil {
		return err
	}
	err = s.store.DeleteTag(ctx, userID, t.ID)
	log.Event("tag:delete", "delete").User(userID).Target(name).Write(err)
	if err != nil {
		return err
	}
	s.fireEvent(extension.TagEvent{UserID: userID, Tag: name})
	return nil
}

// AttachTag links noteID to the named registry tag, registering the name
// with the placeholder colour if it is not in the registry yet.
func (s *Service) AttachTag(ctx context.Context, userID, name, noteID string) error {
	t, err := s.store.TagByName(ctx, userID, name)
	if errors.Is(err, store.ErrNotFound) {
		t, err = s.store.CreateTag(ctx, userID, name, tag.PlaceholderColor)
		if errors.Is(err, store.ErrAlreadyExists) {
			t, err = s.store.TagByName(ctx, userID, name)
		}
	}
	if err != nil {
		return err
	}

	err = s.store.LinkTag(ctx, userID, t.ID, noteID)
	log.Event("tag:attach", "link").User(userID).Target(noteID).Detail("tag", name).Write(err)
	if err != nil {
		return err
	}
	s.fireEvent(extension.TagEvent{UserID: userID, Tag: name, NoteID: noteID, Added: true})
	return nil
}

// DetachTag removes the registry link between the named tag and noteID.
func (s *Service) DetachTag(ctx context.Context, userID, name, noteID string) error {
	t, err := s.store.TagByName(ctx, userID, name)
	if err != nil {
		return err
	}
	err = s.store.UnlinkTag(ctx, userID, t.ID, noteID)
	log.Event("tag:detach", "unlink").User(userID).Target(noteID).Detail("tag", name).Write(err)
	if err != nil {
		return err
	}
	s.fireEvent(extension.TagEvent{UserID: userID, Tag: name, NoteID: noteID})
	return nil
}

// FormaliseTags registers every name that only exists in note arrays.
func (s *Service) FormaliseTags(ctx context.Context, userID string) ([]store.Tag, error) {
	notes, err := s.store.ListNotes(ctx, userID, store.ListOptions{Archived: store.ArchivedAll})
	if err != nil {
		return nil, err
	}
	registry, err := s.store.ListTags(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := tag.Unregistered(tag.Reconcile(userID, notes, registry, nil))
	return s.register(ctx, userID, names)
}

// register creates registry entries for names. A name registered
// concurrently by someone else is skipped, not an error.
func (s *Service) register(ctx context.Context, userID string, names []string) ([]store.Tag, error) {
	var created []store.Tag
	for _, name := range names {
		t, err := s.store.CreateTag(ctx, userID, name, tag.PlaceholderColor)
		if errors.Is(err, store.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("register tag %q: %w", name, err)
		}
		created = append(created, *t)
		s.fireEvent(extension.TagEvent{UserID: userID, Tag: name, Added: true})
	}
	return created, nil
}
