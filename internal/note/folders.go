// folders.go implements folder operations for the Service layer.
//
// Design: The acyclic invariant is enforced here, at write time, by walking
// the stored parent chain before accepting a new parent. The tree builder
// still tolerates cycles already in the data (imports, older versions, manual
// edits), so reads never fail on them.

package note

import (
	"context"
	"fmt"

	"github.com/jpl-au/kbase/extension"
	"github.com/jpl-au/kbase/internal/folder"
	"github.com/jpl-au/kbase/internal/log"
	"github.com/jpl-au/kbase/internal/store"
)

// FolderTree returns the user's folders as a forest with note counts.
func (s *Service) FolderTree(ctx context.Context, userID string) (folder.Tree, error) {
	rows, err := s.store.ListFoldersWithCounts(ctx, userID)
	if err != nil {
		return folder.Tree{Roots: []*folder.Node{}}, err
	}
	t := folder.Build(userID, rows)
	if err := t.Err(); err != nil {
		log.Event("folder:tree", "cycle").User(userID).
			Detail("cycles", len(t.Cycles)).Write(err)
	}
	return t, nil
}

// CreateFolder adds a folder.
func (s *Service) CreateFolder(ctx context.Context, userID string, in store.FolderInput) (*store.Folder, error) {
	f, err := s.store.CreateFolder(ctx, userID, in)
	log.Event("folder:create", "create").User(userID).Target(folderID(f)).Write(err)
	if err != nil {
		return nil, err
	}
	s.fireEvent(extension.FolderEvent{UserID: userID, FolderID: f.ID, Name: f.Name, Type: extension.EventFolderCreate})
	return f, nil
}

// UpdateFolder applies a partial update, refusing a parent that would
// create a cycle.
func (s *Service) UpdateFolder(ctx context.Context, userID, id string, p store.FolderPatch) (*store.Folder, error) {
	if p.ParentID != nil && !p.ClearParent {
		all, err := s.store.ListFolders(ctx, userID)
		if err != nil {
			return nil, err
		}
		if folder.WouldCycle(all, id, *p.ParentID) {
			return nil, fmt.Errorf("move folder %s under %s: %w", id, *p.ParentID, ErrFolderCycle)
		}
	}

	f, err := s.store.UpdateFolder(ctx, userID, id, p)
	log.Event("folder:update", "update").User(userID).Target(id).Write(err)
	if err != nil {
		return nil, err
	}
	s.fireEvent(extension.FolderEvent{UserID: userID, FolderID: f.ID, Name: f.Name, Type: extension.EventFolderUpdate})
	return f, nil
}

// DeleteFolder removes a folder that has no subfolders and no notes.
func (s *Service) DeleteFolder(ctx context.Context, userID, id string) error {
	if _, err := s.store.Folder(ctx, userID, id); err != nil {
		return err
	}
	children, notes, err := s.store.FolderUsage(ctx, userID, id)
	if err != nil {
		return err
	}
	if children > 0 || notes > 0 {
		return fmt.Errorf("delete folder %s (%d subfolders, %d notes): %w", id, children, notes, ErrFolderNotEmpty)
	}

	err = s.store.DeleteFolder(ctx, userID, id)
	log.Event("folder:delete", "delete").User(userID).Target(id).Write(err)
	if err != nil {
		return err
	}
	s.fireEvent(extension.FolderEvent{UserID: userID, FolderID: id, Type: extension.EventFolderDelete})
	return nil
}

func folderID(f *store.Folder) string {
	if f == nil {
		return ""
	}
	return f.ID
}
