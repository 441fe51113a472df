// Package rm deletes notes.
//
// Deletion is permanent: kbase keeps no trash. Several ids may be given; a
// missing id stops the run, leaving earlier deletions in place and reporting
// which ones happened.
package rm

import (
	"context"
	"fmt"
	"io"

	"github.com/jpl-au/kbase/internal/service"
)

// Options configures a delete operation.
type Options struct {
	DryRun bool // report what would be deleted
}

// Result contains the outcome of a delete operation.
type Result struct {
	Deleted []string `json:"deleted"`
	DryRun  bool     `json:"dry_run,omitempty"`
}

// Run deletes the given notes and reports each to w.
func Run(ctx context.Context, w io.Writer, svc service.Service, userID string, ids []string, opts Options) (Result, error) {
	r := Result{Deleted: []string{}, DryRun: opts.DryRun}

	for _, id := range ids {
		if opts.DryRun {
			n, err := svc.Note(ctx, userID, id)
			if err != nil {
				return r, fmt.Errorf("rm %s: %w", id, err)
			}
			fmt.Fprintf(w, "Would delete %s  %s\n", n.ID, n.Title)
			r.Deleted = append(r.Deleted, id)
			continue
		}
		if err := svc.DeleteNote(ctx, userID, id); err != nil {
			return r, fmt.Errorf("rm %s: %w", id, err)
		}
		fmt.Fprintf(w, "Deleted %s\n", id)
		r.Deleted = append(r.Deleted, id)
	}
	return r, nil
}
