// Package folder rebuilds the folder hierarchy from flat parent-pointer rows.
//
// Stored parent pointers are not trusted: they may dangle, point at another
// user's folder, point at the folder itself or form cycles. Build always
// terminates and always places every folder exactly once.
package folder

import (
	"errors"
	"fmt"

	"github.com/jpl-au/kbase/internal/store"
)

// ErrCyclicFolderGraph is reported by Tree.Err when cycles were severed.
// The tree is still complete; this is a warning, not a failure.
var ErrCyclicFolderGraph = errors.New("cyclic folder graph")

// Node is one folder in the tree.
type Node struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	Description string  `json:"description,omitempty"`
	NoteCount   int     `json:"note_count"`
	Children    []*Node `json:"children"`
}

// Tree is a forest of folders plus the cycles that had to be cut to build it.
type Tree struct {
	Roots  []*Node    `json:"roots"`
	Cycles [][]string `json:"cycles,omitempty"`
}

// Err returns ErrCyclicFolderGraph (wrapped with the cycle count) if any
// cycle was severed, else nil.
func (t Tree) Err() error {
	if len(t.Cycles) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d cycle(s) severed, their folders are shown at the top level",
		ErrCyclicFolderGraph, len(t.Cycles))
}

// Count returns the number of nodes in the tree.
func (t Tree) Count() int {
	n := 0
	stack := append([]*Node(nil), t.Roots...)
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n++
		stack = append(stack, top.Children...)
	}
	return n
}

// walk states
const (
	unvisited = iota
	inPath
	done
)

// Build turns rows into a forest for userID.
//
// A folder becomes a root when its parent is nil, missing, owned by someone
// else or itself. Parent chains are walked iteratively; when a walk reaches a
// folder already on the current path, every folder on that loop becomes a
// root and the loop is recorded in Tree.Cycles. Rows of other users and
// repeated ids are dropped. Roots and children keep input order.
func Build(userID string, rows []store.FolderCount) Tree {
	var order []string
	nodes := make(map[string]*Node, len(rows))
	parent := make(map[string]string, len(rows))

	for _, r := range rows {
		if r.UserID != userID {
			continue
		}
		if _, dup := nodes[r.ID]; dup {
			continue
		}
		nodes[r.ID] = &Node{
			ID:          r.ID,
			Name:        r.Name,
			Color:       r.Color,
			Description: r.Description,
			NoteCount:   r.NoteCount,
			Children:    []*Node{},
		}
		if r.ParentID != nil {
			parent[r.ID] = *r.ParentID
		}
		order = append(order, r.ID)
	}

	// Resolve parents that can never be valid.
	for id, p := range parent {
		if p == id || nodes[p] == nil {
			delete(parent, id)
		}
	}

	var t Tree
	state := make(map[string]int, len(order))
	for _, start := range order {
		if state[start] != unvisited {
			continue
		}
		var path []string
		cur := start
		cyclic := false
		for state[cur] == unvisited {
			state[cur] = inPath
			path = append(path, cur)
			p, ok := parent[cur]
			if !ok {
				break
			}
			cur = p
			cyclic = state[cur] == inPath
		}
		if cyclic {
			// cur was reached twice in this walk: path[i:] is a loop.
			i := indexOf(path, cur)
			cycle := append([]string(nil), path[i:]...)
			for _, id := range cycle {
				delete(parent, id)
			}
			t.Cycles = append(t.Cycles, cycle)
		}
		for _, id := range path {
			state[id] = done
		}
	}

	for _, id := range order {
		n := nodes[id]
		if p, ok := parent[id]; ok {
			nodes[p].Children = append(nodes[p].Children, n)
			continue
		}
		t.Roots = append(t.Roots, n)
	}
	if t.Roots == nil {
		t.Roots = []*Node{}
	}
	return t
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
