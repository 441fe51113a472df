package folder

import "github.com/jpl-au/kbase/internal/store"

// WouldCycle reports whether making parentID the parent of id would make id
// its own ancestor. Existing cycles in folders do not cause a loop here.
func WouldCycle(folders []store.Folder, id, parentID string) bool {
	if id == parentID {
		return true
	}
	parent := make(map[string]string, len(folders))
	for _, f := range folders {
		if f.ParentID != nil {
			parent[f.ID] = *f.ParentID
		}
	}

	seen := map[string]bool{}
	for cur := parentID; cur != ""; cur = parent[cur] {
		if cur == id {
			return true
		}
		if seen[cur] {
			return false
		}
		seen[cur] = true
	}
	return false
}
