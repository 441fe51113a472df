// registry.go implements the extension registration system.
//
// Separated from extension.go to isolate the global registry state. Extensions
// self-register during init(), before main() runs, and are never removed.
//
// Design: Duplicate names panic, as database/sql.Register does. Registration
// order is kept so commands and MCP tools appear in the same order every run.

package extension

import "sync"

var (
	mu       sync.RWMutex
	registry = make(map[string]Extension)
	order    []string
)

// Register adds an extension to the registry. Called from init() functions.
// Panics if the name is already taken.
func Register(e Extension) {
	mu.Lock()
	defer mu.Unlock()

	name := e.Name()
	if _, exists := registry[name]; exists {
		panic("extension already registered: " + name)
	}
	registry[name] = e
	order = append(order, name)
}

// All returns a snapshot of all registered extensions in registration order.
func All() []Extension {
	mu.RLock()
	defer mu.RUnlock()

	exts := make([]Extension, 0, len(order))
	for _, name := range order {
		exts = append(exts, registry[name])
	}
	return exts
}

// Implementing returns the registered extensions that implement T, in
// registration order.
func Implementing[T any]() []T {
	var out []T
	for _, e := range All() {
		if t, ok := e.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

// Get returns a specific extension by name, or nil if not found.
func Get(name string) Extension {
	mu.RLock()
	defer mu.RUnlock()
	return registry[name]
}

// Names returns the names of all registered extensions.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	return append([]string(nil), order...)
}
