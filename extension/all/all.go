// Package all imports all core kbase extensions.
// Import this package to register all built-in commands.
package all

import (
	// Core extensions - each registers itself via init()
	_ "github.com/jpl-au/kbase/extension/core"
	_ "github.com/jpl-au/kbase/extension/folder"
	_ "github.com/jpl-au/kbase/extension/note"
	_ "github.com/jpl-au/kbase/extension/plugin"
	_ "github.com/jpl-au/kbase/extension/privacy"
	_ "github.com/jpl-au/kbase/extension/search"
	_ "github.com/jpl-au/kbase/extension/tag"
)
