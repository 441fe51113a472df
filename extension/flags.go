// flags.go defines constants for all CLI flag names.
//
// Using constants instead of string literals prevents typos between
// Flags().Type() definitions and GetType() calls.
//
// Naming convention: Flag<PascalCaseName> where name matches the kebab-case
// CLI flag (e.g., "dry-run" -> FlagDryRun).

package extension

const (
	// Boolean flags

	FlagAI          = "ai"           // AI features toggle
	FlagAll         = "all"          // Include archived notes
	FlagAnalytics   = "analytics"    // Analytics toggle
	FlagArchived    = "archived"     // Archived notes only / set archived
	FlagClear       = "clear"        // Clear a nullable field (folder, parent)
	FlagDataSharing = "data-sharing" // Data sharing toggle
	FlagDiff        = "diff"         // Show diff output
	FlagDryRun      = "dry-run"      // Preview without making changes
	FlagEnable      = "enable"       // Enable on install
	FlagEncryption  = "encryption"   // Encryption toggle
	FlagFavorite    = "favorite"     // Favourite filter / setting
	FlagForce       = "force"        // Overwrite or skip confirmation
	FlagHeading     = "heading"      // Print the title as a heading
	FlagIDsOnly     = "ids-only"     // Only output note ids
	FlagIgnoreCase  = "ignore-case"  // Case-insensitive matching
	FlagLocal       = "local"        // Use local scope (gitignored)
	FlagLong        = "long"         // Long format output
	FlagNumber      = "number"       // Number output lines
	FlagRaw         = "raw"          // Raw output without rendering
	FlagReverse     = "reverse"      // Reverse sort order

	// String flags

	FlagAddr        = "addr"        // Listen address
	FlagBody        = "body"        // Note body (use - for stdin)
	FlagColor       = "color"       // Hex colour
	FlagDescription = "description" // Folder description
	FlagFolder      = "folder"      // Folder id
	FlagLines       = "lines"       // Line range (start:end)
	FlagName        = "name"        // New name
	FlagNew         = "new"         // New text for replacement
	FlagOld         = "old"         // Old text to find
	FlagParent      = "parent"      // Parent folder id
	FlagSince       = "since"       // Age filter (e.g. 7d)
	FlagSort        = "sort"        // Sort field (updated, title)
	FlagTag         = "tag"         // Tag name (repeatable)
	FlagTitle       = "title"       // Note title
	FlagTTL         = "ttl"         // Token lifetime

	// Integer flags

	FlagLimit  = "limit"  // Limit number of results
	FlagOffset = "offset" // Skip results
)
