// Package validate provides input validation for kbase's domain types.
//
// This package enforces data integrity rules at the boundary between user
// input and the storage layer. Each validation function returns nil on
// success or a descriptive error on failure.
//
// # Design Philosophy
//
// Validation is minimal. We reject clearly broken inputs (empty names, null
// bytes, excessive sizes, malformed colours) but avoid rules that would limit
// legitimate notes.
//
// # Validation Functions
//
// Title validates note titles.
// Tag validates tag names (labels, compared case-sensitively).
// FolderName validates folder names.
// Color validates the optional hex colour on tags and folders.
// Content validates note body size limits.
//
// # Error Handling
//
// All validation errors wrap one of the sentinel errors defined in errors.go
// (ErrInvalidTitle, ErrInvalidTag, etc.). Use errors.Is() for type-safe
// error checking:
//
//	if errors.Is(err, validate.ErrInvalidTag) {
//	    // handle invalid tag
//	}
package validate
