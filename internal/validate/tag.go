// tag.go implements tag name validation.
//
// Design: Tags are user-defined labels compared case-sensitively, so no
// normalisation happens here. Only clearly broken inputs are rejected.

package validate

import (
	"fmt"
	"strings"
)

// MaxTag bounds tag names. Longer labels are almost certainly pasted text.
const MaxTag = 64

// Tag validates a tag name.
//
// Validation rules:
//   - Empty or whitespace-only names rejected
//   - Leading or trailing whitespace rejected (would create look-alike tags)
//   - Null bytes rejected
//   - At most MaxTag characters
func Tag(t string) error {
	if strings.TrimSpace(t) == "" {
		return fmt.Errorf("%w: empty tag", ErrInvalidTag)
	}
	if strings.TrimSpace(t) != t {
		return fmt.Errorf("%w: %q has surrounding whitespace", ErrInvalidTag, t)
	}
	if strings.ContainsRune(t, 0) {
		return fmt.Errorf("%w: null byte in tag", ErrInvalidTag)
	}
	if n := len([]rune(t)); n > MaxTag {
		return fmt.Errorf("%w: %d characters exceeds %d", ErrInvalidTag, n, MaxTag)
	}
	return nil
}
