// title.go implements note title and folder name validation.

package validate

import (
	"fmt"
	"strings"
)

// MaxTitle is the hard ceiling on titles and folder names. Configuration may
// lower it for titles (see Length).
const MaxTitle = 500

// Title validates a note title.
func Title(t string) error {
	return name(t, ErrInvalidTitle)
}

// FolderName validates a folder name. Same rules as Title.
func FolderName(n string) error {
	return name(n, ErrInvalidFolder)
}

func name(s string, kind error) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: empty", kind)
	}
	if strings.ContainsRune(s, 0) {
		return fmt.Errorf("%w: null byte", kind)
	}
	if n := len([]rune(s)); n > MaxTitle {
		return fmt.Errorf("%w: %d characters exceeds %d", kind, n, MaxTitle)
	}
	return nil
}

// Length enforces a configured character limit on a title. A maxLen of 0
// disables the check.
func Length(t string, maxLen int) error {
	if maxLen > 0 && len([]rune(t)) > maxLen {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidTitle, maxLen)
	}
	return nil
}
