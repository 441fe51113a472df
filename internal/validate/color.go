package validate

import (
	"fmt"
	"regexp"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Color validates an optional "#rgb" or "#rrggbb" colour. Empty means unset.
func Color(c string) error {
	if c == "" {
		return nil
	}
	if !hexColor.MatchString(c) {
		return fmt.Errorf("%w: %q is not #rgb or #rrggbb", ErrInvalidColor, c)
	}
	return nil
}
