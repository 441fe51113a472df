// errors.go defines sentinel errors for validation failures.
//
// Design: Sentinel errors (not error types) because validation failures
// don't carry additional context beyond the category. Detailed messages
// are provided by wrapping these with fmt.Errorf in the validation functions.

package validate

import "errors"

var (
	ErrInvalidTitle    = errors.New("invalid title")
	ErrInvalidTag      = errors.New("invalid tag")
	ErrInvalidFolder   = errors.New("invalid folder name")
	ErrInvalidColor    = errors.New("invalid colour")
	ErrContentTooLarge = errors.New("content too large")
)

// Is reports whether err is any validation failure. Transport layers use it
// to map errors onto a single "bad request" response.
func Is(err error) bool {
	return errors.Is(err, ErrInvalidTitle) ||
		errors.Is(err, ErrInvalidTag) ||
		errors.Is(err, ErrInvalidFolder) ||
		errors.Is(err, ErrInvalidColor) ||
		errors.Is(err, ErrContentTooLarge)
}
