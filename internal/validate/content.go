// content.go implements note body validation.
//
// Design: Only size is validated. Bodies are free text (usually markdown)
// and the format is never inspected.

package validate

// Content validates note body size in bytes. A maxLen of 0 means no limit.
func Content(body string, maxLen int64) error {
	if maxLen > 0 && int64(len(body)) > maxLen {
		return ErrContentTooLarge
	}
	return nil
}
