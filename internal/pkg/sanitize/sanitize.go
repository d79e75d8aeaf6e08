// Package sanitize normalizes user-generated text before it is persisted.
package sanitize

import (
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// PlainText strips all HTML, removes any leftover angle brackets, trims
// whitespace and caps the result at max runes. max <= 0 means no cap.
func PlainText(s string, max int) string {
	out := strict.Sanitize(s)
	out = strings.NewReplacer("<", "", ">", "").Replace(out)
	out = strings.TrimSpace(out)
	if max > 0 && utf8.RuneCountInString(out) > max {
		runes := []rune(out)
		out = string(runes[:max])
	}
	return out
}
