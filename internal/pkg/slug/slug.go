// Package slug derives URL-safe article identifiers from titles.
package slug

import (
	"fmt"
	"strings"
	"time"
)

// asciiFold maps common Latin diacritics to plain ASCII. Anything not
// covered collapses to a hyphen in Normalize.
var asciiFold = strings.NewReplacer(
	"à", "a", "á", "a", "â", "a", "ã", "a", "ä", "a", "å", "a",
	"è", "e", "é", "e", "ê", "e", "ë", "e",
	"ì", "i", "í", "i", "î", "i", "ï", "i",
	"ò", "o", "ó", "o", "ô", "o", "õ", "o", "ö", "o",
	"ù", "u", "ú", "u", "û", "u", "ü", "u",
	"ç", "c", "ñ", "n", "ß", "ss", "æ", "ae", "ø", "o",
)

// Normalize converts a title to its slug base: lowercase ASCII with runs
// of whitespace and punctuation collapsed to single hyphens. Deterministic
// for a given title.
func Normalize(title string) string {
	s := asciiFold.Replace(strings.ToLower(strings.TrimSpace(title)))

	var b strings.Builder
	b.Grow(len(s))
	lastHyphen := true // suppress a leading hyphen
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// Assign produces a slug for title that is unique among existing articles.
// On collision the normalized base is disambiguated with a millisecond
// timestamp nonce; a duplicate produced by a concurrent race costs only a
// cosmetic suffix, so no locking protocol is used.
func Assign(title string, exists func(string) (bool, error), now func() time.Time) (string, error) {
	if now == nil {
		now = time.Now
	}

	base := Normalize(title)
	if base == "" {
		base = "untitled"
	}

	taken, err := exists(base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}
	return fmt.Sprintf("%s-%d", base, now().UnixMilli()), nil
}
