// Package slug derives URL slugs from display names.
package slug

import (
	"strings"
	"unicode"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperror"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const MaxLength = 50

// Make lowercases name, folds accents to ASCII and collapses everything
// that is not a letter or digit into single dashes.
func Make(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}

	s := strings.TrimSuffix(b.String(), "-")
	if len(s) > MaxLength {
		s = strings.TrimRight(s[:MaxLength], "-")
	}
	return s
}

// Valid reports whether s is already in slug form.
func Valid(s string) bool {
	return s != "" && Make(s) == s
}

// Resolve returns given when it is a valid slug, or derives one from name
// when given is empty.
func Resolve(given, name string) (string, error) {
	if given == "" {
		s := Make(name)
		if s == "" {
			return "", apperror.Validation("slug", "cannot be derived from name %q", name)
		}
		return s, nil
	}
	if !Valid(given) {
		return "", apperror.Validation("slug", "%q is not a valid slug", given)
	}
	return given, nil
}
