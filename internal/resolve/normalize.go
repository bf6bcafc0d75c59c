package resolve

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize returns the comparison key for a descriptive field: trimmed and
// case folded.
func Normalize(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// compact reduces s to folded letters and digits with diacritics removed, so
// "TD Bank, N.A." and "td-bank" share the prefix "tdbank".
func compact(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}

	var b strings.Builder
	for _, r := range cases.Fold().String(stripped) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// lastFour normalizes a last-four or mask value such as "xxxx7123".
func lastFour(s string) string {
	s = Normalize(s)
	s = strings.TrimLeft(s, "x*•. ")
	if r := []rune(s); len(r) > 4 {
		return string(r[len(r)-4:])
	}
	return s
}
