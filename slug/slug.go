// Package slug turns titles into short, URL-safe identifiers.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength is the longest slug Generate will return.
const MaxLength = 60

var (
	disallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	separators = regexp.MustCompile(`[\s-]+`)
)

// foldDiacritics decomposes accented letters and drops the combining marks,
// so "é" becomes "e".
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// foldSpace maps Unicode whitespace such as NBSP or U+3000 to an ASCII
// space; RE2's \s only knows ASCII.
func foldSpace(r rune) rune {
	if unicode.IsSpace(r) {
		return ' '
	}
	return r
}

// Generate converts arbitrary text into a lowercase, hyphenated slug of at most
// MaxLength characters. It never fails; text with nothing usable yields "".
func Generate(text string) string {
	if text == "" {
		return ""
	}

	s := foldDiacritics(strings.ToLower(text))
	s = strings.Map(foldSpace, s)
	s = strings.ReplaceAll(s, "&", "and")
	s = disallowed.ReplaceAllString(s, "")
	s = separators.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > MaxLength {
		s = strings.TrimRight(s[:MaxLength], "-")
	}
	return s
}

// MakeUnique returns base unchanged when it is not in existing. Otherwise it
// appends -1, -2, ... and returns the first candidate that is free.
// Matching is exact and case-sensitive.
func MakeUnique(base string, existing []string) string {
	taken := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		taken[s] = struct{}{}
	}

	if _, ok := taken[base]; !ok {
		return base
	}
	for i := 1; ; i++ {
		candidate := base + "-" + strconv.Itoa(i)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}
