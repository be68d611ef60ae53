// Package sanitizer strips markup from free-text fields before they are stored.
package sanitizer

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	initOnce     sync.Once
)

func policy() *bluemonday.Policy {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// maxPasses bounds the sanitize/unescape loop for nested entity encodings.
const maxPasses = 4

// StripTags removes every HTML element and returns trimmed plain text.
// Entity-encoded markup such as "&lt;b&gt;" is decoded and stripped too. The
// result is plain text and must still be escaped by whatever renders it.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	out := s
	for i := 0; i < maxPasses; i++ {
		next := html.UnescapeString(policy().Sanitize(out))
		if next == out {
			return strings.TrimSpace(out)
		}
		out = next
	}
	// Still changing: keep the escaped form.
	return strings.TrimSpace(policy().Sanitize(out))
}

// StripTagsAll applies StripTags to each element and drops entries that end
// up empty.
func StripTagsAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if clean := StripTags(s); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}
