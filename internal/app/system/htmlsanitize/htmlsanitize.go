// Package htmlsanitize strips markup from user-submitted text.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictOnce sync.Once
	strict     *bluemonday.Policy
)

func strictPolicy() *bluemonday.Policy {
	strictOnce.Do(func() {
		strict = bluemonday.StrictPolicy()
	})
	return strict
}

// PlainText removes every HTML element from s, decodes entities, and
// collapses runs of whitespace to single spaces.
//
// Contents of <script> and <style> are dropped entirely.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	out := html.UnescapeString(strictPolicy().Sanitize(s))
	return strings.Join(strings.Fields(out), " ")
}

// IsPlainText reports whether s contains nothing that looks like a tag.
func IsPlainText(s string) bool {
	lt := strings.IndexByte(s, '<')
	if lt < 0 {
		return true
	}
	return strings.IndexByte(s[lt:], '>') < 0
}
