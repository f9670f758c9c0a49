// Package normalize canonicalises user-entered strings before they are
// validated or stored.
package normalize

import (
	"strings"
	"unicode"
)

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims and collapses inner whitespace runs to one space. Case is kept.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Username derives a login name from a display name: lowercased with all
// whitespace removed. "Anil Kumar" becomes "anilkumar".
func Username(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, name)
}

// Phone trims and collapses whitespace; digits and punctuation are kept as
// entered.
func Phone(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Category trims and lowercases a category or specialization.
func Category(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a search term. Case is kept.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
