// Package sanitize cleans harvested text before it is stored.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

var entityReplacer = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
	"&quot;", "\"",
	"&#39;", "'",
	"&nbsp;", " ",
)

// StripHTML removes HTML tags and decodes the common entities. Tags that were
// entity-encoded are stripped after decoding too.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = entityReplacer.Replace(result)
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Text strips HTML and collapses every run of whitespace, newlines included,
// into a single space. Use it for single-line fields such as names and
// company titles scraped from profile pages.
func Text(s string) string {
	return whitespaceRegex.ReplaceAllString(StripHTML(s), " ")
}
