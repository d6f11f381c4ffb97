// Package text provides the shared Markdown scrubber and tokenizer.
// Query and notes go through the same code so their terms are comparable.
package text

import (
	"regexp"
	"strings"
)

// headingRe matches heading markers like "## " anywhere in the text.
var headingRe = regexp.MustCompile(`#{1,6}\s*`)

// linkRe matches links and images: [label](target) and ![alt](src).
var linkRe = regexp.MustCompile(`!?\[.*?\]\(.*?\)`)

// emphasisRe matches *italic* and **bold**, capturing the inner text.
var emphasisRe = regexp.MustCompile(`\*{1,2}(.*?)\*{1,2}`)

// codeRe matches `inline`, ``double`` and ```fenced``` code on one line.
var codeRe = regexp.MustCompile("`{1,3}(.*?)`{1,3}")

// bulletRe matches unordered list bullets at the start of a line.
var bulletRe = regexp.MustCompile(`(?m)^[ \t]*[-*+]\s+`)

// orderedRe matches ordered list markers like "12. " at the start of a line.
var orderedRe = regexp.MustCompile(`(?m)^[ \t]*\d+\.\s+`)

// punctRe matches anything that isn't a letter, digit, underscore or whitespace.
var punctRe = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// spaceRe matches runs of whitespace.
var spaceRe = regexp.MustCompile(`\s+`)

// Normalize strips Markdown syntax and reduces text to lower-cased words
// separated by single spaces.
//
// It is a best-effort scrub, not a parser: nested or malformed markup can leave
// stray words behind, which is fine for term statistics.
//
// Example: "# Title\n**bold** and `code`" → "title bold and code"
func Normalize(s string) string {
	// None of the patterns below care about case
	s = strings.ToLower(s)
	s = headingRe.ReplaceAllString(s, "")
	s = linkRe.ReplaceAllString(s, "")
	s = emphasisRe.ReplaceAllString(s, "${1}")
	s = codeRe.ReplaceAllString(s, "${1}")
	s = bulletRe.ReplaceAllString(s, "")
	s = orderedRe.ReplaceAllString(s, "")

	// Punctuation becomes a space so "foo,bar" stays two words
	s = punctRe.ReplaceAllString(s, " ")
	s = spaceRe.ReplaceAllString(s, " ")

	return strings.TrimSpace(s)
}

// Tokens returns the normalized word sequence of s.
// Empty or markup-only input yields an empty slice.
func Tokens(s string) []string {
	return strings.Fields(Normalize(s))
}
