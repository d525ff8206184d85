// Package textproc holds the pure text transforms the pipeline runs
// before any pattern matching or external call: unicode/whitespace
// canonicalization and the measurement-line reducer.
package textproc

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	reNBSP       = regexp.MustCompile(`\x{00A0}`)
	reWideCommas = regexp.MustCompile(`[，、]`)
	reDashes     = regexp.MustCompile(`[–—]`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes one line of extracted text for reliable
// pattern matching: non-breaking spaces become regular spaces, full-width
// commas become ASCII commas, en/em dashes become hyphens, whitespace
// runs collapse to single spaces, and the result is trimmed.
// Pure and total; never fails.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = reNBSP.ReplaceAllString(s, " ")
	s = reWideCommas.ReplaceAllString(s, ",")
	s = reDashes.ReplaceAllString(s, "-")
	s = reWhitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Clip truncates s to at most max bytes without splitting a UTF-8
// sequence.
func Clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
