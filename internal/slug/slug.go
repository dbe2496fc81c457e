// Package slug derives catalog ids from display names.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	multipleHyphens = regexp.MustCompile(`-+`)
)

// Make converts a name to a lowercase ASCII slug. Accents are folded, anything else
// outside [a-z0-9] becomes a single hyphen.
//
//	"Science Fiction"   -> "science-fiction"
//	"Ursula K. Le Guin" -> "ursula-k-le-guin"
//	"Gabriel García"    -> "gabriel-garcia"
func Make(s string) string {
	// Decompose so accents become separate marks that the ASCII filter drops.
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = multipleHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ID prefixes a slug, giving ids like "g-science-fiction".
func ID(prefix, name string) string {
	return prefix + "-" + Make(name)
}
