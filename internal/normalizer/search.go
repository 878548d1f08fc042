// Package normalizer handles album title normalization for refold.
package normalizer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// bracketedContent matches the shortest (...) or [...] group, including
	// mixed delimiters, for removal from search terms.
	bracketedContent = regexp.MustCompile(`[\(\[].*?[\)\]]`)

	// searchPunctuation matches quote, underscore and dash characters that
	// become spaces in a search term.
	searchPunctuation = regexp.MustCompile(`["'_\-–—]`)
)

// asciiFold decomposes accented characters and removes the combining marks,
// so that "Björk" folds to "Bjork" before the remaining non-ASCII runes are
// dropped.
var asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// SearchTerm reduces a title or artist name to the loose form sent to the
// release database: ASCII-folded, bracketed qualifiers removed, quotes,
// underscores and dashes replaced by spaces, whitespace collapsed.
func SearchTerm(s string) string {
	if folded, _, err := transform.String(asciiFold, s); err == nil {
		s = folded
	}
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = bracketedContent.ReplaceAllString(s, "")
	s = searchPunctuation.ReplaceAllString(s, " ")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
