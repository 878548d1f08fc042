// Package normalizer handles album title normalization for refold.
// The exported functions are the pipeline stages applied to a folder name,
// in order: StripArtistPrefix, Sanitize, MoveYearToFront. Each stage is a
// pure string transform; callers own all filesystem and logging concerns.
package normalizer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"refold/internal/yearparser"
)

var (
	// punctuationStripper drops characters that never belong in an album
	// folder name.
	punctuationStripper = strings.NewReplacer("@", "", "~", "", "{", "", "}", "")

	// dashNormalizer folds en-dash, em-dash and minus-sign variants to the
	// ASCII hyphen.
	dashNormalizer = strings.NewReplacer("–", "-", "—", "-", "−", "-")

	// whitespaceRun collapses any run of whitespace, including non-break
	// spaces, to a single space.
	whitespaceRun = regexp.MustCompile(`[\s\p{Zs}]+`)

	// trailingSeparators strips hyphen/whitespace noise left at the end of
	// a title after the other rewrites.
	trailingSeparators = regexp.MustCompile(`[-\s\p{Zs}]+$`)

	// emptyParens matches parentheses left empty once a year has been cut
	// out of a title.
	emptyParens = regexp.MustCompile(`\(\s*\)`)

	// discToken matches a cd/disc marker with the disc number immediately
	// attached. The surrounding-context rules (not already parenthesized,
	// not glued to a preceding word) live in rewriteDiscTokens.
	discToken = regexp.MustCompile(`(?i)(cd|disc)(\d+)`)
)

// Sanitize cleans punctuation noise out of an album title: strips @ ~ { },
// folds dash variants to "-", collapses whitespace, trims trailing
// hyphen/whitespace runs, and rewrites bare disc markers ("cd2", "Disc3")
// into the canonical "(Disc N)" form. Applying Sanitize to an already
// canonical "(Disc N)" title leaves it unchanged.
func Sanitize(name string) string {
	name = punctuationStripper.Replace(name)
	name = dashNormalizer.Replace(name)
	name = whitespaceRun.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)
	name = trailingSeparators.ReplaceAllString(name, "")
	return rewriteDiscTokens(name)
}

// rewriteDiscTokens replaces qualifying cd<N>/disc<N> tokens with "(Disc N)".
// A token qualifies when it is not preceded by "(" or a word character and
// its digits are not followed by ")". Matches are scanned left to right over
// the original string, non-overlapping.
func rewriteDiscTokens(name string) string {
	matches := discToken.FindAllStringSubmatchIndex(name, -1)
	if matches == nil {
		return name
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		digitsStart := m[4]

		if start > 0 {
			prev, _ := utf8.DecodeLastRuneInString(name[:start])
			if prev == '(' || isWordRune(prev) {
				continue
			}
		}
		if end < len(name) && name[end] == ')' {
			continue
		}

		b.WriteString(name[last:start])
		b.WriteString("(Disc ")
		b.WriteString(name[digitsStart:end])
		b.WriteByte(')')
		last = end
	}

	if last == 0 {
		return name
	}
	b.WriteString(name[last:])
	return b.String()
}

// possessiveSuffixes are the optional tails accepted after the artist name,
// tried longest first: "Muse's", "Muse s", "Muses", "Muse".
var possessiveSuffixes = []string{"'s", " s", "s", ""}

// StripArtistPrefix removes the artist name from the beginning of the album
// title, together with an optional possessive tail, when the match ends on a
// word boundary (the cut must not split a run of word characters, so "AB"
// never matches inside "ABBA"). Matching is case-insensitive. Leading spaces
// and hyphens are trimmed from the result whether or not a prefix matched.
func StripArtistPrefix(title, artist string) string {
	result := title
	if artist != "" && len(title) >= len(artist) && strings.EqualFold(title[:len(artist)], artist) {
		for _, suffix := range possessiveSuffixes {
			end := len(artist) + len(suffix)
			if end > len(title) {
				continue
			}
			if suffix != "" && !strings.EqualFold(title[len(artist):end], suffix) {
				continue
			}
			if splitsWordRun(title, end) {
				continue
			}
			result = title[end:]
			break
		}
	}
	return strings.TrimLeft(result, " -")
}

// splitsWordRun reports whether cutting s at byte offset end would separate
// two adjacent word characters.
func splitsWordRun(s string, end int) bool {
	if end <= 0 || end >= len(s) {
		return false
	}
	prev, _ := utf8.DecodeLastRuneInString(s[:end])
	next, _ := utf8.DecodeRuneInString(s[end:])
	return isWordRune(prev) && isWordRune(next)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// MoveYearToFront relocates the first standalone 4-digit token to the front
// of the title as "YYYY - rest". The token is removed from its original
// position; separators around the cut and any parentheses left empty are
// trimmed. A title without a standalone year passes through unchanged, and a
// title that is nothing but a year collapses to "YYYY".
func MoveYearToFront(title string) string {
	token := yearparser.FindYear(title)
	if token == nil {
		return title
	}

	rest := title[:token.Start] + title[token.End:]
	rest = strings.Trim(rest, " -")
	rest = emptyParens.ReplaceAllString(rest, "")
	rest = strings.TrimSpace(rest)

	if rest == "" {
		return token.Value
	}
	return token.Value + " - " + rest
}
