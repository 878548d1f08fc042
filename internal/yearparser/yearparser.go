// Package yearparser handles year token detection in album folder names for refold.
package yearparser

import "regexp"

// yearTokenPattern matches a standalone 4-digit number delimited by word boundaries.
var yearTokenPattern = regexp.MustCompile(`\b(\d{4})\b`)

// yearPrefixPattern matches titles already in "YYYY - " form.
var yearPrefixPattern = regexp.MustCompile(`^\d{4} - `)

// yearSpanPattern matches year ranges such as "1990-2000" or "1992–2012",
// with an ASCII hyphen or an en-dash and optional surrounding whitespace.
var yearSpanPattern = regexp.MustCompile(`\b\d{4}\s*[-–]\s*\d{4}\b`)

// YearToken is a standalone 4-digit token found in a title, with the byte
// offsets of its position so the caller can cut it out.
type YearToken struct {
	Value string
	Start int
	End   int
}

// FindYear returns the first standalone 4-digit token in s, or nil when the
// string contains none. Digits embedded in longer runs ("12345") do not count.
func FindYear(s string) *YearToken {
	loc := yearTokenPattern.FindStringSubmatchIndex(s)
	if loc == nil {
		return nil
	}
	return &YearToken{
		Value: s[loc[2]:loc[3]],
		Start: loc[2],
		End:   loc[3],
	}
}

// HasYearPrefix reports whether s already starts with a "YYYY - " prefix.
func HasYearPrefix(s string) bool {
	return yearPrefixPattern.MatchString(s)
}

// HasYearSpan reports whether s contains a YYYY-YYYY year range anywhere.
func HasYearSpan(s string) bool {
	return yearSpanPattern.MatchString(s)
}
