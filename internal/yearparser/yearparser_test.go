package yearparser

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestFindYear(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		found bool
	}{
		{"year at end", "Automatic For The People 1992", "1992", true},
		{"year at start", "1992 Automatic For The People", "1992", true},
		{"year in middle", "Live 1975 Bootleg", "1975", true},
		{"no year", "No Year Here", "", false},
		{"digits in longer run", "Catalog 12345", "", false},
		{"first of two years", "1970 Live 1975", "1970", true},
		{"year inside parens", "Greatest Hits (1981)", "1981", true},
		{"three digits", "Route 666", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := FindYear(tt.input)
			if tt.found {
				if token == nil {
					t.Fatalf("FindYear(%q) = nil, want %q", tt.input, tt.want)
				}
				if token.Value != tt.want {
					t.Errorf("FindYear(%q).Value = %q, want %q", tt.input, token.Value, tt.want)
				}
				if tt.input[token.Start:token.End] != token.Value {
					t.Errorf("offsets [%d:%d] do not cover the token in %q", token.Start, token.End, tt.input)
				}
			} else if token != nil {
				t.Errorf("FindYear(%q) = %q, want nil", tt.input, token.Value)
			}
		})
	}
}

func TestHasYearPrefix(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1992 - Automatic For The People", true},
		{"1992 Automatic For The People", false},
		{"1992- Automatic", false},
		{"Automatic 1992 - For", false},
		{"1992 - ", true},
		{"199 - Short", false},
	}

	for _, tt := range tests {
		if got := HasYearPrefix(tt.input); got != tt.want {
			t.Errorf("HasYearPrefix(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestHasYearSpan(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"The Best Of 1990-2000", true},
		{"1992–2012 - The Anthology", true},
		{"1990 - 2000 Collection", true},
		{"The Best Of 1980 1990 & B Sides", false},
		{"2001 A Space Odyssey", false},
		{"Singles 1995-96", false},
	}

	for _, tt := range tests {
		if got := HasYearSpan(tt.input); got != tt.want {
			t.Errorf("HasYearSpan(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// genYear generates plausible 4-digit years.
func genYear() gopter.Gen {
	return gen.IntRange(1000, 9999)
}

func TestYearTokenProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("a year embedded between spaces is always found", prop.ForAll(
		func(year int, prefix, suffix string) bool {
			want := fmt.Sprintf("%04d", year)
			input := prefix + " " + want + " " + suffix
			token := FindYear(input)
			if token == nil {
				t.Logf("no token found in %q", input)
				return false
			}
			if token.Value != want {
				t.Logf("found %q in %q, want %q", token.Value, input, want)
				return false
			}
			return input[token.Start:token.End] == token.Value
		},
		genYear(),
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("prefixed titles are stable under prefix detection", prop.ForAll(
		func(year int, rest string) bool {
			title := fmt.Sprintf("%04d - %s", year, rest)
			return HasYearPrefix(title)
		},
		genYear(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
