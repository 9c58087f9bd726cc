// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package patterns

import (
	"regexp"
	"strings"
)

// phonePattern pairs a compiled regex with the format family it covers.
type phonePattern struct {
	name  string
	regex *regexp.Regexp
}

// phoneRecognizer detects phone numbers across common formats while
// rejecting digit runs that belong to longer numeric tokens (IDs, years,
// GPA-style decimals). Filtering is structural only: length and separator
// constraints, no carrier or region validation.
type phoneRecognizer struct {
	patterns  []phonePattern
	yearRange *regexp.Regexp
	year      *regexp.Regexp
}

func newPhoneRecognizer() *phoneRecognizer {
	return &phoneRecognizer{
		patterns: []phonePattern{
			{
				name:  "international",
				regex: regexp.MustCompile(`\+\d{1,3}[-.\s]?\(?\d{1,4}\)?[-.\s]?\d{2,4}[-.\s]?\d{3,4}[-.\s]?\d{0,4}`),
			},
			{
				name:  "us_parenthesized",
				regex: regexp.MustCompile(`\(\d{3}\)[-.\s]?\d{3}[-.\s]?\d{4}`),
			},
			{
				name:  "us_separated",
				regex: regexp.MustCompile(`\d{3}[-.\s]\d{3}[-.\s]\d{4}`),
			},
			{
				name:  "bare_ten_digit",
				regex: regexp.MustCompile(`\d{10}`),
			},
			{
				name:  "with_extension",
				regex: regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}[-.\s]?(?:ext\.?|extension|x)[-.\s]?\d{1,6}`),
			},
		},
		yearRange: regexp.MustCompile(`^(19|20)\d{2}[-\x{2013}]\s*(19|20)?\d{2}$`),
		year:      regexp.MustCompile(`^(19|20)\d{2}$`),
	}
}

func (r *phoneRecognizer) Category() Category { return CategoryPhone }

func (r *phoneRecognizer) Find(text string) []Hit {
	var hits []Hit
	seen := make(map[int]int) // start -> end of accepted hits, for overlap suppression

	for _, p := range r.patterns {
		for _, loc := range p.regex.FindAllStringIndex(text, -1) {
			start, end := loc[0], loc[1]
			match := text[start:end]

			// The candidate must not continue a longer numeric token on
			// either side. RE2 has no lookaround, so check neighbors here.
			if !cleanBoundary(text, start, end) {
				continue
			}
			if !r.acceptable(match) {
				continue
			}
			if overlapsAccepted(seen, start, end) {
				continue
			}
			seen[start] = end
			hits = append(hits, Hit{Text: match, Start: start, End: end})
		}
	}
	return hits
}

// acceptable applies the structural false-positive filters.
func (r *phoneRecognizer) acceptable(match string) bool {
	digits := digitCount(match)
	if digits < 7 || digits > 15 {
		return false
	}
	clean := strings.TrimSpace(match)
	if r.year.MatchString(clean) || r.yearRange.MatchString(clean) {
		return false
	}
	return true
}

// cleanBoundary rejects candidates embedded in a longer digit or decimal
// run (e.g. the middle of a 13-digit account number).
func cleanBoundary(text string, start, end int) bool {
	if start > 0 {
		prev := text[start-1]
		if isDigit(prev) || prev == '.' {
			return false
		}
	}
	if end < len(text) {
		next := text[end]
		if isDigit(next) || next == '.' {
			return false
		}
	}
	return true
}

func overlapsAccepted(seen map[int]int, start, end int) bool {
	for s, e := range seen {
		if start < e && s < end {
			return true
		}
	}
	return false
}

func digitCount(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if isDigit(s[i]) {
			n++
		}
	}
	return n
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
