// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package patterns

import "regexp"

// linkedInRecognizer detects LinkedIn profile URLs: a linkedin. host
// followed by an /in/ profile path segment.
type linkedInRecognizer struct {
	regex *regexp.Regexp
}

func newLinkedInRecognizer() *linkedInRecognizer {
	return &linkedInRecognizer{
		regex: regexp.MustCompile(`(?i)\b(?:https?://)?(?:www\.)?linkedin\.[a-z]{2,3}/in/[A-Za-z0-9_-]+/?`),
	}
}

func (r *linkedInRecognizer) Category() Category { return CategoryLinkedIn }

func (r *linkedInRecognizer) Find(text string) []Hit {
	return findAll(r.regex, text)
}

// portfolioRecognizer detects portfolio and code-hosting profile URLs.
// The host allow-list covers the common portfolio platforms; the trailing
// heuristic pattern catches personal sites on maker TLDs or with a
// portfolio-shaped path. Best effort, not exhaustive.
type portfolioRecognizer struct {
	patterns []*regexp.Regexp
}

func newPortfolioRecognizer() *portfolioRecognizer {
	return &portfolioRecognizer{
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:https?://)?(?:www\.)?github\.com/[A-Za-z0-9_-]+(?:/[A-Za-z0-9._-]+)?/?`),
			regexp.MustCompile(`(?i)\b(?:https?://)?(?:www\.)?behance\.net/[A-Za-z0-9_-]+/?`),
			regexp.MustCompile(`(?i)\b(?:https?://)?(?:www\.)?dribbble\.com/[A-Za-z0-9_-]+/?`),
			regexp.MustCompile(`(?i)\b(?:https?://)?(?:www\.)?portfolio\.com/[A-Za-z0-9_-]+/?`),
			regexp.MustCompile(`(?i)\b(?:https?://)?(?:www\.)?[A-Za-z0-9-]+\.(?:dev|me)(?:/[^\s]*)?`),
			regexp.MustCompile(`(?i)\b(?:https?://)?(?:www\.)?[A-Za-z0-9.-]+\.[A-Za-z]{2,}/(?:portfolio|work|projects)(?:/[^\s]*)?`),
		},
	}
}

func (r *portfolioRecognizer) Category() Category { return CategoryPortfolio }

func (r *portfolioRecognizer) Find(text string) []Hit {
	var hits []Hit
	var spans [][2]int
	for _, p := range r.patterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			if spanOverlaps(spans, loc[0], loc[1]) {
				continue
			}
			spans = append(spans, [2]int{loc[0], loc[1]})
			hits = append(hits, Hit{Text: text[loc[0]:loc[1]], Start: loc[0], End: loc[1]})
		}
	}
	return hits
}

// urlRecognizer is the generic fallback: anything URL-shaped, with or
// without an explicit scheme.
type urlRecognizer struct {
	regex *regexp.Regexp
}

func newURLRecognizer() *urlRecognizer {
	return &urlRecognizer{
		regex: regexp.MustCompile(`(?i)\b(?:https?://)?(?:www\.)?[A-Za-z0-9][A-Za-z0-9.-]*\.[A-Za-z]{2,}(?:/[^\s]*)?`),
	}
}

func (r *urlRecognizer) Category() Category { return CategoryAllURLs }

func (r *urlRecognizer) Find(text string) []Hit {
	var hits []Hit
	for _, loc := range r.regex.FindAllStringIndex(text, -1) {
		match := text[loc[0]:loc[1]]
		// Email addresses satisfy the host-shaped pattern; they belong to
		// the email category, not here.
		if loc[0] > 0 && text[loc[0]-1] == '@' {
			continue
		}
		hits = append(hits, Hit{Text: match, Start: loc[0], End: loc[1]})
	}
	return hits
}

func findAll(re *regexp.Regexp, text string) []Hit {
	var hits []Hit
	for _, loc := range re.FindAllStringIndex(text, -1) {
		hits = append(hits, Hit{Text: text[loc[0]:loc[1]], Start: loc[0], End: loc[1]})
	}
	return hits
}

func spanOverlaps(spans [][2]int, start, end int) bool {
	for _, s := range spans {
		if start < s[1] && s[0] < end {
			return true
		}
	}
	return false
}
