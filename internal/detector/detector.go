// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"sort"

	"resume-redact/internal/observability"
	"resume-redact/internal/patterns"
)

// Span is a single detected occurrence of a sensitive-data category
// within one page's extracted text. Offsets are byte offsets into the
// page text. Geometry stays unresolved until the resolver runs; a span
// never crosses a page boundary.
type Span struct {
	Category  patterns.Category
	Text      string
	Canonical string
	Page      int
	Start     int
	End       int
}

// Detector runs the pattern registry over page text and produces a
// deduplicated, offset-sorted, non-overlapping span set per page.
type Detector struct {
	registry *patterns.Registry
	observer *observability.Observer
}

func New(registry *patterns.Registry, observer *observability.Observer) *Detector {
	if registry == nil {
		registry = patterns.NewRegistry()
	}
	return &Detector{registry: registry, observer: observer}
}

// Registry exposes the detector's pattern registry for request validation.
func (d *Detector) Registry() *patterns.Registry { return d.registry }

// DetectPage finds all spans of the requested categories in one page's
// text. Categories run in the registry's fixed specificity order; when
// spans from different categories overlap, the earlier category keeps
// the span and the later one is discarded, so a LinkedIn URL selected
// together with all_urls is redacted exactly once.
func (d *Detector) DetectPage(pageIndex int, text string, categories []patterns.Category) ([]Span, error) {
	finish := d.observer.StartTiming("detector", "detect_page", "")

	requested := make(map[patterns.Category]bool, len(categories))
	for _, c := range categories {
		requested[c] = true
	}

	var spans []Span
	for _, cat := range d.registry.Order() {
		if !requested[cat] {
			continue
		}
		hits, err := d.registry.Find(cat, text)
		if err != nil {
			finish(false, map[string]any{"error": err.Error()})
			return nil, err
		}
		for _, h := range hits {
			if overlapsAny(spans, h.Start, h.End) {
				continue
			}
			spans = append(spans, Span{
				Category:  cat,
				Text:      h.Text,
				Canonical: patterns.Canonicalize(h.Text),
				Page:      pageIndex,
				Start:     h.Start,
				End:       h.End,
			})
		}
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })

	finish(true, map[string]any{"page": pageIndex, "span_count": len(spans)})
	return spans, nil
}

// CountByCategory tallies spans per category.
func CountByCategory(spans []Span) map[patterns.Category]int {
	counts := make(map[patterns.Category]int)
	for _, s := range spans {
		counts[s.Category]++
	}
	return counts
}

// UniqueCanonical returns the deduplicated canonical strings per
// category, in first-seen order. Used by preview mode.
func UniqueCanonical(spans []Span) map[patterns.Category][]string {
	out := make(map[patterns.Category][]string)
	seen := make(map[patterns.Category]map[string]bool)
	for _, s := range spans {
		if seen[s.Category] == nil {
			seen[s.Category] = make(map[string]bool)
		}
		if seen[s.Category][s.Canonical] {
			continue
		}
		seen[s.Category][s.Canonical] = true
		out[s.Category] = append(out[s.Category], s.Canonical)
	}
	return out
}

func overlapsAny(spans []Span, start, end int) bool {
	for _, s := range spans {
		if start < s.End && s.Start < end {
			return true
		}
	}
	return false
}
