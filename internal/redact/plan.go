// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redact

import (
	"sort"

	"resume-redact/internal/detector"
	"resume-redact/internal/document"
)

// Unresolved is a detected span whose text-layout geometry could not be
// located; it is reported rather than silently skipped.
type Unresolved struct {
	Span   detector.Span
	Reason string
}

// Plan resolves detection spans to page rectangles, expands each by
// padding points on every side, clamps to the page, and groups the
// result per page. Rectangles are kept separate per span so the fills
// mirror what was removed.
func Plan(doc *document.Document, spans []detector.Span, padding float64) ([]PageRedaction, []Unresolved) {
	perPage := make(map[int][]document.Rect)
	var unresolved []Unresolved

	for _, sp := range spans {
		page := doc.Page(sp.Page)
		if page == nil {
			unresolved = append(unresolved, Unresolved{Span: sp, Reason: "page out of range"})
			continue
		}
		rects := page.Resolve(sp.Start, sp.End)
		if len(rects) == 0 {
			unresolved = append(unresolved, Unresolved{Span: sp, Reason: "no glyph geometry for span"})
			continue
		}
		for _, r := range rects {
			r = r.Expand(padding)
			r = clampToPage(r, page)
			if !r.Empty() {
				perPage[sp.Page] = append(perPage[sp.Page], r)
			}
		}
	}

	pages := make([]int, 0, len(perPage))
	for p := range perPage {
		pages = append(pages, p)
	}
	sort.Ints(pages)

	out := make([]PageRedaction, 0, len(pages))
	for _, p := range pages {
		out = append(out, PageRedaction{Page: p, Rects: mergeOverlapping(perPage[p])})
	}
	return out, unresolved
}

func clampToPage(r document.Rect, page *document.Page) document.Rect {
	r.LLX = max(r.LLX, 0)
	r.LLY = max(r.LLY, 0)
	r.URX = min(r.URX, page.Width)
	r.URY = min(r.URY, page.Height)
	return r
}

// mergeOverlapping unions rectangles that intersect, so adjacent hits
// paint as one block instead of stacked slivers.
func mergeOverlapping(rects []document.Rect) []document.Rect {
	merged := append([]document.Rect(nil), rects...)
	for {
		changed := false
		for i := 0; i < len(merged) && !changed; i++ {
			for j := i + 1; j < len(merged); j++ {
				if merged[i].Intersects(merged[j]) {
					merged[i] = merged[i].Union(merged[j])
					merged = append(merged[:j], merged[j+1:]...)
					changed = true
					break
				}
			}
		}
		if !changed {
			return merged
		}
	}
}
