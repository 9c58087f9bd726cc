// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Rect is an axis-aligned rectangle in PDF user space (origin bottom
// left, units in points).
type Rect struct {
	LLX, LLY, URX, URY float64
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.URX - r.LLX }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.URY - r.LLY }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.URX <= r.LLX || r.URY <= r.LLY }

// Intersects reports whether two rectangles overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.LLX < o.URX && o.LLX < r.URX && r.LLY < o.URY && o.LLY < r.URY
}

// Expand grows the rectangle by pad on every side.
func (r Rect) Expand(pad float64) Rect {
	return Rect{LLX: r.LLX - pad, LLY: r.LLY - pad, URX: r.URX + pad, URY: r.URY + pad}
}

// Union returns the smallest rectangle covering both.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		LLX: min(r.LLX, o.LLX),
		LLY: min(r.LLY, o.LLY),
		URX: max(r.URX, o.URX),
		URY: max(r.URY, o.URY),
	}
}

// Page is one page of a Document. Extracted text and its layout index
// are computed lazily and cached; offsets into Text are byte offsets and
// every byte maps to the glyph box it was decoded from (synthetic
// whitespace maps to an empty box).
type Page struct {
	index  int
	Width  float64
	Height float64

	source *pdf.Reader

	loaded bool
	text   string
	boxes  []Rect // parallel to text, per byte
}

// Index returns the 0-based page index.
func (p *Page) Index() int { return p.index }

// Text returns the page's extracted plain text in reading order.
func (p *Page) Text() string {
	p.load()
	return p.text
}

// Resolve maps a byte-offset range of the page text to the rectangles
// covering its glyphs, one rectangle per visual line. Resolution is
// exact: only the glyphs backing the given offsets contribute, so a
// second occurrence of the same literal substring elsewhere on the page
// is never touched. An empty result means the range has no recoverable
// geometry (an unresolved span).
func (p *Page) Resolve(start, end int) []Rect {
	p.load()
	if start < 0 || end > len(p.boxes) || start >= end {
		return nil
	}

	var lines []Rect
	for i := start; i < end; i++ {
		b := p.boxes[i]
		if b.Empty() {
			continue
		}
		merged := false
		for j := range lines {
			if sameLine(lines[j], b) {
				lines[j] = lines[j].Union(b)
				merged = true
				break
			}
		}
		if !merged {
			lines = append(lines, b)
		}
	}
	return lines
}

// sameLine reports whether two glyph boxes share a visual line: their
// vertical ranges must overlap by more than half of the smaller height.
func sameLine(a, b Rect) bool {
	overlap := min(a.URY, b.URY) - max(a.LLY, b.LLY)
	return overlap > 0.5*min(a.Height(), b.Height())
}

func (p *Page) release() {
	p.source = nil
	p.text = ""
	p.boxes = nil
}

// load builds the text and layout index from the page's glyph elements.
// Elements are clustered into lines top to bottom, then ordered left to
// right; inter-element gaps wider than a fifth of the font size become
// synthetic spaces, line changes become newlines.
func (p *Page) load() {
	if p.loaded || p.source == nil {
		return
	}
	p.loaded = true

	pg := p.source.Page(p.index + 1)
	if pg.V.IsNull() {
		return
	}

	content := pg.Content()
	elems := make([]pdf.Text, 0, len(content.Text))
	for _, t := range content.Text {
		if t.S == "" {
			continue
		}
		elems = append(elems, t)
	}
	if len(elems) == 0 {
		return
	}

	lines := clusterLines(elems)

	var sb strings.Builder
	var boxes []Rect
	for li, line := range lines {
		if li > 0 {
			sb.WriteByte('\n')
			boxes = append(boxes, Rect{})
		}
		var prev *pdf.Text
		for ei := range line {
			el := &line[ei]
			if prev != nil {
				gap := el.X - (prev.X + prev.W)
				threshold := fontSizeOf(prev) * 0.2
				if gap > threshold {
					sb.WriteByte(' ')
					boxes = append(boxes, Rect{})
				}
			}
			appendElement(&sb, &boxes, el)
			prev = el
		}
	}

	p.text = sb.String()
	p.boxes = boxes
}

// appendElement writes one glyph run into the text buffer and records a
// box per byte. The run's width is distributed evenly across its runes;
// multi-byte runes repeat their box for each byte so byte offsets stay
// aligned with geometry.
func appendElement(sb *strings.Builder, boxes *[]Rect, el *pdf.Text) {
	runes := []rune(el.S)
	if len(runes) == 0 {
		return
	}
	fs := fontSizeOf(el)
	perRune := el.W / float64(len(runes))

	x := el.X
	for _, r := range runes {
		box := Rect{
			LLX: x,
			LLY: el.Y - 0.2*fs,
			URX: x + perRune,
			URY: el.Y + 0.8*fs,
		}
		n := sb.Len()
		sb.WriteRune(r)
		for i := n; i < sb.Len(); i++ {
			*boxes = append(*boxes, box)
		}
		x += perRune
	}
}

// clusterLines groups glyph elements into visual lines by baseline
// proximity and orders lines top to bottom, elements left to right.
func clusterLines(elems []pdf.Text) [][]pdf.Text {
	sorted := make([]pdf.Text, len(elems))
	copy(sorted, elems)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var lines [][]pdf.Text
	for _, el := range sorted {
		placed := false
		for i := range lines {
			ref := lines[i][0]
			tol := max(2.0, fontSizeOf(&ref)*0.5)
			if abs(ref.Y-el.Y) <= tol {
				lines[i] = append(lines[i], el)
				placed = true
				break
			}
		}
		if !placed {
			lines = append(lines, []pdf.Text{el})
		}
	}

	for i := range lines {
		sort.SliceStable(lines[i], func(a, b int) bool {
			return lines[i][a].X < lines[i][b].X
		})
	}
	return lines
}

func fontSizeOf(t *pdf.Text) float64 {
	if t.FontSize > 0 {
		return t.FontSize
	}
	return 10
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
