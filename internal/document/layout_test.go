// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
)

func TestRect_Basics(t *testing.T) {
	r := Rect{LLX: 10, LLY: 20, URX: 30, URY: 50}
	if r.Width() != 20 || r.Height() != 30 {
		t.Errorf("got %v x %v, want 20 x 30", r.Width(), r.Height())
	}
	if r.Empty() {
		t.Error("non-degenerate rect reported empty")
	}
	if (Rect{}).Empty() == false {
		t.Error("zero rect reported non-empty")
	}

	if !r.Intersects(Rect{LLX: 25, LLY: 45, URX: 40, URY: 60}) {
		t.Error("overlapping rects reported disjoint")
	}
	if r.Intersects(Rect{LLX: 30, LLY: 20, URX: 40, URY: 50}) {
		t.Error("edge-touching rects reported overlapping")
	}

	e := r.Expand(2)
	if e.LLX != 8 || e.URY != 52 {
		t.Errorf("Expand produced %+v", e)
	}

	u := r.Union(Rect{LLX: 0, LLY: 40, URX: 15, URY: 70})
	if u.LLX != 0 || u.LLY != 20 || u.URX != 30 || u.URY != 70 {
		t.Errorf("Union produced %+v", u)
	}
}

// buildPage assembles a synthetic layout index from glyph elements the
// way load does, without needing a real PDF reader behind it.
func buildPage(elems []pdf.Text) *Page {
	p := &Page{Width: 612, Height: 792, loaded: true}
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
				if gap > fontSizeOf(prev)*0.2 {
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
	return p
}

func el(s string, x, y, w, size float64) pdf.Text {
	return pdf.Text{Font: "Helvetica", FontSize: size, X: x, Y: y, W: w, S: s}
}

func TestClusterLines_OrdersTopToBottomLeftToRight(t *testing.T) {
	elems := []pdf.Text{
		el("world", 60, 700, 40, 12),
		el("second", 10, 680, 50, 12),
		el("hello", 10, 700.5, 40, 12), // fractionally off-baseline, same line
	}
	lines := clusterLines(elems)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0][0].S != "hello" || lines[0][1].S != "world" {
		t.Errorf("first line order: %q, %q", lines[0][0].S, lines[0][1].S)
	}
	if lines[1][0].S != "second" {
		t.Errorf("second line: %q", lines[1][0].S)
	}
}

func TestPage_TextAssembly(t *testing.T) {
	page := buildPage([]pdf.Text{
		el("jane@example.com", 100, 700, 96, 12),
		el("Contact:", 10, 700, 48, 12), // wide gap to the email
		el("Engineer", 10, 680, 48, 12),
	})
	want := "Contact: jane@example.com\nEngineer"
	if page.Text() != want {
		t.Errorf("got %q, want %q", page.Text(), want)
	}
	if len(page.boxes) != len(page.Text()) {
		t.Errorf("boxes length %d != text length %d", len(page.boxes), len(page.Text()))
	}
}

func TestPage_ResolveExactOffsets(t *testing.T) {
	page := buildPage([]pdf.Text{
		el("Contact:", 10, 700, 48, 12),
		el("jane@example.com", 100, 700, 96, 12),
	})
	text := page.Text()
	start := strings.Index(text, "jane@example.com")
	if start < 0 {
		t.Fatal("email not in page text")
	}
	rects := page.Resolve(start, start+len("jane@example.com"))
	if len(rects) != 1 {
		t.Fatalf("got %d rects, want 1: %+v", len(rects), rects)
	}
	r := rects[0]
	if r.LLX < 99 || r.LLX > 101 {
		t.Errorf("LLX = %v, want ~100", r.LLX)
	}
	if r.URX < 195 || r.URX > 197 {
		t.Errorf("URX = %v, want ~196", r.URX)
	}
	// Only the email's glyphs contribute; the label stays untouched.
	if r.LLX < 58 {
		t.Errorf("rect extends into preceding label: %+v", r)
	}
}

func TestPage_ResolveMultiLine(t *testing.T) {
	page := buildPage([]pdf.Text{
		el("linkedin.com/", 10, 700, 78, 12),
		el("in/jane-doe", 10, 680, 66, 12),
	})
	text := page.Text()
	if !strings.Contains(text, "\n") {
		t.Fatalf("expected two lines, got %q", text)
	}
	rects := page.Resolve(0, len(text))
	if len(rects) != 2 {
		t.Fatalf("got %d rects, want one per line: %+v", len(rects), rects)
	}
	if !(rects[0].LLY > rects[1].LLY) {
		t.Errorf("expected first rect above second: %+v", rects)
	}
}

func TestPage_ResolveOutOfRange(t *testing.T) {
	page := buildPage([]pdf.Text{el("hi", 10, 700, 12, 12)})
	if got := page.Resolve(-1, 1); got != nil {
		t.Errorf("negative start resolved: %+v", got)
	}
	if got := page.Resolve(0, 100); got != nil {
		t.Errorf("overlong range resolved: %+v", got)
	}
	if got := page.Resolve(2, 2); got != nil {
		t.Errorf("empty range resolved: %+v", got)
	}
}

func TestPage_ResolveWhitespaceOnly(t *testing.T) {
	page := buildPage([]pdf.Text{
		el("a", 10, 700, 6, 12),
		el("b", 40, 700, 6, 12), // synthetic space between
	})
	text := page.Text()
	if text != "a b" {
		t.Fatalf("got %q, want %q", text, "a b")
	}
	// The synthetic space carries no geometry.
	if got := page.Resolve(1, 2); got != nil {
		t.Errorf("whitespace-only range resolved: %+v", got)
	}
}

func TestSameLine(t *testing.T) {
	a := Rect{LLX: 0, LLY: 697.6, URX: 10, URY: 709.6}
	b := Rect{LLX: 20, LLY: 698.1, URX: 30, URY: 710.1}
	if !sameLine(a, b) {
		t.Error("near-identical baselines not merged")
	}
	c := Rect{LLX: 0, LLY: 677.6, URX: 10, URY: 689.6}
	if sameLine(a, c) {
		t.Error("distinct lines merged")
	}
}
