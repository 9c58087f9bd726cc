// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package redact removes glyphs from PDF content streams and paints
// opaque fills over the vacated regions. Removal is destructive: the
// covered glyph bytes no longer exist in the written file, so no text
// extraction can recover them.
package redact

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"resume-redact/internal/document"
	"resume-redact/internal/observability"
)

// PageRedaction names the rectangles to clear on a single page.
// Page is zero-based.
type PageRedaction struct {
	Page  int
	Rects []document.Rect
}

// Fill is an RGB fill color with components in [0,1].
type Fill struct {
	R, G, B float64
}

// Black is the default redaction fill.
var Black = Fill{}

// Result reports what a redaction pass changed.
type Result struct {
	GlyphsRemoved int
	RectsPainted  int
	PagesTouched  int
}

// Applicator rewrites page content streams inside a loaded document.
type Applicator struct {
	observer *observability.Observer
}

func NewApplicator(obs *observability.Observer) *Applicator {
	return &Applicator{observer: obs}
}

// Apply removes all glyphs intersecting the given rectangles and paints
// each rectangle with the fill color. The document's pdfcpu context is
// modified in place; callers serialize it afterwards.
func (a *Applicator) Apply(doc *document.Document, redactions []PageRedaction, fill Fill) (res Result, err error) {
	ctx := doc.Context()
	if ctx == nil {
		return res, fmt.Errorf("apply redactions: document has no context")
	}

	done := a.observer.StartTiming("redact", "apply", "")
	defer func() {
		done(err == nil, map[string]any{"glyphs_removed": res.GlyphsRemoved, "rects_painted": res.RectsPainted})
	}()

	for _, pr := range redactions {
		if len(pr.Rects) == 0 {
			continue
		}
		var removed int
		removed, err = a.applyPage(ctx, pr, fill)
		if err != nil {
			return res, fmt.Errorf("apply redactions: page %d: %w", pr.Page+1, err)
		}
		res.GlyphsRemoved += removed
		res.RectsPainted += len(pr.Rects)
		res.PagesTouched++
	}
	return res, nil
}

func (a *Applicator) applyPage(ctx *model.Context, pr PageRedaction, fill Fill) (int, error) {
	pageNr := pr.Page + 1
	pageDict, _, _, err := ctx.PageDict(pageNr, false)
	if err != nil {
		return 0, err
	}
	if pageDict == nil {
		return 0, fmt.Errorf("no page dict")
	}

	content, streams, err := collectContent(ctx, pageDict)
	if err != nil {
		return 0, err
	}
	if len(streams) == 0 {
		return 0, nil
	}

	ops, err := ParseContent(content)
	if err != nil {
		return 0, fmt.Errorf("parse content stream: %w", err)
	}

	fonts := loadPageFonts(ctx, pageDict)
	out, removed := rewriteOps(ops, fonts, pr.Rects)
	out = append(out, fillOps(pr.Rects, fill)...)

	rewritten := SerializeOps(out)
	if err := writeContent(ctx, streams, rewritten); err != nil {
		return removed, err
	}
	return removed, nil
}

// contentStream pairs a content stream with its object number so the
// rewrite can be written back through the xref table.
type contentStream struct {
	ref types.IndirectRef
	sd  *types.StreamDict
}

// collectContent decodes the page's /Contents entry, which is either a
// single stream or an array of streams that concatenate into one
// logical stream.
func collectContent(ctx *model.Context, pageDict types.Dict) ([]byte, []contentStream, error) {
	obj, found := pageDict.Find("Contents")
	if !found {
		return nil, nil, nil
	}

	var refs []types.IndirectRef
	switch v := obj.(type) {
	case types.IndirectRef:
		resolved, err := ctx.Dereference(v)
		if err != nil {
			return nil, nil, err
		}
		if arr, ok := resolved.(types.Array); ok {
			for _, item := range arr {
				if r, ok := item.(types.IndirectRef); ok {
					refs = append(refs, r)
				}
			}
		} else {
			refs = append(refs, v)
		}
	case types.Array:
		for _, item := range v {
			if r, ok := item.(types.IndirectRef); ok {
				refs = append(refs, r)
			}
		}
	}

	var content []byte
	var streams []contentStream
	for _, ref := range refs {
		sd, _, err := ctx.DereferenceStreamDict(ref)
		if err != nil {
			return nil, nil, err
		}
		if sd == nil {
			continue
		}
		if err := sd.Decode(); err != nil {
			return nil, nil, fmt.Errorf("decode content stream %d: %w", ref.ObjectNumber.Value(), err)
		}
		sd.Content = append([]byte(nil), sd.Content...)
		if len(content) > 0 {
			// segments may split mid-token; viewers insert a
			// whitespace joint between concatenated streams
			content = append(content, '\n')
		}
		content = append(content, sd.Content...)
		streams = append(streams, contentStream{ref: ref, sd: sd})
	}
	return content, streams, nil
}

// writeContent stores the rewritten stream in the first content object
// and empties the rest, keeping the page's /Contents entry valid
// whether it was a single stream or an array.
func writeContent(ctx *model.Context, streams []contentStream, data []byte) error {
	for i, cs := range streams {
		if i == 0 {
			cs.sd.Content = data
		} else {
			cs.sd.Content = nil
		}
		cs.sd.Raw = nil
		if err := cs.sd.Encode(); err != nil {
			return fmt.Errorf("encode content stream %d: %w", cs.ref.ObjectNumber.Value(), err)
		}
		cs.sd.Dict["Length"] = types.Integer(len(cs.sd.Raw))
		entry, ok := ctx.FindTableEntryForIndRef(&cs.ref)
		if !ok || entry == nil {
			return fmt.Errorf("missing xref entry for object %d", cs.ref.ObjectNumber.Value())
		}
		entry.Object = *cs.sd
	}
	return nil
}

// fillOps paints opaque rectangles in a fresh graphics state appended
// after all page content, so nothing later in the stream can draw over
// them.
func fillOps(rects []document.Rect, fill Fill) []Op {
	ops := make([]Op, 0, len(rects)*4+2)
	ops = append(ops,
		Op{Operator: "q"},
		Op{Operator: "rg", Operands: []Object{Number(fill.R), Number(fill.G), Number(fill.B)}},
	)
	for _, r := range rects {
		if r.Empty() {
			continue
		}
		ops = append(ops,
			Op{Operator: "re", Operands: []Object{
				Number(r.LLX), Number(r.LLY), Number(r.Width()), Number(r.Height()),
			}},
			Op{Operator: "f"},
		)
	}
	return append(ops, Op{Operator: "Q"})
}
