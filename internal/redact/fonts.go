// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redact

import (
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// fontMetrics carries just enough of a font dictionary to compute glyph
// advances: per-code widths in 1000-unit glyph space plus the CID flag
// that decides the show-string byte width.
type fontMetrics struct {
	cid          bool
	defaultWidth float64
	widths       map[int]float64
}

func (f *fontMetrics) width(code int) float64 {
	if f == nil {
		return 500
	}
	if w, ok := f.widths[code]; ok {
		return w
	}
	return f.defaultWidth
}

// loadPageFonts resolves every font named in the page's /Resources
// /Font dictionary. Fonts that cannot be resolved are simply absent
// from the map; the editor falls back to a default advance for them.
func loadPageFonts(ctx *model.Context, pageDict types.Dict) map[string]*fontMetrics {
	fonts := make(map[string]*fontMetrics)

	resObj, found := pageDict.Find("Resources")
	if !found {
		return fonts
	}
	res, err := ctx.DereferenceDict(resObj)
	if err != nil || res == nil {
		return fonts
	}
	fontObj, found := res.Find("Font")
	if !found {
		return fonts
	}
	fontDicts, err := ctx.DereferenceDict(fontObj)
	if err != nil || fontDicts == nil {
		return fonts
	}

	for name, ref := range fontDicts {
		d, err := ctx.DereferenceDict(ref)
		if err != nil || d == nil {
			continue
		}
		fonts[name] = loadFont(ctx, d)
	}
	return fonts
}

func loadFont(ctx *model.Context, d types.Dict) *fontMetrics {
	fm := &fontMetrics{defaultWidth: 500, widths: make(map[int]float64)}

	if subtype := d.NameEntry("Subtype"); subtype != nil && *subtype == "Type0" {
		fm.cid = true
		fm.defaultWidth = 1000
		loadCIDWidths(ctx, d, fm)
		return fm
	}

	first := 0
	if obj, found := d.Find("FirstChar"); found {
		if n, err := ctx.DereferenceInteger(obj); err == nil && n != nil {
			first = n.Value()
		}
	}
	if obj, found := d.Find("Widths"); found {
		if arr, err := ctx.DereferenceArray(obj); err == nil {
			for i, w := range arr {
				if f, ok := toFloat(ctx, w); ok {
					fm.widths[first+i] = f
				}
			}
		}
	}
	if obj, found := d.Find("FontDescriptor"); found {
		if fd, err := ctx.DereferenceDict(obj); err == nil && fd != nil {
			if mw, found := fd.Find("MissingWidth"); found {
				if f, ok := toFloat(ctx, mw); ok {
					fm.defaultWidth = f
				}
			}
		}
	}
	return fm
}

// loadCIDWidths reads the descendant CIDFont's /W array. The array
// alternates between "c [w1 w2 ...]" runs and "cFirst cLast w" ranges.
func loadCIDWidths(ctx *model.Context, d types.Dict, fm *fontMetrics) {
	descObj, found := d.Find("DescendantFonts")
	if !found {
		return
	}
	desc, err := ctx.DereferenceArray(descObj)
	if err != nil || len(desc) == 0 {
		return
	}
	cidFont, err := ctx.DereferenceDict(desc[0])
	if err != nil || cidFont == nil {
		return
	}
	if dw, found := cidFont.Find("DW"); found {
		if f, ok := toFloat(ctx, dw); ok {
			fm.defaultWidth = f
		}
	}
	wObj, found := cidFont.Find("W")
	if !found {
		return
	}
	w, err := ctx.DereferenceArray(wObj)
	if err != nil {
		return
	}
	for i := 0; i < len(w); {
		start, ok := toInt(ctx, w[i])
		if !ok {
			return
		}
		i++
		if i >= len(w) {
			return
		}
		if arr, err := ctx.DereferenceArray(w[i]); err == nil && arr != nil {
			for j, item := range arr {
				if f, ok := toFloat(ctx, item); ok {
					fm.widths[start+j] = f
				}
			}
			i++
			continue
		}
		end, ok := toInt(ctx, w[i])
		if !ok || i+1 >= len(w) {
			return
		}
		width, ok := toFloat(ctx, w[i+1])
		if !ok {
			return
		}
		for c := start; c <= end && c-start < 65536; c++ {
			fm.widths[c] = width
		}
		i += 2
	}
}

func toFloat(ctx *model.Context, obj types.Object) (float64, bool) {
	o, err := ctx.Dereference(obj)
	if err != nil {
		return 0, false
	}
	switch v := o.(type) {
	case types.Integer:
		return float64(v.Value()), true
	case types.Float:
		return v.Value(), true
	}
	return 0, false
}

func toInt(ctx *model.Context, obj types.Object) (int, bool) {
	o, err := ctx.Dereference(obj)
	if err != nil {
		return 0, false
	}
	if n, ok := o.(types.Integer); ok {
		return n.Value(), true
	}
	return 0, false
}
