// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redact

import (
	"resume-redact/internal/document"
)

// matrix is a PDF transformation matrix [a b c d e f] with the last
// column implicitly (0 0 1).
type matrix [6]float64

func identity() matrix { return matrix{1, 0, 0, 1, 0, 0} }

func (a matrix) mult(b matrix) matrix {
	return matrix{
		a[0]*b[0] + a[1]*b[2],
		a[0]*b[1] + a[1]*b[3],
		a[2]*b[0] + a[3]*b[2],
		a[2]*b[1] + a[3]*b[3],
		a[4]*b[0] + a[5]*b[2] + b[4],
		a[4]*b[1] + a[5]*b[3] + b[5],
	}
}

type graphicsState struct {
	ctm matrix
}

type textState struct {
	font     *fontMetrics
	fontSize float64
	charSp   float64
	wordSp   float64
	hscale   float64 // percent, 100 by default
	leading  float64
	rise     float64
	tm       matrix
	tlm      matrix
}

// editor walks content-stream operations tracking enough graphics and
// text state to place each glyph in page space, and drops glyphs whose
// boxes intersect a redaction rectangle. Dropped glyph runs are replaced
// by equivalent TJ kern adjustments so the surviving text keeps its
// exact position.
type editor struct {
	fonts map[string]*fontMetrics
	rects []document.Rect

	gs      graphicsState
	gsStack []graphicsState
	ts      textState

	out     []Op
	removed int
}

// rewriteOps filters all show-text operations in ops against rects and
// returns the rewritten operation list plus the number of glyphs
// removed.
func rewriteOps(ops []Op, fonts map[string]*fontMetrics, rects []document.Rect) ([]Op, int) {
	e := &editor{
		fonts: fonts,
		rects: rects,
		gs:    graphicsState{ctm: identity()},
		ts:    textState{hscale: 100, tm: identity(), tlm: identity()},
	}
	for _, op := range ops {
		e.process(op)
	}
	return e.out, e.removed
}

func (e *editor) process(op Op) {
	switch op.Operator {
	case "q":
		e.gsStack = append(e.gsStack, e.gs)
		e.emit(op)
	case "Q":
		if n := len(e.gsStack); n > 0 {
			e.gs = e.gsStack[n-1]
			e.gsStack = e.gsStack[:n-1]
		}
		e.emit(op)
	case "cm":
		if len(op.Operands) == 6 {
			e.gs.ctm = operandMatrix(op.Operands).mult(e.gs.ctm)
		}
		e.emit(op)
	case "BT":
		e.ts.tm = identity()
		e.ts.tlm = identity()
		e.emit(op)
	case "Tc":
		e.ts.charSp = num(op.Operands, 0)
		e.emit(op)
	case "Tw":
		e.ts.wordSp = num(op.Operands, 0)
		e.emit(op)
	case "Tz":
		e.ts.hscale = num(op.Operands, 0)
		e.emit(op)
	case "TL":
		e.ts.leading = num(op.Operands, 0)
		e.emit(op)
	case "Ts":
		e.ts.rise = num(op.Operands, 0)
		e.emit(op)
	case "Tf":
		if len(op.Operands) == 2 {
			if name, ok := op.Operands[0].(Name); ok {
				e.ts.font = e.fonts[string(name)]
			}
			e.ts.fontSize = num(op.Operands, 1)
		}
		e.emit(op)
	case "Td":
		e.translateLine(num(op.Operands, 0), num(op.Operands, 1))
		e.emit(op)
	case "TD":
		e.ts.leading = -num(op.Operands, 1)
		e.translateLine(num(op.Operands, 0), num(op.Operands, 1))
		e.emit(op)
	case "Tm":
		if len(op.Operands) == 6 {
			e.ts.tm = operandMatrix(op.Operands)
			e.ts.tlm = e.ts.tm
		}
		e.emit(op)
	case "T*":
		e.translateLine(0, -e.ts.leading)
		e.emit(op)
	case "Tj":
		if len(op.Operands) == 1 {
			e.showFiltered(Array{op.Operands[0]}, op)
		} else {
			e.emit(op)
		}
	case "TJ":
		if len(op.Operands) == 1 {
			if arr, ok := op.Operands[0].(Array); ok {
				e.showFiltered(arr, op)
				return
			}
		}
		e.emit(op)
	case "'":
		// equivalent to T* Tj; rewrite so the filtered form stays simple
		e.translateLine(0, -e.ts.leading)
		e.emit(Op{Operator: "T*"})
		if len(op.Operands) == 1 {
			e.showFiltered(Array{op.Operands[0]}, Op{Operator: "Tj", Operands: op.Operands})
		}
	case "\"":
		if len(op.Operands) == 3 {
			e.ts.wordSp = num(op.Operands, 0)
			e.ts.charSp = num(op.Operands, 1)
			e.emit(Op{Operator: "Tw", Operands: []Object{op.Operands[0]}})
			e.emit(Op{Operator: "Tc", Operands: []Object{op.Operands[1]}})
			e.translateLine(0, -e.ts.leading)
			e.emit(Op{Operator: "T*"})
			e.showFiltered(Array{op.Operands[2]}, Op{Operator: "Tj", Operands: op.Operands[2:]})
		} else {
			e.emit(op)
		}
	default:
		e.emit(op)
	}
}

func (e *editor) emit(op Op) { e.out = append(e.out, op) }

func (e *editor) translateLine(tx, ty float64) {
	m := matrix{1, 0, 0, 1, tx, ty}
	e.ts.tlm = m.mult(e.ts.tlm)
	e.ts.tm = e.ts.tlm
}

// showFiltered walks a TJ-style array, advancing the text matrix glyph
// by glyph. Glyphs covered by a redaction rectangle are replaced with a
// kern adjustment carrying the same advance, which removes their bytes
// from the stream while keeping every surviving glyph in place. When
// nothing in the array is covered the original operation is emitted
// unchanged.
func (e *editor) showFiltered(arr Array, original Op) {
	if len(e.rects) == 0 || e.ts.fontSize <= 0 {
		e.advanceArray(arr)
		e.emit(original)
		return
	}

	var out Array
	var pendingKern float64 // accumulated advance of removed glyphs, pre-hscale text units
	removedHere := 0

	flushKern := func() {
		if pendingKern == 0 {
			return
		}
		// TJ numbers shift by -n/1000*fontSize*hscale; solve for n.
		n := -pendingKern * 1000 / e.ts.fontSize
		out = append(out, Number(n))
		pendingKern = 0
	}

	for _, item := range arr {
		switch v := item.(type) {
		case Number:
			e.advanceKern(float64(v))
			flushKern()
			out = append(out, v)
		case String:
			kept, removedAdv, n := e.filterString([]byte(v))
			removedHere += n
			if n == 0 {
				flushKern()
				out = append(out, v)
				break
			}
			for _, seg := range kept {
				if seg.kernBefore != 0 {
					pendingKern += seg.kernBefore
				}
				flushKern()
				out = append(out, String(seg.bytes))
			}
			pendingKern += removedAdv
		case HexString:
			kept, removedAdv, n := e.filterString([]byte(v))
			removedHere += n
			if n == 0 {
				flushKern()
				out = append(out, v)
				break
			}
			for _, seg := range kept {
				if seg.kernBefore != 0 {
					pendingKern += seg.kernBefore
				}
				flushKern()
				out = append(out, HexString(seg.bytes))
			}
			pendingKern += removedAdv
		default:
			flushKern()
			out = append(out, item)
		}
	}
	flushKern()

	if removedHere == 0 {
		e.emit(original)
		return
	}
	e.removed += removedHere
	e.emit(Op{Operator: "TJ", Operands: []Object{out}})
}

// keptSegment is a run of surviving glyph bytes, preceded by the
// advance of any removed glyphs directly before it.
type keptSegment struct {
	kernBefore float64
	bytes      []byte
}

// filterString splits glyph bytes into kept segments and returns the
// trailing removed advance plus the number of glyphs removed. The text
// matrix is advanced for every glyph, kept or not.
func (e *editor) filterString(raw []byte) ([]keptSegment, float64, int) {
	step := 1
	if e.ts.font != nil && e.ts.font.cid {
		step = 2
	}

	var segs []keptSegment
	var cur []byte
	var pending float64
	removed := 0

	for i := 0; i < len(raw); i += step {
		hi := int(raw[i])
		code := hi
		if step == 2 {
			code = hi << 8
			if i+1 < len(raw) {
				code |= int(raw[i+1])
			}
		}

		adv := e.glyphAdvance(code, step == 1 && raw[i] == ' ')
		covered := e.glyphCovered(adv)
		e.advanceTextMatrix(adv)

		if covered {
			removed++
			pending += adv
			continue
		}
		if pending > 0 {
			if len(cur) > 0 {
				segs = append(segs, keptSegment{bytes: cur})
				cur = nil
			}
			segs = append(segs, keptSegment{
				kernBefore: pending,
				bytes:      append([]byte(nil), raw[i:min(i+step, len(raw))]...),
			})
			pending = 0
			continue
		}
		cur = append(cur, raw[i:min(i+step, len(raw))]...)
	}
	if len(cur) > 0 {
		segs = append(segs, keptSegment{bytes: cur})
	}
	return segs, pending, removed
}

// glyphAdvance returns the glyph's advance in pre-hscale text-space
// units: w/1000*fontSize + charSpacing (+ wordSpacing for byte 32 in
// simple fonts).
func (e *editor) glyphAdvance(code int, isSpace bool) float64 {
	w := 500.0
	if e.ts.font != nil {
		w = e.ts.font.width(code)
	}
	adv := w/1000*e.ts.fontSize + e.ts.charSp
	if isSpace {
		adv += e.ts.wordSp
	}
	return adv
}

// glyphCovered tests the glyph's page-space box against the redaction
// rectangles using the current text and transformation matrices. Only
// axis-aligned placements are classified per glyph; rotated or skewed
// text falls back to origin containment.
func (e *editor) glyphCovered(adv float64) bool {
	trm := e.ts.tm.mult(e.gs.ctm)
	x, y := trm[4], trm[5]+e.ts.rise

	if trm[1] != 0 || trm[2] != 0 {
		for _, r := range e.rects {
			if x >= r.LLX && x <= r.URX && y >= r.LLY && y <= r.URY {
				return true
			}
		}
		return false
	}

	sx := trm[0]
	sy := trm[3]
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	w := adv * (e.ts.hscale / 100) * sx
	fs := e.ts.fontSize * sy
	box := document.Rect{
		LLX: x,
		LLY: y - 0.2*fs,
		URX: x + w,
		URY: y + 0.8*fs,
	}
	if box.URX < box.LLX {
		box.LLX, box.URX = box.URX, box.LLX
	}
	if box.URY < box.LLY {
		box.LLY, box.URY = box.URY, box.LLY
	}
	for _, r := range e.rects {
		if r.Intersects(box) {
			return true
		}
	}
	return false
}

func (e *editor) advanceTextMatrix(adv float64) {
	tx := adv * (e.ts.hscale / 100)
	e.ts.tm = matrix{1, 0, 0, 1, tx, 0}.mult(e.ts.tm)
}

// advanceKern applies a TJ number adjustment to the text matrix.
func (e *editor) advanceKern(n float64) {
	tx := -n / 1000 * e.ts.fontSize * (e.ts.hscale / 100)
	e.ts.tm = matrix{1, 0, 0, 1, tx, 0}.mult(e.ts.tm)
}

// advanceArray advances the text matrix across a show array without
// filtering, keeping state correct when no rectangles apply.
func (e *editor) advanceArray(arr Array) {
	for _, item := range arr {
		switch v := item.(type) {
		case Number:
			e.advanceKern(float64(v))
		case String:
			e.advanceBytes([]byte(v))
		case HexString:
			e.advanceBytes([]byte(v))
		}
	}
}

func (e *editor) advanceBytes(raw []byte) {
	step := 1
	if e.ts.font != nil && e.ts.font.cid {
		step = 2
	}
	for i := 0; i < len(raw); i += step {
		code := int(raw[i])
		if step == 2 {
			code <<= 8
			if i+1 < len(raw) {
				code |= int(raw[i+1])
			}
		}
		e.advanceTextMatrix(e.glyphAdvance(code, step == 1 && raw[i] == ' '))
	}
}

func operandMatrix(ops []Object) matrix {
	var m matrix
	for i := 0; i < 6 && i < len(ops); i++ {
		if n, ok := ops[i].(Number); ok {
			m[i] = float64(n)
		}
	}
	return m
}

func num(ops []Object, i int) float64 {
	if i < len(ops) {
		if n, ok := ops[i].(Number); ok {
			return float64(n)
		}
	}
	return 0
}
