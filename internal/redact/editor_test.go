// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-redact/internal/document"
)

// testFonts returns a single simple font with every glyph 500 units
// wide, so at size 10 each glyph advances exactly 5 points.
func testFonts() map[string]*fontMetrics {
	return map[string]*fontMetrics{
		"F1": {defaultWidth: 500, widths: map[int]float64{}},
	}
}

func parseOps(t *testing.T, stream string) []Op {
	t.Helper()
	ops, err := ParseContent([]byte(stream))
	require.NoError(t, err)
	return ops
}

func TestRewriteOps_NoRectsPassthrough(t *testing.T) {
	ops := parseOps(t, "BT /F1 10 Tf 100 700 Td (Hello world) Tj ET")
	out, removed := rewriteOps(ops, testFonts(), nil)
	assert.Zero(t, removed)
	require.Len(t, out, len(ops))
	assert.Equal(t, "Tj", out[3].Operator)
	assert.Equal(t, String("Hello world"), out[3].Operands[0])
}

func TestRewriteOps_RemovesTrailingRun(t *testing.T) {
	// Glyphs run from x=100, 5pt each; "world" occupies [130, 155).
	ops := parseOps(t, "BT /F1 10 Tf 100 700 Td (Hello world) Tj ET")
	rects := []document.Rect{{LLX: 130.5, LLY: 690, URX: 156, URY: 710}}

	out, removed := rewriteOps(ops, testFonts(), rects)
	assert.Equal(t, 5, removed)

	tj := out[3]
	require.Equal(t, "TJ", tj.Operator)
	arr, ok := tj.Operands[0].(Array)
	require.True(t, ok)
	require.Len(t, arr, 2)
	assert.Equal(t, String("Hello "), arr[0])
	// 25pt of removed advance at size 10 is a -2500 kern.
	assert.InDelta(t, -2500, float64(arr[1].(Number)), 0.01)
}

func TestRewriteOps_RemovesLeadingRun(t *testing.T) {
	ops := parseOps(t, "BT /F1 10 Tf 100 700 Td (Hello) Tj ET")
	// Covers "He" at [100, 110); "llo" survives in place.
	rects := []document.Rect{{LLX: 99, LLY: 690, URX: 109.5, URY: 710}}

	out, removed := rewriteOps(ops, testFonts(), rects)
	assert.Equal(t, 2, removed)

	arr, ok := out[3].Operands[0].(Array)
	require.True(t, ok)
	require.Len(t, arr, 3)
	assert.InDelta(t, -1000, float64(arr[0].(Number)), 0.01)
	assert.Equal(t, String("l"), arr[1])
	assert.Equal(t, String("lo"), arr[2])
}

func TestRewriteOps_WholeStringRemoved(t *testing.T) {
	ops := parseOps(t, "BT /F1 10 Tf 100 700 Td (secret) Tj ET")
	rects := []document.Rect{{LLX: 90, LLY: 690, URX: 200, URY: 710}}

	out, removed := rewriteOps(ops, testFonts(), rects)
	assert.Equal(t, 6, removed)

	arr, ok := out[3].Operands[0].(Array)
	require.True(t, ok)
	// Nothing but the compensating kern survives.
	require.Len(t, arr, 1)
	assert.InDelta(t, -3000, float64(arr[0].(Number)), 0.01)
}

func TestRewriteOps_TJArrayKernsTracked(t *testing.T) {
	// The -500 kern shifts the second string right by 5pt: "cd" sits at
	// [115, 125). Cover only "cd".
	ops := parseOps(t, "BT /F1 10 Tf 100 700 Td [(ab) -500 (cd)] TJ ET")
	rects := []document.Rect{{LLX: 115.5, LLY: 690, URX: 126, URY: 710}}

	out, removed := rewriteOps(ops, testFonts(), rects)
	assert.Equal(t, 2, removed)

	arr, ok := out[3].Operands[0].(Array)
	require.True(t, ok)
	require.Len(t, arr, 3)
	assert.Equal(t, String("ab"), arr[0])
	assert.InDelta(t, -500, float64(arr[1].(Number)), 0.01)
	assert.InDelta(t, -1000, float64(arr[2].(Number)), 0.01)
}

func TestRewriteOps_CharSpacingInAdvance(t *testing.T) {
	// 1pt char spacing makes each glyph advance 6pt; "bc" sits at
	// [106, 118).
	ops := parseOps(t, "BT /F1 10 Tf 1 Tc 100 700 Td (abc) Tj ET")
	rects := []document.Rect{{LLX: 106.5, LLY: 690, URX: 118, URY: 710}}

	out, removed := rewriteOps(ops, testFonts(), rects)
	assert.Equal(t, 2, removed)

	arr, ok := out[4].Operands[0].(Array)
	require.True(t, ok)
	require.Len(t, arr, 2)
	assert.Equal(t, String("a"), arr[0])
	// 12pt of removed advance at size 10 is a -1200 kern.
	assert.InDelta(t, -1200, float64(arr[1].(Number)), 0.01)
}

func TestRewriteOps_CTMScalingRespected(t *testing.T) {
	// The 2x CTM doubles device coordinates: text starts at x=100 and
	// each glyph covers 10 device points. Cover the second glyph only.
	ops := parseOps(t, "q 2 0 0 2 0 0 cm BT /F1 10 Tf 50 350 Td (abc) Tj ET Q")
	rects := []document.Rect{{LLX: 110.5, LLY: 690, URX: 119.5, URY: 720}}

	_, removed := rewriteOps(ops, testFonts(), rects)
	assert.Equal(t, 1, removed)
}

func TestRewriteOps_QuoteOperatorRewritten(t *testing.T) {
	ops := parseOps(t, "BT /F1 10 Tf 14 TL 100 700 Td (line) ' ET")
	out, removed := rewriteOps(ops, testFonts(), nil)
	assert.Zero(t, removed)

	var operators []string
	for _, op := range out {
		operators = append(operators, op.Operator)
	}
	assert.Equal(t, []string{"BT", "Tf", "TL", "Td", "T*", "Tj", "ET"}, operators)
}

func TestRewriteOps_SecondLineViaTStar(t *testing.T) {
	// T* drops the baseline by the leading; only the second line is
	// covered.
	ops := parseOps(t, "BT /F1 10 Tf 14 TL 100 700 Td (keep) Tj T* (drop) Tj ET")
	rects := []document.Rect{{LLX: 90, LLY: 680, URX: 200, URY: 692}}

	out, removed := rewriteOps(ops, testFonts(), rects)
	assert.Equal(t, 4, removed)

	// First Tj untouched, second rewritten.
	assert.Equal(t, "Tj", out[4].Operator)
	assert.Equal(t, String("keep"), out[4].Operands[0])
	assert.Equal(t, "TJ", out[6].Operator)
}

func TestFillOps(t *testing.T) {
	rects := []document.Rect{
		{LLX: 10, LLY: 20, URX: 110, URY: 35},
		{LLX: 0, LLY: 0, URX: 0, URY: 0}, // empty, skipped
	}
	ops := fillOps(rects, Black)
	serialized := string(SerializeOps(ops))
	assert.Contains(t, serialized, "0 0 0 rg")
	assert.Contains(t, serialized, "10 20 100 15 re")
	assert.Contains(t, serialized, "f")

	reparsed, err := ParseContent(SerializeOps(ops))
	require.NoError(t, err)
	assert.Equal(t, "q", reparsed[0].Operator)
	assert.Equal(t, "Q", reparsed[len(reparsed)-1].Operator)
}

func TestFontMetrics_Width(t *testing.T) {
	fm := &fontMetrics{defaultWidth: 600, widths: map[int]float64{65: 722}}
	assert.Equal(t, 722.0, fm.width(65))
	assert.Equal(t, 600.0, fm.width(66))

	var missing *fontMetrics
	assert.Equal(t, 500.0, missing.width(65))
}
