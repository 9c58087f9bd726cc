// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redact

import (
	"testing"

	"resume-redact/internal/document"
)

func TestMergeOverlapping(t *testing.T) {
	rects := []document.Rect{
		{LLX: 0, LLY: 0, URX: 10, URY: 10},
		{LLX: 5, LLY: 5, URX: 20, URY: 15},
		{LLX: 100, LLY: 100, URX: 110, URY: 110},
	}
	merged := mergeOverlapping(rects)
	if len(merged) != 2 {
		t.Fatalf("got %d rects, want 2: %+v", len(merged), merged)
	}
	first := merged[0]
	if first.LLX != 0 || first.LLY != 0 || first.URX != 20 || first.URY != 15 {
		t.Errorf("merged rect wrong: %+v", first)
	}
}

func TestMergeOverlapping_Chain(t *testing.T) {
	// c overlaps b, b overlaps a; all three collapse after the union of
	// a and b grows to reach c.
	rects := []document.Rect{
		{LLX: 0, LLY: 0, URX: 10, URY: 10},
		{LLX: 8, LLY: 0, URX: 18, URY: 10},
		{LLX: 16, LLY: 0, URX: 26, URY: 10},
	}
	merged := mergeOverlapping(rects)
	if len(merged) != 1 {
		t.Fatalf("got %d rects, want 1: %+v", len(merged), merged)
	}
	if merged[0].URX != 26 {
		t.Errorf("chain union wrong: %+v", merged[0])
	}
}

func TestMergeOverlapping_Disjoint(t *testing.T) {
	rects := []document.Rect{
		{LLX: 0, LLY: 0, URX: 10, URY: 10},
		{LLX: 50, LLY: 0, URX: 60, URY: 10},
	}
	if merged := mergeOverlapping(rects); len(merged) != 2 {
		t.Errorf("disjoint rects merged: %+v", merged)
	}
}
