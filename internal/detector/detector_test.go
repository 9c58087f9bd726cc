// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"testing"

	"resume-redact/internal/patterns"
)

func newTestDetector() *Detector {
	return New(patterns.NewRegistry(), nil)
}

func TestDetectPage_CategoryGating(t *testing.T) {
	d := newTestDetector()
	text := "Mail jane@example.com or call 555-123-4567"

	spans, err := d.DetectPage(0, text, []patterns.Category{patterns.CategoryEmail})
	if err != nil {
		t.Fatalf("DetectPage failed: %v", err)
	}
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1: %+v", len(spans), spans)
	}
	if spans[0].Category != patterns.CategoryEmail {
		t.Errorf("got category %s, want email", spans[0].Category)
	}
	if spans[0].Text != "jane@example.com" {
		t.Errorf("got text %q", spans[0].Text)
	}
	if got := text[spans[0].Start:spans[0].End]; got != spans[0].Text {
		t.Errorf("offsets select %q, want %q", got, spans[0].Text)
	}
}

func TestDetectPage_SpecificCategoryWinsOverlap(t *testing.T) {
	d := newTestDetector()
	text := "profile: https://linkedin.com/in/jane-doe and that is all"

	spans, err := d.DetectPage(0, text, []patterns.Category{
		patterns.CategoryLinkedIn, patterns.CategoryAllURLs,
	})
	if err != nil {
		t.Fatalf("DetectPage failed: %v", err)
	}
	linkedin, urls := 0, 0
	for _, sp := range spans {
		switch sp.Category {
		case patterns.CategoryLinkedIn:
			linkedin++
		case patterns.CategoryAllURLs:
			urls++
		}
	}
	if linkedin != 1 {
		t.Errorf("got %d linkedin spans, want 1: %+v", linkedin, spans)
	}
	if urls != 0 {
		t.Errorf("linkedin URL double-counted as all_urls: %+v", spans)
	}
}

func TestDetectPage_SortedByOffset(t *testing.T) {
	d := newTestDetector()
	text := "visit example.org then mail jane@example.com then call 555-123-4567"

	spans, err := d.DetectPage(2, text, []patterns.Category{
		patterns.CategoryEmail, patterns.CategoryPhone, patterns.CategoryAllURLs,
	})
	if err != nil {
		t.Fatalf("DetectPage failed: %v", err)
	}
	if len(spans) < 3 {
		t.Fatalf("got %d spans, want at least 3: %+v", len(spans), spans)
	}
	for i := 1; i < len(spans); i++ {
		if spans[i].Start < spans[i-1].Start {
			t.Errorf("spans out of order at %d: %+v", i, spans)
		}
	}
	for _, sp := range spans {
		if sp.Page != 2 {
			t.Errorf("span carries page %d, want 2", sp.Page)
		}
	}
}

func TestDetectPage_UnknownCategory(t *testing.T) {
	d := newTestDetector()
	if _, err := d.DetectPage(0, "text", []patterns.Category{"ssn"}); err == nil {
		t.Fatal("unknown category accepted")
	}
}

func TestCountByCategory(t *testing.T) {
	spans := []Span{
		{Category: patterns.CategoryEmail},
		{Category: patterns.CategoryEmail},
		{Category: patterns.CategoryPhone},
	}
	counts := CountByCategory(spans)
	if counts[patterns.CategoryEmail] != 2 || counts[patterns.CategoryPhone] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

func TestUniqueCanonical(t *testing.T) {
	spans := []Span{
		{Category: patterns.CategoryEmail, Canonical: "jane@example.com"},
		{Category: patterns.CategoryEmail, Canonical: "jane@example.com"},
		{Category: patterns.CategoryEmail, Canonical: "hr@example.com"},
	}
	unique := UniqueCanonical(spans)
	if got := unique[patterns.CategoryEmail]; len(got) != 2 {
		t.Errorf("got %v, want 2 unique values", got)
	}
}
