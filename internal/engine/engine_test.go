// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"errors"
	"testing"

	"resume-redact/internal/detector"
	"resume-redact/internal/document"
	"resume-redact/internal/furniture"
	"resume-redact/internal/patterns"
	"resume-redact/internal/redact"
)

func TestOptionsWithDefaults(t *testing.T) {
	reg := patterns.NewRegistry()

	opts := Options{}.withDefaults(reg)
	if len(opts.Categories) != len(reg.Categories()) {
		t.Errorf("expected all %d categories, got %d", len(reg.Categories()), len(opts.Categories))
	}
	if opts.Format != FormatPDF {
		t.Errorf("default format = %q, want pdf", opts.Format)
	}
	if opts.Padding != 1.0 {
		t.Errorf("default padding = %v, want 1.0", opts.Padding)
	}

	explicit := Options{
		Categories: []patterns.Category{patterns.CategoryEmail},
		Format:     FormatDOCX,
		Padding:    3,
	}.withDefaults(reg)
	if len(explicit.Categories) != 1 || explicit.Format != FormatDOCX || explicit.Padding != 3 {
		t.Errorf("explicit options overridden: %+v", explicit)
	}
}

func TestFooterOrDefault(t *testing.T) {
	if got := footerOrDefault(""); got != furniture.DefaultFooter {
		t.Errorf("empty footer = %q, want default", got)
	}
	if got := footerOrDefault("custom"); got != "custom" {
		t.Errorf("custom footer = %q", got)
	}
}

func TestConvertUnresolved(t *testing.T) {
	if got := convertUnresolved(nil); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
	in := []redact.Unresolved{
		{
			Span:   detector.Span{Category: patterns.CategoryPhone, Text: "555-123-4567", Page: 2},
			Reason: "no glyph geometry",
		},
	}
	out := convertUnresolved(in)
	if len(out) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(out))
	}
	if out[0].Category != patterns.CategoryPhone || out[0].Page != 2 || out[0].Reason != "no glyph geometry" {
		t.Errorf("unexpected conversion: %+v", out[0])
	}
}

func TestProcessRejectsUnknownFormat(t *testing.T) {
	eng := New(nil)
	_, err := eng.Process(context.Background(), "cv.pdf", nil, Options{Format: "odt"})
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestProcessRejectsUnknownCategory(t *testing.T) {
	eng := New(nil)
	opts := Options{Categories: []patterns.Category{"ssn"}}
	_, err := eng.Process(context.Background(), "cv.pdf", nil, opts)
	var unsupported *patterns.ErrUnsupportedCategory
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected ErrUnsupportedCategory, got %v", err)
	}
}

func TestProcessRejectsInvalidPDF(t *testing.T) {
	eng := New(nil)
	_, err := eng.Process(context.Background(), "cv.pdf", []byte("not a pdf at all"), Options{})
	if !errors.Is(err, document.ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
}

func TestPreviewRejectsUnknownCategory(t *testing.T) {
	eng := New(nil)
	_, err := eng.Preview(context.Background(), "cv.pdf", nil, []patterns.Category{"dob"})
	var unsupported *patterns.ErrUnsupportedCategory
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected ErrUnsupportedCategory, got %v", err)
	}
}
