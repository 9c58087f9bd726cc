// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package engine drives a full redaction pass: load, detect, resolve
// geometry, rewrite content streams, stamp furniture, and export.
package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"resume-redact/internal/detector"
	"resume-redact/internal/document"
	"resume-redact/internal/export"
	"resume-redact/internal/furniture"
	"resume-redact/internal/observability"
	"resume-redact/internal/patterns"
	"resume-redact/internal/redact"
)

// Format selects the output container.
const (
	FormatPDF  = "pdf"
	FormatDOCX = "docx"
)

// Options configures a single redaction run. Zero values select the
// defaults: all categories, PDF output, 1pt padding, black fills.
type Options struct {
	Categories    []patterns.Category
	Format        string
	Furniture     furniture.Spec
	Padding       float64
	Fill          redact.Fill
	ScrubMetadata bool
}

func (o Options) withDefaults(reg *patterns.Registry) Options {
	if len(o.Categories) == 0 {
		o.Categories = reg.Categories()
	}
	if o.Format == "" {
		o.Format = FormatPDF
	}
	if o.Padding == 0 {
		o.Padding = 1.0
	}
	return o
}

// Report summarizes what a run detected and removed.
type Report struct {
	File          string                    `json:"file"`
	Format        string                    `json:"format"`
	PageCount     int                       `json:"page_count"`
	Counts        map[patterns.Category]int `json:"counts"`
	Total         int                       `json:"total"`
	GlyphsRemoved int                       `json:"glyphs_removed"`
	RectsPainted  int                       `json:"rects_painted"`
	Unresolved    []UnresolvedSpan          `json:"unresolved,omitempty"`
	Warnings      []string                  `json:"warnings,omitempty"`
	Degradations  []string                  `json:"degradations,omitempty"`
	Duration      time.Duration             `json:"duration_ns"`
}

// UnresolvedSpan reports a detection whose glyph geometry could not be
// located; its text was NOT removed from the output.
type UnresolvedSpan struct {
	Category patterns.Category `json:"category"`
	Text     string            `json:"text"`
	Page     int               `json:"page"`
	Reason   string            `json:"reason"`
}

// Result is the redacted output plus its report.
type Result struct {
	Output []byte
	Report Report
}

// Preview lists what a redaction run would remove, without producing
// output bytes. Counts match a subsequent Process call exactly,
// including spans that would go unresolved.
type Preview struct {
	File       string                         `json:"file"`
	PageCount  int                            `json:"page_count"`
	Encrypted  bool                           `json:"encrypted"`
	Title      string                         `json:"title,omitempty"`
	Author     string                         `json:"author,omitempty"`
	Producer   string                         `json:"producer,omitempty"`
	Counts     map[patterns.Category]int      `json:"counts"`
	Total      int                            `json:"total"`
	Matches    map[patterns.Category][]string `json:"matches"`
	Unresolved []UnresolvedSpan               `json:"unresolved,omitempty"`
}

// Engine wires the detection and redaction pipeline together. It is
// safe for concurrent use; per-run state lives on the stack.
type Engine struct {
	registry   *patterns.Registry
	detector   *detector.Detector
	applicator *redact.Applicator
	composer   *furniture.Composer
	observer   *observability.Observer
}

func New(obs *observability.Observer) *Engine {
	reg := patterns.NewRegistry()
	return &Engine{
		registry:   reg,
		detector:   detector.New(reg, obs),
		applicator: redact.NewApplicator(obs),
		composer:   furniture.NewComposer(obs),
		observer:   obs,
	}
}

// Registry exposes the category set for callers that validate input.
func (e *Engine) Registry() *patterns.Registry { return e.registry }

// Process redacts a single document held in memory and returns the
// output bytes in the requested format.
func (e *Engine) Process(ctx context.Context, name string, data []byte, opts Options) (res *Result, err error) {
	start := time.Now()
	opts = opts.withDefaults(e.registry)
	if err := e.registry.ValidateCategories(opts.Categories); err != nil {
		return nil, err
	}
	if opts.Format != FormatPDF && opts.Format != FormatDOCX {
		return nil, fmt.Errorf("unsupported output format %q", opts.Format)
	}

	done := e.observer.StartTiming("engine", "process", name)
	defer func() { done(err == nil, nil) }()

	doc, err := document.Load(data)
	if err != nil {
		return nil, err
	}
	defer doc.Release()

	spans, err := e.detectAll(ctx, doc, opts.Categories)
	if err != nil {
		return nil, err
	}

	plan, unresolved := redact.Plan(doc, spans, opts.Padding)
	applied, err := e.applicator.Apply(doc, plan, opts.Fill)
	if err != nil {
		return nil, err
	}

	report := Report{
		File:          name,
		Format:        opts.Format,
		PageCount:     doc.PageCount(),
		Counts:        detector.CountByCategory(spans),
		Total:         len(spans),
		GlyphsRemoved: applied.GlyphsRemoved,
		RectsPainted:  applied.RectsPainted,
		Unresolved:    convertUnresolved(unresolved),
	}

	var output []byte
	switch opts.Format {
	case FormatPDF:
		var pdfBytes []byte
		pdfBytes, err = export.WritePDF(doc, opts.ScrubMetadata)
		if err != nil {
			return nil, err
		}
		output, report.Warnings, err = e.composer.Compose(pdfBytes, opts.Furniture, fillsFromPlan(doc, plan))
		if err != nil {
			return nil, err
		}
	case FormatDOCX:
		in := export.DocxInput{
			Pages:  redactedPages(doc, spans),
			Header: opts.Furniture.HeaderText,
			Footer: footerOrDefault(opts.Furniture.FooterText),
			Logo:   opts.Furniture.Logo,
		}
		var docx export.DocxResult
		docx, err = export.WriteDocx(in)
		if err != nil {
			return nil, err
		}
		output = docx.Data
		report.Degradations = docx.Degradations
	}

	report.Duration = time.Since(start)
	return &Result{Output: output, Report: report}, nil
}

// Preview runs detection and geometry resolution without modifying the
// document, so its numbers agree with what Process would remove.
func (e *Engine) Preview(ctx context.Context, name string, data []byte, categories []patterns.Category) (pv *Preview, err error) {
	if len(categories) == 0 {
		categories = e.registry.Categories()
	}
	if err := e.registry.ValidateCategories(categories); err != nil {
		return nil, err
	}

	done := e.observer.StartTiming("engine", "preview", name)
	defer func() { done(err == nil, nil) }()

	doc, err := document.Load(data)
	if err != nil {
		return nil, err
	}
	defer doc.Release()

	spans, err := e.detectAll(ctx, doc, categories)
	if err != nil {
		return nil, err
	}
	_, unresolved := redact.Plan(doc, spans, 1.0)
	meta := doc.Meta()

	return &Preview{
		File:       name,
		PageCount:  doc.PageCount(),
		Encrypted:  meta.Encrypted,
		Title:      meta.Title,
		Author:     meta.Author,
		Producer:   meta.Producer,
		Counts:     detector.CountByCategory(spans),
		Total:      len(spans),
		Matches:    detector.UniqueCanonical(spans),
		Unresolved: convertUnresolved(unresolved),
	}, nil
}

func (e *Engine) detectAll(ctx context.Context, doc *document.Document, categories []patterns.Category) ([]detector.Span, error) {
	var spans []detector.Span
	for i := 0; i < doc.PageCount(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := doc.Page(i)
		if page == nil {
			continue
		}
		pageSpans, err := e.detector.DetectPage(i, page.Text(), categories)
		if err != nil {
			return nil, err
		}
		spans = append(spans, pageSpans...)
	}
	return spans, nil
}

func convertUnresolved(in []redact.Unresolved) []UnresolvedSpan {
	if len(in) == 0 {
		return nil
	}
	out := make([]UnresolvedSpan, 0, len(in))
	for _, u := range in {
		out = append(out, UnresolvedSpan{
			Category: u.Span.Category,
			Text:     u.Span.Text,
			Page:     u.Span.Page,
			Reason:   u.Reason,
		})
	}
	return out
}

func fillsFromPlan(doc *document.Document, plan []redact.PageRedaction) []furniture.FilledRegion {
	var fills []furniture.FilledRegion
	for _, pr := range plan {
		page := doc.Page(pr.Page)
		if page == nil {
			continue
		}
		for _, r := range pr.Rects {
			fills = append(fills, furniture.FilledRegion{Page: pr.Page, PageHeight: page.Height, Rect: r})
		}
	}
	return fills
}

// redactedPages flattens each page's text with detected spans replaced
// by the placeholder marker, split into lines for paragraph emission.
func redactedPages(doc *document.Document, spans []detector.Span) [][]string {
	perPage := make(map[int][]detector.Span)
	for _, sp := range spans {
		perPage[sp.Page] = append(perPage[sp.Page], sp)
	}

	pages := make([][]string, doc.PageCount())
	for i := 0; i < doc.PageCount(); i++ {
		page := doc.Page(i)
		if page == nil {
			pages[i] = nil
			continue
		}
		text := page.Text()
		ps := perPage[i]
		sort.Slice(ps, func(a, b int) bool { return ps[a].Start > ps[b].Start })
		for _, sp := range ps {
			if sp.Start < 0 || sp.End > len(text) || sp.Start > sp.End {
				continue
			}
			text = text[:sp.Start] + export.RedactedText + text[sp.End:]
		}
		pages[i] = strings.Split(text, "\n")
	}
	return pages
}

func footerOrDefault(footer string) string {
	if footer == "" {
		return furniture.DefaultFooter
	}
	return footer
}
