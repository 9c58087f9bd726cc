// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package document owns the in-memory representation of one PDF for the
// duration of a single pipeline run: the pdfcpu structural context used
// for mutation and serialization, and a per-page text-layout index built
// from ledongthuc/pdf glyph geometry.
package document

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"resume-redact/internal/security"
)

var (
	// ErrInvalidDocument marks input bytes that cannot be parsed as a PDF.
	ErrInvalidDocument = errors.New("invalid PDF document")
	// ErrEncryptedDocument marks a document that requires a password.
	ErrEncryptedDocument = errors.New("encrypted PDF document")
)

// Metadata is the document-level information observed at load time.
type Metadata struct {
	PageCount int
	Encrypted bool
	Title     string
	Author    string
	Producer  string
}

// Document is an exclusively-owned, mutable PDF passed linearly through
// the redaction pipeline. No component retains a reference after the
// pipeline returns.
type Document struct {
	raw   []byte
	ctx   *model.Context
	pages []*Page
	meta  Metadata
}

// Load parses input bytes into a Document. Parse failures surface as
// ErrInvalidDocument, or ErrEncryptedDocument when the file carries an
// encryption dictionary the parsers cannot get past.
func Load(data []byte) (*Document, error) {
	if len(data) < 8 || !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, fmt.Errorf("%w: missing PDF header", ErrInvalidDocument)
	}

	encrypted := hasEncryptDict(data)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		if encrypted {
			return nil, fmt.Errorf("%w: %v", ErrEncryptedDocument, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		if encrypted {
			return nil, fmt.Errorf("%w: %v", ErrEncryptedDocument, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	doc := &Document{
		raw: data,
		ctx: ctx,
		meta: Metadata{
			PageCount: ctx.PageCount,
			Encrypted: encrypted,
		},
	}
	fillInfoFields(data, &doc.meta)

	doc.pages = make([]*Page, ctx.PageCount)
	for i := 0; i < ctx.PageCount; i++ {
		w, h := doc.pageDims(i + 1)
		doc.pages[i] = &Page{
			index:  i,
			Width:  w,
			Height: h,
			source: reader,
		}
	}

	return doc, nil
}

// Context returns the mutable pdfcpu context.
func (d *Document) Context() *model.Context { return d.ctx }

// Meta returns the metadata observed at load time.
func (d *Document) Meta() Metadata { return d.meta }

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return len(d.pages) }

// Page returns the page at 0-based index i, or nil when i is out of
// range.
func (d *Document) Page(i int) *Page {
	if i < 0 || i >= len(d.pages) {
		return nil
	}
	return d.pages[i]
}

// Release scrubs the input bytes and drops all references held by the
// document. The document owns its input, so the slice passed to Load is
// zeroed too. The document must not be used afterwards.
func (d *Document) Release() {
	security.Zero(d.raw)
	d.raw = nil
	d.ctx = nil
	for _, p := range d.pages {
		if p != nil {
			p.release()
		}
	}
	d.pages = nil
}

// pageDims reads the media box of a 1-based page, falling back to US
// Letter when the page tree is damaged.
func (d *Document) pageDims(pageNr int) (float64, float64) {
	const letterW, letterH = 612.0, 792.0

	_, _, attrs, err := d.ctx.PageDict(pageNr, false)
	if err != nil || attrs == nil || attrs.MediaBox == nil {
		return letterW, letterH
	}
	return attrs.MediaBox.Width(), attrs.MediaBox.Height()
}

// hasEncryptDict scans the raw bytes for an encryption dictionary
// reference in a trailer. Raw scanning keeps the check independent of
// whether the parsers can decrypt with an empty user password.
func hasEncryptDict(data []byte) bool {
	idx := bytes.LastIndex(data, []byte("trailer"))
	region := data
	if idx >= 0 {
		region = data[idx:]
	}
	return bytes.Contains(region, []byte("/Encrypt"))
}
