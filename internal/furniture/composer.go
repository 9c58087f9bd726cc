// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package furniture stamps branding onto redacted documents: a header
// line, a footer line, and an optional logo image in the top-left
// corner. Stamps are applied to serialized PDF bytes with pdfcpu
// watermarks so they never mix into the rewritten content streams.
package furniture

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/rwcarlsen/goexif/exif"

	"resume-redact/internal/document"
	"resume-redact/internal/observability"
)

// DefaultFooter is stamped when no footer text is configured.
const DefaultFooter = "Recrui8.com | info@Recrui8.com | +91 922-6881-922"

// Spec describes the furniture to add. Empty fields are skipped.
type Spec struct {
	HeaderText string
	FooterText string
	Logo       []byte // PNG or JPEG bytes

	// EdgeOffset is the distance in points from the page edge to the
	// header and footer baselines.
	EdgeOffset float64
	// BandHeight is the vertical extent reserved for each furniture
	// band when checking for collisions with painted redactions.
	BandHeight float64
	FontSize   int
}

func (s Spec) withDefaults() Spec {
	if s.EdgeOffset == 0 {
		s.EdgeOffset = 30
	}
	if s.BandHeight == 0 {
		s.BandHeight = 50
	}
	if s.FontSize == 0 {
		s.FontSize = 10
	}
	return s
}

func (s Spec) empty() bool {
	return s.HeaderText == "" && s.FooterText == "" && len(s.Logo) == 0
}

// Composer applies furniture stamps and reports band collisions.
type Composer struct {
	conf     *model.Configuration
	observer *observability.Observer
}

func NewComposer(obs *observability.Observer) *Composer {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Composer{conf: conf, observer: obs}
}

// Compose stamps the given furniture onto pdfBytes and returns the new
// document bytes plus any band-collision warnings. Redaction fills that
// sit under a furniture band are reported, not moved; the stamp draws
// above them.
func (c *Composer) Compose(pdfBytes []byte, spec Spec, fills []FilledRegion) (out []byte, warnings []string, err error) {
	spec = spec.withDefaults()
	if spec.empty() {
		return pdfBytes, nil, nil
	}

	done := c.observer.StartTiming("furniture", "compose", "")
	defer func() { done(err == nil, nil) }()

	warnings = bandCollisions(spec, fills)

	var passes []*model.Watermark
	if spec.HeaderText != "" {
		wm, err := api.TextWatermark(spec.HeaderText, c.textDesc("tc", -spec.EdgeOffset, spec.FontSize), true, false, types.POINTS)
		if err != nil {
			return nil, warnings, fmt.Errorf("build header stamp: %w", err)
		}
		passes = append(passes, wm)
	}
	if spec.FooterText != "" {
		wm, err := api.TextWatermark(spec.FooterText, c.textDesc("bc", spec.EdgeOffset, spec.FontSize), true, false, types.POINTS)
		if err != nil {
			return nil, warnings, fmt.Errorf("build footer stamp: %w", err)
		}
		passes = append(passes, wm)
	}
	if len(spec.Logo) > 0 {
		wm, err := c.logoStamp(spec)
		if err != nil {
			return nil, warnings, fmt.Errorf("build logo stamp: %w", err)
		}
		passes = append(passes, wm)
	}

	out = pdfBytes
	for _, wm := range passes {
		var buf bytes.Buffer
		if err = api.AddWatermarks(bytes.NewReader(out), &buf, nil, wm, c.conf); err != nil {
			return nil, warnings, fmt.Errorf("apply stamp: %w", err)
		}
		out = buf.Bytes()
	}
	return out, warnings, nil
}

func (c *Composer) textDesc(pos string, yOff float64, points int) string {
	return fmt.Sprintf("font:Helvetica, points:%d, pos:%s, off:0 %.1f, scale:1 abs, rot:0, fillcol:#000000, op:1", points, pos, yOff)
}

// logoStamp builds the image watermark, compensating for EXIF
// orientation in JPEG logos so rotated camera exports stamp upright.
func (c *Composer) logoStamp(spec Spec) (*model.Watermark, error) {
	rot := logoRotation(spec.Logo)
	desc := fmt.Sprintf("pos:tl, off:%.1f -%.1f, scale:0.08 abs, rot:%d, op:1", spec.EdgeOffset, spec.EdgeOffset, rot)
	return api.ImageWatermarkForReader(bytes.NewReader(spec.Logo), desc, true, false, types.POINTS)
}

// logoRotation maps a JPEG EXIF orientation tag to the rotation that
// restores an upright image. Non-JPEG or tag-free images rotate 0.
func logoRotation(img []byte) int {
	x, err := exif.Decode(bytes.NewReader(img))
	if err != nil {
		return 0
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 0
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 0
	}
	switch orientation {
	case 3:
		return 180
	case 6:
		return -90
	case 8:
		return 90
	}
	return 0
}

// FilledRegion is a painted redaction rectangle on a page, used to
// detect collisions with furniture bands.
type FilledRegion struct {
	Page       int
	PageHeight float64
	Rect       document.Rect
}

func bandCollisions(spec Spec, fills []FilledRegion) []string {
	var warnings []string
	for _, f := range fills {
		headerBand := document.Rect{LLX: 0, LLY: f.PageHeight - spec.EdgeOffset - spec.BandHeight, URX: 1e6, URY: f.PageHeight}
		footerBand := document.Rect{LLX: 0, LLY: 0, URX: 1e6, URY: spec.EdgeOffset + spec.BandHeight}
		if spec.HeaderText != "" && f.Rect.Intersects(headerBand) {
			warnings = append(warnings, fmt.Sprintf("page %d: header overlaps a redacted region", f.Page+1))
		}
		if spec.FooterText != "" && f.Rect.Intersects(footerBand) {
			warnings = append(warnings, fmt.Sprintf("page %d: footer overlaps a redacted region", f.Page+1))
		}
	}
	return warnings
}
