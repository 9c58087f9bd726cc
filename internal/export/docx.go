// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
)

// RedactedText is the placeholder written where sensitive text was
// removed in flattened exports.
const RedactedText = "[REDACTED]"

// DocxInput is everything the DOCX builder needs: redacted page text
// split into lines, plus the furniture to render as real header and
// footer parts.
type DocxInput struct {
	Pages  [][]string
	Header string
	Footer string
	Logo   []byte
}

// DocxResult carries the package bytes and the degradations inherent
// in flattening a positioned PDF into a word-processing document.
type DocxResult struct {
	Data         []byte
	Degradations []string
}

const emuPerPoint = 12700

// WriteDocx builds a minimal WordprocessingML package: one paragraph
// per extracted line, a page break between pages, and header/footer
// parts carrying the furniture. The redacted regions arrive already
// replaced by the placeholder marker.
func WriteDocx(in DocxInput) (DocxResult, error) {
	var res DocxResult
	res.Degradations = append(res.Degradations,
		"positional layout flattened to sequential paragraphs",
		"opaque fills replaced by "+RedactedText+" markers",
		"original fonts replaced by the default document font",
	)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	hasLogo := len(in.Logo) > 0
	logoExt := ""
	if hasLogo {
		ext, err := logoExtension(in.Logo)
		if err != nil {
			hasLogo = false
			res.Degradations = append(res.Degradations, "logo omitted: "+err.Error())
		} else {
			logoExt = ext
		}
	}

	parts := []struct {
		name string
		data string
	}{
		{"[Content_Types].xml", contentTypesXML(logoExt)},
		{"_rels/.rels", rootRelsXML},
		{"word/document.xml", documentXML(in.Pages)},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/header1.xml", headerXML(in.Header, hasLogo, in.Logo)},
		{"word/footer1.xml", footerXML(in.Footer)},
	}
	if hasLogo {
		parts = append(parts, struct {
			name string
			data string
		}{"word/_rels/header1.xml.rels", headerRelsXML(logoExt)})
	}

	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return res, fmt.Errorf("write docx part %s: %w", p.name, err)
		}
		if _, err := w.Write([]byte(p.data)); err != nil {
			return res, fmt.Errorf("write docx part %s: %w", p.name, err)
		}
	}
	if hasLogo {
		w, err := zw.Create("word/media/logo." + logoExt)
		if err != nil {
			return res, fmt.Errorf("write docx logo: %w", err)
		}
		if _, err := w.Write(in.Logo); err != nil {
			return res, fmt.Errorf("write docx logo: %w", err)
		}
	}

	if err := zw.Close(); err != nil {
		return res, fmt.Errorf("finalize docx: %w", err)
	}
	res.Data = buf.Bytes()
	return res, nil
}

func logoExtension(img []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return "", fmt.Errorf("unrecognized image format")
	}
	switch format {
	case "png":
		return "png", nil
	case "jpeg":
		return "jpeg", nil
	}
	return "", fmt.Errorf("unsupported image format %q", format)
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

func contentTypesXML(logoExt string) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	sb.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	sb.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	switch logoExt {
	case "png":
		sb.WriteString(`<Default Extension="png" ContentType="image/png"/>`)
	case "jpeg":
		sb.WriteString(`<Default Extension="jpeg" ContentType="image/jpeg"/>`)
	}
	sb.WriteString(`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>`)
	sb.WriteString(`<Override PartName="/word/header1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"/>`)
	sb.WriteString(`<Override PartName="/word/footer1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"/>`)
	sb.WriteString(`</Types>`)
	return sb.String()
}

const rootRelsXML = xmlHeader +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

const documentRelsXML = xmlHeader +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/header" Target="header1.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer" Target="footer1.xml"/>` +
	`</Relationships>`

func headerRelsXML(logoExt string) string {
	return xmlHeader +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/logo.` + logoExt + `"/>` +
		`</Relationships>`
}

const wNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

func documentXML(pages [][]string) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<w:document ` + wNS + `><w:body>`)
	for i, lines := range pages {
		if i > 0 {
			sb.WriteString(`<w:p><w:r><w:br w:type="page"/></w:r></w:p>`)
		}
		for _, line := range lines {
			sb.WriteString(paragraph(line))
		}
	}
	sb.WriteString(sectPrXML)
	sb.WriteString(`</w:body></w:document>`)
	return sb.String()
}

// sectPr wires the header and footer parts and sets US Letter in
// twentieths of a point.
const sectPrXML = `<w:sectPr>` +
	`<w:headerReference w:type="default" r:id="rId1" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"/>` +
	`<w:footerReference w:type="default" r:id="rId2" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"/>` +
	`<w:pgSz w:w="12240" w:h="15840"/>` +
	`<w:pgMar w:top="720" w:bottom="720" w:left="1080" w:right="1080"/>` +
	`</w:sectPr>`

func headerXML(text string, hasLogo bool, logo []byte) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<w:hdr ` + wNS + `>`)
	if hasLogo {
		sb.WriteString(logoParagraph(logo))
	}
	if text != "" {
		sb.WriteString(centeredParagraph(text))
	}
	if !hasLogo && text == "" {
		sb.WriteString(`<w:p/>`)
	}
	sb.WriteString(`</w:hdr>`)
	return sb.String()
}

func footerXML(text string) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<w:ftr ` + wNS + `>`)
	if text != "" {
		sb.WriteString(centeredParagraph(text))
	} else {
		sb.WriteString(`<w:p/>`)
	}
	sb.WriteString(`</w:ftr>`)
	return sb.String()
}

func paragraph(text string) string {
	return `<w:p><w:r><w:t xml:space="preserve">` + escapeXML(text) + `</w:t></w:r></w:p>`
}

func centeredParagraph(text string) string {
	return `<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:t xml:space="preserve">` +
		escapeXML(text) + `</w:t></w:r></w:p>`
}

// logoParagraph emits an inline DrawingML picture sized from the image
// at 72dpi, capped to a 144pt width.
func logoParagraph(logo []byte) string {
	cx, cy := int64(72*emuPerPoint), int64(72*emuPerPoint)
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(logo)); err == nil && cfg.Width > 0 && cfg.Height > 0 {
		wPt := float64(cfg.Width)
		hPt := float64(cfg.Height)
		if wPt > 144 {
			hPt = hPt * 144 / wPt
			wPt = 144
		}
		cx = int64(wPt * emuPerPoint)
		cy = int64(hPt * emuPerPoint)
	}
	return fmt.Sprintf(`<w:p><w:r><w:drawing>`+
		`<wp:inline distT="0" distB="0" distL="0" distR="0" xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing">`+
		`<wp:extent cx="%d" cy="%d"/>`+
		`<wp:docPr id="1" name="Logo"/>`+
		`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">`+
		`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:nvPicPr><pic:cNvPr id="1" name="logo"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="rId1" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>`,
		cx, cy, cx, cy)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
