// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package export serializes redacted documents to their output
// formats: native PDF preserving layout, or a flattened DOCX.
package export

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"resume-redact/internal/document"
)

// WritePDF serializes the document's modified context to PDF bytes.
// When scrubMetadata is set, the info dictionary and XMP metadata
// stream are dropped so author and tool traces do not survive the
// redaction pass.
func WritePDF(doc *document.Document, scrubMetadata bool) ([]byte, error) {
	ctx := doc.Context()
	if ctx == nil {
		return nil, fmt.Errorf("write pdf: document has no context")
	}

	if scrubMetadata {
		ctx.Info = nil
		if catalog, err := ctx.Catalog(); err == nil && catalog != nil {
			delete(catalog, "Metadata")
		}
	}

	var buf bytes.Buffer
	if err := api.WriteContext(ctx, &buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
