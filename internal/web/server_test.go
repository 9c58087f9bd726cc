// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"resume-redact/internal/config"
	"resume-redact/internal/engine"
	"resume-redact/internal/patterns"
)

func TestParseCategories(t *testing.T) {
	cats, err := parseCategories("email, phone")
	if err != nil {
		t.Fatalf("parseCategories failed: %v", err)
	}
	if len(cats) != 2 || cats[0] != patterns.CategoryEmail || cats[1] != patterns.CategoryPhone {
		t.Errorf("got %v", cats)
	}

	// "all" and empty both select every category downstream.
	for _, raw := range []string{"", "all", "ALL", "  all  "} {
		cats, err := parseCategories(raw)
		if err != nil {
			t.Errorf("parseCategories(%q) failed: %v", raw, err)
		}
		if cats != nil {
			t.Errorf("parseCategories(%q) = %v, want nil", raw, cats)
		}
	}

	// Mixed case and stray commas are tolerated
	cats, err = parseCategories("LinkedIn,, portfolio ,")
	if err != nil {
		t.Fatalf("parseCategories failed: %v", err)
	}
	if len(cats) != 2 || cats[0] != patterns.CategoryLinkedIn || cats[1] != patterns.CategoryPortfolio {
		t.Errorf("got %v", cats)
	}

	if _, err := parseCategories(",,"); err == nil {
		t.Error("expected error for category list with no names")
	}
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		input  string
		format string
		want   string
	}{
		{"resume.pdf", "pdf", "resume_redacted.pdf"},
		{"resume.pdf", "docx", "resume_redacted.docx"},
		{"/tmp/uploads/jane doe.pdf", "pdf", "jane doe_redacted.pdf"},
		{"noext", "pdf", "noext_redacted.pdf"},
	}
	for _, tt := range tests {
		if got := outputName(tt.input, tt.format); got != tt.want {
			t.Errorf("outputName(%q, %q) = %q, want %q", tt.input, tt.format, got, tt.want)
		}
	}
}

func TestContentTypeFor(t *testing.T) {
	if got := contentTypeFor(engine.FormatPDF); got != "application/pdf" {
		t.Errorf("pdf content type = %q", got)
	}
	if got := contentTypeFor(engine.FormatDOCX); !strings.Contains(got, "wordprocessingml") {
		t.Errorf("docx content type = %q", got)
	}
}

func newTestServer() *WebServer {
	return NewWebServer(config.DefaultConfig(), engine.New(nil), nil)
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer()
	request := httptest.NewRequest(http.MethodGet, "/health", nil)
	recorder := httptest.NewRecorder()

	server.handleHealth(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v", body["status"])
	}
	if body["version"] == "" {
		t.Error("expected version in health response")
	}
}

func TestSupportedTypesEndpoint(t *testing.T) {
	server := newTestServer()
	request := httptest.NewRequest(http.MethodGet, "/api/supported-types", nil)
	recorder := httptest.NewRecorder()

	server.handleSupportedTypes(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	body := recorder.Body.String()
	for _, cat := range []string{"email", "phone", "linkedin", "portfolio", "all_urls"} {
		if !strings.Contains(body, cat) {
			t.Errorf("response missing category %q", cat)
		}
	}
}

func TestRedactRejectsGet(t *testing.T) {
	server := newTestServer()
	request := httptest.NewRequest(http.MethodGet, "/api/redact", nil)
	recorder := httptest.NewRecorder()

	server.handleRedact(recorder, request)

	if recorder.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", recorder.Code)
	}
}

func TestRedactRejectsMissingFile(t *testing.T) {
	server := newTestServer()
	request := httptest.NewRequest(http.MethodPost, "/api/redact", strings.NewReader(""))
	request.Header.Set("Content-Type", "multipart/form-data; boundary=empty")
	recorder := httptest.NewRecorder()

	server.handleRedact(recorder, request)

	if recorder.Code == http.StatusOK {
		t.Error("expected error status for request without a file")
	}
}
