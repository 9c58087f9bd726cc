// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package patterns

import (
	"errors"
	"testing"
)

func findTexts(t *testing.T, r *Registry, cat Category, text string) []string {
	t.Helper()
	hits, err := r.Find(cat, text)
	if err != nil {
		t.Fatalf("Find(%s) failed: %v", cat, err)
	}
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.Text)
	}
	return out
}

func TestEmailRecognizer(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"simple", "Contact jane.doe@example.com for details", []string{"jane.doe@example.com"}},
		{"plus_and_caps", "Mail JANE+hr@Example.CO.IN today", []string{"JANE+hr@Example.CO.IN"}},
		{"two_on_line", "a@b.com or c@d.org", []string{"a@b.com", "c@d.org"}},
		{"no_tld", "not an email: jane@localhost", nil},
		{"bare_at", "meet @ 5pm", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := findTexts(t, r, CategoryEmail, tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("hit %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPhoneRecognizer_Formats(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name string
		text string
		want int
	}{
		{"international", "Call +91 98765 43210 anytime", 1},
		{"international_dashes", "+1-555-123-4567", 1},
		{"us_parenthesized", "(555) 123-4567", 1},
		{"us_separated", "555-123-4567", 1},
		{"bare_ten_digit", "phone 5551234567 listed", 1},
		{"with_extension", "555-123-4567 ext. 22", 1},
		{"too_short", "call 12345", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := findTexts(t, r, CategoryPhone, tt.text)
			if len(got) != tt.want {
				t.Errorf("got %d hits %v, want %d", len(got), got, tt.want)
			}
		})
	}
}

func TestPhoneRecognizer_RejectsYears(t *testing.T) {
	r := NewRegistry()

	// Resume date lines must survive phone redaction untouched.
	tests := []string{
		"B.Tech, 2019",
		"Employed 2015-2019 at Acme",
		"2020 – 2023 Senior Engineer",
		"Graduated in 1998",
	}
	for _, text := range tests {
		if got := findTexts(t, r, CategoryPhone, text); len(got) != 0 {
			t.Errorf("%q: unexpected phone hits %v", text, got)
		}
	}
}

func TestPhoneRecognizer_Boundaries(t *testing.T) {
	r := NewRegistry()

	// Digit runs embedded in longer numeric tokens are not phones.
	if got := findTexts(t, r, CategoryPhone, "account 12345512345678901"); len(got) != 0 {
		t.Errorf("embedded digits matched: %v", got)
	}
	if got := findTexts(t, r, CategoryPhone, "value 5551234567.89"); len(got) != 0 {
		t.Errorf("decimal prefix matched: %v", got)
	}
}

func TestLinkedInRecognizer(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name string
		text string
		want int
	}{
		{"bare", "linkedin.com/in/jane-doe", 1},
		{"https_www", "see https://www.linkedin.com/in/jane_doe99/", 1},
		{"country_tld", "linkedin.in/in/jane", 1},
		{"company_page", "linkedin.com/company/acme", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := findTexts(t, r, CategoryLinkedIn, tt.text)
			if len(got) != tt.want {
				t.Errorf("got %v, want %d hits", got, tt.want)
			}
		})
	}
}

func TestPortfolioRecognizer(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name string
		text string
		want int
	}{
		{"github", "code at github.com/janedoe", 1},
		{"github_repo", "github.com/janedoe/widgets", 1},
		{"behance", "https://behance.net/janedoe", 1},
		{"dev_tld", "site: janedoe.dev", 1},
		{"portfolio_path", "see janedoe.org/portfolio/2024", 1},
		{"plain_site", "janedoe.org/about", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := findTexts(t, r, CategoryPortfolio, tt.text)
			if len(got) != tt.want {
				t.Errorf("got %v, want %d hits", got, tt.want)
			}
		})
	}
}

func TestURLRecognizer_SkipsEmailDomains(t *testing.T) {
	r := NewRegistry()

	got := findTexts(t, r, CategoryAllURLs, "mail jane@example.com or visit example.org/jobs")
	for _, g := range got {
		if g == "example.com" {
			t.Errorf("email domain leaked into all_urls: %v", got)
		}
	}
	found := false
	for _, g := range got {
		if g == "example.org/jobs" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected example.org/jobs in %v", got)
	}
}

func TestRegistry_OrderAndValidation(t *testing.T) {
	r := NewRegistry()

	order := r.Order()
	want := []Category{CategoryEmail, CategoryPhone, CategoryLinkedIn, CategoryPortfolio, CategoryAllURLs}
	if len(order) != len(want) {
		t.Fatalf("order has %d entries, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}

	if err := r.ValidateCategories([]Category{CategoryEmail, CategoryPhone}); err != nil {
		t.Errorf("valid categories rejected: %v", err)
	}
	if err := r.ValidateCategories(nil); err == nil {
		t.Error("empty category set accepted")
	}

	err := r.ValidateCategories([]Category{"ssn"})
	if err == nil {
		t.Fatal("unknown category accepted")
	}
	var unsupported *ErrUnsupportedCategory
	if !errors.As(err, &unsupported) {
		t.Errorf("want ErrUnsupportedCategory, got %T", err)
	}

	if _, err := r.Find("ssn", "text"); err == nil {
		t.Error("Find with unknown category should fail")
	}
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Jane.Doe@Example.COM", "jane.doe@example.com"},
		{"  linkedin.com/in/jane, ", "linkedin.com/in/jane"},
		{"555-123-4567.", "555-123-4567"},
	}
	for _, tt := range tests {
		if got := Canonicalize(tt.in); got != tt.want {
			t.Errorf("Canonicalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
