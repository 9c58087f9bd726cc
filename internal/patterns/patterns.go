// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package patterns

import (
	"fmt"
	"strings"
)

// Category identifies a class of sensitive data the engine can redact.
type Category string

const (
	CategoryEmail     Category = "email"
	CategoryPhone     Category = "phone"
	CategoryLinkedIn  Category = "linkedin"
	CategoryPortfolio Category = "portfolio"
	CategoryAllURLs   Category = "all_urls"
)

// ErrUnsupportedCategory is returned when a requested category is not
// registered. Requests carrying an unknown category fail before any
// processing begins.
type ErrUnsupportedCategory struct {
	Category string
}

func (e *ErrUnsupportedCategory) Error() string {
	return fmt.Sprintf("unsupported redaction category: %q", e.Category)
}

// Hit is a single raw recognizer match within a text slice.
type Hit struct {
	Text  string
	Start int
	End   int
}

// Recognizer finds all occurrences of one category in a text slice.
// Implementations are pure functions of their input and hold no cursor
// state between calls.
type Recognizer interface {
	Category() Category
	Find(text string) []Hit
}

// Registry is an immutable, statically constructed mapping from category
// to recognizer. Order reflects specificity: when two categories match
// overlapping offset ranges, the category listed earlier wins.
type Registry struct {
	order       []Category
	recognizers map[Category]Recognizer
}

// NewRegistry returns the default registry with all built-in recognizers.
func NewRegistry() *Registry {
	r := &Registry{recognizers: make(map[Category]Recognizer)}
	for _, rec := range []Recognizer{
		newEmailRecognizer(),
		newPhoneRecognizer(),
		newLinkedInRecognizer(),
		newPortfolioRecognizer(),
		newURLRecognizer(),
	} {
		r.order = append(r.order, rec.Category())
		r.recognizers[rec.Category()] = rec
	}
	return r
}

// Order returns the fixed detection order: email, phone, linkedin,
// portfolio, all_urls.
func (r *Registry) Order() []Category {
	out := make([]Category, len(r.order))
	copy(out, r.order)
	return out
}

// Known reports whether category is registered.
func (r *Registry) Known(c Category) bool {
	_, ok := r.recognizers[c]
	return ok
}

// Categories returns the set of registered categories in detection order.
func (r *Registry) Categories() []Category {
	return r.Order()
}

// Rank returns the specificity rank of a category (lower is more
// specific) and whether the category is registered.
func (r *Registry) Rank(c Category) (int, bool) {
	for i, cat := range r.order {
		if cat == c {
			return i, true
		}
	}
	return 0, false
}

// Find runs the recognizer for category c over text.
func (r *Registry) Find(c Category, text string) ([]Hit, error) {
	rec, ok := r.recognizers[c]
	if !ok {
		return nil, &ErrUnsupportedCategory{Category: string(c)}
	}
	return rec.Find(text), nil
}

// ValidateCategories fails fast on the first unknown or empty category.
// An empty set is rejected because a request that redacts nothing is
// always a caller mistake.
func (r *Registry) ValidateCategories(cats []Category) error {
	if len(cats) == 0 {
		return fmt.Errorf("no redaction categories requested")
	}
	for _, c := range cats {
		if !r.Known(c) {
			return &ErrUnsupportedCategory{Category: string(c)}
		}
	}
	return nil
}

// Canonicalize normalizes a matched string for deduplication: surrounding
// punctuation is trimmed and the result is lowercased.
func Canonicalize(s string) string {
	return strings.ToLower(strings.Trim(s, ".,;:!?()[]<>\"' \t"))
}
