// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"

	"resume-redact/internal/patterns"
)

// CategoryInfo describes one detection category for help output
type CategoryInfo struct {
	Name        patterns.Category
	Description string
	Examples    []string
}

// System renders CLI help with optional color
type System struct {
	noColor bool
	colors  map[string]*color.Color
}

// NewSystem creates a new help system
func NewSystem(noColor bool) *System {
	if noColor {
		color.NoColor = true
	}
	return &System{
		noColor: noColor,
		colors: map[string]*color.Color{
			"title":   color.New(color.FgWhite, color.Bold),
			"header":  color.New(color.FgBlue, color.Bold),
			"item":    color.New(color.FgCyan),
			"example": color.New(color.FgMagenta),
		},
	}
}

var categoryInfos = []CategoryInfo{
	{
		Name:        patterns.CategoryEmail,
		Description: "Email addresses anywhere in the document text",
		Examples:    []string{"jane.doe@example.com"},
	},
	{
		Name:        patterns.CategoryPhone,
		Description: "Phone numbers in international, US, and bare ten-digit forms; plain years and year ranges are not matched",
		Examples:    []string{"+91 98765 43210", "(555) 123-4567", "555-123-4567 ext. 22"},
	},
	{
		Name:        patterns.CategoryLinkedIn,
		Description: "LinkedIn profile URLs",
		Examples:    []string{"linkedin.com/in/jane-doe"},
	},
	{
		Name:        patterns.CategoryPortfolio,
		Description: "Portfolio and code-hosting links: GitHub, Behance, Dribbble, personal .dev/.me sites",
		Examples:    []string{"github.com/janedoe", "janedoe.dev"},
	},
	{
		Name:        patterns.CategoryAllURLs,
		Description: "Any remaining web URL not already claimed by a more specific category",
		Examples:    []string{"https://example.org/articles/1"},
	},
}

// PrintCategories lists detection categories in table form
func (s *System) PrintCategories() {
	s.colors["title"].Println("Detection categories")
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, info := range categoryInfos {
		name := string(info.Name)
		if !s.noColor {
			name = s.colors["item"].Sprint(name)
		}
		fmt.Fprintf(w, "  %s\t%s\n", name, info.Description)
	}
	w.Flush()

	fmt.Println()
	s.colors["header"].Println("Examples of matched text")
	for _, info := range categoryInfos {
		for _, ex := range info.Examples {
			fmt.Printf("  %-12s %s\n", info.Name, s.colors["example"].Sprint(ex))
		}
	}
	fmt.Println()
	fmt.Println("Categories run in the order listed; when matches overlap, the earlier category wins.")
}
