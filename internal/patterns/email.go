// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package patterns

import "regexp"

// emailRecognizer detects email addresses. The local part and domain are
// matched loosely; the domain must contain at least one dot.
type emailRecognizer struct {
	regex *regexp.Regexp
}

func newEmailRecognizer() *emailRecognizer {
	return &emailRecognizer{
		regex: regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
	}
}

func (r *emailRecognizer) Category() Category { return CategoryEmail }

func (r *emailRecognizer) Find(text string) []Hit {
	var hits []Hit
	for _, loc := range r.regex.FindAllStringIndex(text, -1) {
		hits = append(hits, Hit{Text: text[loc[0]:loc[1]], Start: loc[0], End: loc[1]})
	}
	return hits
}
