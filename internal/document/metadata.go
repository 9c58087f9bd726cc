// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"regexp"
	"strings"
)

var infoFieldRE = map[string]*regexp.Regexp{
	"Title":    regexp.MustCompile(`/Title\s*\(([^)]*)\)`),
	"Author":   regexp.MustCompile(`/Author\s*\(([^)]*)\)`),
	"Producer": regexp.MustCompile(`/Producer\s*\(([^)]*)\)`),
}

// fillInfoFields pulls title/author/producer out of the raw info
// dictionary. Best effort only: hex-encoded and UTF-16 strings are left
// blank rather than decoded, since the fields are informational.
func fillInfoFields(data []byte, meta *Metadata) {
	meta.Title = infoField(data, "Title")
	meta.Author = infoField(data, "Author")
	meta.Producer = infoField(data, "Producer")
}

func infoField(data []byte, field string) string {
	re := infoFieldRE[field]
	if re == nil {
		return ""
	}
	m := re.FindSubmatch(data)
	if m == nil {
		return ""
	}
	v := strings.TrimSpace(string(m[1]))
	if !printable(v) {
		return ""
	}
	return v
}

func printable(s string) bool {
	for _, r := range s {
		if r < 32 && r != '\t' {
			return false
		}
	}
	return true
}
