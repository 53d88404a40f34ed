// Package hunk models unified-diff change regions and derives the bracketed
// highlight-range annotation (e.g. {3,7-9,12}) the documentation renderer
// uses to emphasize changed lines of a displayed listing.
package hunk

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"listing-sync/internal/textutil"
)

// Hunk is one contiguous change region from a unified diff: the old-file and
// new-file line spans from an "@@ -old +new @@" header.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
}

var headerRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// ParseHeader parses a single "@@ -l[,n] +l[,n] @@" header line. Omitted
// counts default to 1 per the unified-diff convention.
func ParseHeader(line string) (Hunk, bool) {
	m := headerRe.FindStringSubmatch(line)
	if m == nil {
		return Hunk{}, false
	}
	h := Hunk{
		OldStart: atoiDefault(m[1], 0),
		OldCount: atoiDefault(m[2], 1),
		NewStart: atoiDefault(m[3], 0),
		NewCount: atoiDefault(m[4], 1),
	}
	return h, true
}

// ParseAll extracts every hunk header from a patch body, in order.
func ParseAll(patch string) []Hunk {
	var hunks []Hunk
	for _, line := range strings.Split(patch, "\n") {
		if h, ok := ParseHeader(line); ok {
			hunks = append(hunks, h)
		}
	}
	return hunks
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// HighlightSpec renders a {..} annotation from hunks against the new file
// content. Pure deletions (NewCount == 0) contribute nothing. A single-line
// hunk renders its bare line number; a multi-line hunk renders "start-end",
// shifted back by one line when the shift lands the range on blank-line
// boundaries (the rendered diff reads better with a leading blank line than
// a trailing one). Returns "" when no hunk added lines.
func HighlightSpec(hunks []Hunk, newContent string) string {
	lines := textutil.Lines(newContent)
	var parts []string
	for _, h := range hunks {
		if h.NewCount <= 0 {
			continue
		}
		if h.NewCount == 1 {
			parts = append(parts, strconv.Itoa(h.NewStart))
			continue
		}
		start := h.NewStart
		end := h.NewStart + h.NewCount - 1
		if start > 1 && textutil.IsBlank(lines, start-1) &&
			(textutil.IsBlank(lines, start) || textutil.IsBlank(lines, end+1)) {
			start--
			end--
		}
		parts = append(parts, fmt.Sprintf("%d-%d", start, end))
	}
	if len(parts) == 0 {
		return ""
	}
	return "{" + strings.Join(parts, ",") + "}"
}
