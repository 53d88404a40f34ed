// Package diffview renders unified patches for operator-facing reports. It
// uses github.com/pmezard/go-difflib/difflib to produce classic unified
// output (---/+++ headers, @@ hunks, lines prefixed with ' ', '-', '+').
package diffview

import (
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"
)

// Unified produces a unified patch for old→new under a single display name.
// It is used when the importer rewrites a drifted code block, so the operator
// can review what changed. An empty result means the inputs are equal.
func Unified(name, old, new string) string {
	return render(name, old, new, 3)
}

// UnifiedZero produces a zero-context patch, the same shape the commit
// history reader consumes from version control. It exists so tests can build
// patch fixtures without a real repository.
func UnifiedZero(name, old, new string) string {
	return render(name, old, new, 0)
}

func render(name, old, new string, ctx int) string {
	u := difflib.UnifiedDiff{
		A:        splitKeepNL(old),
		B:        splitKeepNL(new),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  ctx,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil {
		return ""
	}
	return s
}

// splitKeepNL splits into lines keeping the trailing '\n' on each element,
// which produces stable unified hunks. Input ending in '\n' must not yield a
// phantom empty last line, or every patch grows a bogus hunk row.
func splitKeepNL(s string) []string {
	if s == "" {
		return []string{}
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
