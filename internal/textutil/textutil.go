// Package textutil holds the newline conventions shared by the export and
// import directions: exported listing files end with exactly one newline, and
// content read back out of a repository has exactly one trailing newline
// trimmed before comparison.
package textutil

import (
	"bytes"
	"strings"
)

// NormalizeLF converts CRLF and bare CR to LF and replaces invalid UTF-8
// sequences with the Unicode replacement character.
func NormalizeLF(b []byte) []byte {
	b = bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
	b = bytes.ReplaceAll(b, []byte("\r"), []byte("\n"))
	return bytes.ToValidUTF8(b, []byte("�"))
}

// EnsureTrailingLF appends a single '\n' if s does not already end with one.
func EnsureTrailingLF(s string) string {
	if s == "" || s[len(s)-1] == '\n' {
		return s
	}
	return s + "\n"
}

// TrimOneTrailingLF removes exactly one trailing '\n' if present. A file that
// legitimately ends with a blank line keeps its remaining newlines.
func TrimOneTrailingLF(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s[:len(s)-1]
	}
	return s
}

// Lines splits s into lines without newline characters.
func Lines(s string) []string {
	return strings.Split(s, "\n")
}

// IsBlank reports whether the 1-based line n of lines is empty or whitespace
// only. Out-of-range lines are not blank, which keeps range arithmetic from
// walking past either end of a file.
func IsBlank(lines []string, n int) bool {
	if n < 1 || n > len(lines) {
		return false
	}
	return strings.TrimSpace(lines[n-1]) == ""
}
