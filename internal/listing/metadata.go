// Package listing parses the code-block annotation grammar and extracts the
// per-language ordered listing collections from the tutorial documents.
//
// The annotation grammar is the wire format between authoring and tooling:
//
//	rust filename="camera.rs | Listing 42: A camera" addCargoDep="rand" genImage {3,7-9}
//
// filename carries both the export destination and the title; the title is
// the join key against the "Listing: <title>" commit message convention.
package listing

import (
	"regexp"
	"strings"
)

// Metadata is the parsed form of one code block's annotation string.
type Metadata struct {
	Language          string
	Filename          string // destination path relative to the language's source root
	Title             string
	DependencyToAdd   string
	ProducesImage     bool
	ExplicitHighlight string // authored {..} token, "" when absent
}

var (
	filenameRe = regexp.MustCompile(`filename="([^"]*)"`)
	depRe      = regexp.MustCompile(`addCargoDep="([^"]*)"`)
	genImageRe = regexp.MustCompile(`\bgenImage\b`)
	rangeRe    = regexp.MustCompile(`\{[0-9][0-9,-]*\}`)
)

// ParseMetadata parses a fence info string. The second return is false when
// the block carries no filename token: such blocks are illustrative snippets,
// not listings, and are silently skipped.
func ParseMetadata(info string) (Metadata, bool) {
	var md Metadata
	fields := strings.Fields(info)
	if len(fields) > 0 {
		md.Language = fields[0]
	}

	m := filenameRe.FindStringSubmatch(info)
	if m == nil {
		return Metadata{}, false
	}
	path, title, found := strings.Cut(m[1], " | ")
	if !found {
		return Metadata{}, false
	}
	md.Filename = strings.TrimSpace(path)
	md.Title = strings.TrimSpace(title)

	if m := depRe.FindStringSubmatch(info); m != nil {
		md.DependencyToAdd = m[1]
	}
	md.ProducesImage = genImageRe.MatchString(info)
	md.ExplicitHighlight = rangeRe.FindString(info)
	return md, true
}

// ReplaceRangeToken rewrites the {..} token of an annotation string to spec,
// leaving every other token untouched. When no token exists yet, spec is
// appended. An empty spec returns info unchanged.
func ReplaceRangeToken(info, spec string) string {
	if spec == "" {
		return info
	}
	if rangeRe.MatchString(info) {
		replaced := false
		return rangeRe.ReplaceAllStringFunc(info, func(tok string) string {
			if replaced {
				return tok
			}
			replaced = true
			return spec
		})
	}
	return info + " " + spec
}
