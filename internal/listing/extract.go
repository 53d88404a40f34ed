package listing

import (
	"fmt"
	"io/fs"

	"listing-sync/internal/docs"
	"listing-sync/internal/textutil"
)

// Listing is one extracted, titled code snippet slated for export.
type Listing struct {
	Language string
	Path     string // destination path relative to the language source root
	Title    string
	Code     string // without trailing newline
	Doc      string // source document path
	Meta     Metadata
}

// Collection holds the ordered per-language listings of one extraction run.
// Order is document order, then top-to-bottom within a document; the exporter
// turns this order directly into commit order.
type Collection struct {
	Languages  []string
	ByLanguage map[string][]Listing
}

// Extract parses every document and collects listings for the allow-listed
// languages. It walks the same fence model the importer rewrites through, so
// a block that cross-references here is guaranteed to be reachable during
// rewrite. Duplicate titles within a language are returned as integrity
// findings; they are collected, not fatal here, so an operator sees all
// collisions in one pass.
func Extract(fsys fs.FS, files []docs.FileInfo, languages []string) (*Collection, []string, error) {
	col := &Collection{
		Languages:  languages,
		ByLanguage: make(map[string][]Listing, len(languages)),
	}
	allowed := make(map[string]struct{}, len(languages))
	for _, l := range languages {
		allowed[l] = struct{}{}
	}

	var findings []string
	seen := make(map[string]map[string]string) // language -> title -> first doc

	for _, f := range files {
		data, err := fs.ReadFile(fsys, f.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", f.Path, err)
		}
		for _, n := range docs.ParseDocument(f.Path, data).Nodes {
			if !n.Fence {
				continue
			}
			md, ok := ParseMetadata(n.Info)
			if !ok {
				continue
			}
			if _, ok := allowed[md.Language]; !ok {
				continue
			}
			if firstDoc, dup := seen[md.Language][md.Title]; dup {
				findings = append(findings, fmt.Sprintf(
					"duplicate title %q (%s) in %s, first seen in %s",
					md.Title, md.Language, f.Path, firstDoc))
				continue
			}
			if seen[md.Language] == nil {
				seen[md.Language] = make(map[string]string)
			}
			seen[md.Language][md.Title] = f.Path

			col.ByLanguage[md.Language] = append(col.ByLanguage[md.Language], Listing{
				Language: md.Language,
				Path:     md.Filename,
				Title:    md.Title,
				Code:     textutil.TrimOneTrailingLF(n.Text),
				Doc:      f.Path,
				Meta:     md,
			})
		}
	}
	return col, findings, nil
}
