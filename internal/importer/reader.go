// Package importer reads listing commits back out of the exported
// repositories and rewrites the tutorial documents to match: the repositories
// are the ground truth for code, the documents a derived, rewritable view.
package importer

import (
	"context"
	"fmt"
	"strings"

	"listing-sync/internal/gitrepo"
	"listing-sync/internal/hunk"
	"listing-sync/internal/textutil"
)

// SubjectPrefix is the commit-message convention joining commits to
// listings. Commits without it (the template commit, dependency adds) are
// excluded from correlation.
const SubjectPrefix = "Listing: "

// Commit is one listing commit: the single file it touched, its zero-context
// hunks and the full post-commit file content.
type Commit struct {
	Hash  string
	Title string
	Path  string
	Hunks []hunk.Hunk
	Code  string // one trailing newline trimmed, matching the exporter convention
}

// ReadListingCommits walks repo's history oldest-first and returns the
// commits matching the listing convention, plus integrity findings for
// commits that touch more than one file. Such commits are reported and
// excluded rather than resolved by picking a file.
func ReadListingCommits(ctx context.Context, repo *gitrepo.Repo) ([]Commit, []string, error) {
	entries, err := repo.Log(ctx)
	if err != nil {
		return nil, nil, err
	}
	var commits []Commit
	var findings []string
	for _, e := range entries {
		title, ok := strings.CutPrefix(e.Subject, SubjectPrefix)
		if !ok {
			continue
		}
		patch, err := repo.Patch(ctx, e.Hash)
		if err != nil {
			return nil, nil, fmt.Errorf("reading patch of %s: %w", e.Hash, err)
		}
		paths := changedPaths(patch)
		if len(paths) != 1 {
			findings = append(findings, fmt.Sprintf(
				"commit %s (%q) touches %d files %v, expected exactly one",
				shortHash(e.Hash), title, len(paths), paths))
			continue
		}
		code, err := repo.Show(ctx, e.Hash, paths[0])
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s at %s: %w", paths[0], e.Hash, err)
		}
		commits = append(commits, Commit{
			Hash:  e.Hash,
			Title: title,
			Path:  paths[0],
			Hunks: hunk.ParseAll(patch),
			Code:  textutil.TrimOneTrailingLF(code),
		})
	}
	return commits, findings, nil
}

// changedPaths extracts the changed file paths from a patch's
// "diff --git a/<path> b/<path>" headers, in order.
func changedPaths(patch string) []string {
	var paths []string
	for _, line := range strings.Split(patch, "\n") {
		rest, ok := strings.CutPrefix(line, "diff --git a/")
		if !ok {
			continue
		}
		if i := strings.LastIndex(rest, " b/"); i >= 0 {
			paths = append(paths, rest[i+len(" b/"):])
		}
	}
	return paths
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}
