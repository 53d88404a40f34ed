package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"listing-sync/internal/config"
	"listing-sync/internal/diffview"
	"listing-sync/internal/docs"
	"listing-sync/internal/gitrepo"
	"listing-sync/internal/hunk"
	"listing-sync/internal/listing"
	"listing-sync/internal/textutil"
)

// Importer drives one import run: extract listings, read every language's
// commit history, cross-reference the two by title, and only when the whole
// batch is clean rewrite the documents' code blocks and highlight ranges.
type Importer struct {
	Cfg    *config.Config
	Runner gitrepo.Runner
	Out    io.Writer
}

// Run performs the import. Any integrity finding — duplicate titles, a title
// present on one side only, a filename mismatch, a multi-file listing commit
// — is reported and aborts before a single document is written: importing
// against an inconsistent pair risks corrupting the tutorial irrecoverably.
func (im *Importer) Run(ctx context.Context) error {
	files, err := docs.Enumerate(os.DirFS(im.Cfg.ContentDir))
	if err != nil {
		return fmt.Errorf("enumerating %s: %w", im.Cfg.ContentDir, err)
	}
	col, findings, err := listing.Extract(os.DirFS(im.Cfg.ContentDir), files, im.Cfg.Names())
	if err != nil {
		return err
	}

	// Repositories are independent; read them in parallel.
	var mu sync.Mutex
	commits := make(map[string][]Commit, len(im.Cfg.Languages))
	g, gctx := errgroup.WithContext(ctx)
	for _, lang := range im.Cfg.Languages {
		lang := lang
		dir := filepath.Join(im.Cfg.ExportDir, lang.Name)
		if len(col.ByLanguage[lang.Name]) == 0 {
			// Export skips languages no document mentions, so no repo
			// exists for them. A repo that is present still gets read: its
			// commits must surface as orphans, not vanish.
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				continue
			}
		}
		g.Go(func() error {
			repo := &gitrepo.Repo{Dir: dir, R: im.Runner}
			cs, fs, err := ReadListingCommits(gctx, repo)
			if err != nil {
				return fmt.Errorf("%s: %w", lang.Name, err)
			}
			mu.Lock()
			commits[lang.Name] = cs
			for _, f := range fs {
				findings = append(findings, lang.Name+": "+f)
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	byTitle := make(map[string]map[string]Commit, len(im.Cfg.Languages))
	for _, lang := range im.Cfg.Languages {
		m, fs := im.crossReference(lang, col.ByLanguage[lang.Name], commits[lang.Name])
		byTitle[lang.Name] = m
		findings = append(findings, fs...)
	}

	if len(findings) > 0 {
		for _, f := range findings {
			fmt.Fprintln(im.Out, "INTEGRITY:", f)
		}
		return fmt.Errorf("%d integrity error(s), nothing imported", len(findings))
	}

	for _, f := range files {
		if err := im.rewriteDocument(f.Path, byTitle); err != nil {
			return err
		}
	}
	return nil
}

// crossReference pairs one language's listings and commits by title. It
// returns the commit lookup map plus the batch of findings: titles on one
// side only, duplicate commit titles, and destination path disagreements.
func (im *Importer) crossReference(lang config.Language, listings []listing.Listing, commits []Commit) (map[string]Commit, []string) {
	var findings []string

	byTitle := make(map[string]Commit, len(commits))
	for _, c := range commits {
		if prev, dup := byTitle[c.Title]; dup {
			findings = append(findings, fmt.Sprintf(
				"%s: commits %s and %s share title %q",
				lang.Name, shortHash(prev.Hash), shortHash(c.Hash), c.Title))
			continue
		}
		byTitle[c.Title] = c
	}

	seen := make(map[string]struct{}, len(listings))
	for _, ls := range listings {
		seen[ls.Title] = struct{}{}
		c, ok := byTitle[ls.Title]
		if !ok {
			findings = append(findings, fmt.Sprintf(
				"%s: title %q exists in %s but has no commit", lang.Name, ls.Title, ls.Doc))
			continue
		}
		if want := path.Join(lang.SourceRoot, ls.Path); want != c.Path {
			findings = append(findings, fmt.Sprintf(
				"%s: title %q writes %s but commit %s touches %s",
				lang.Name, ls.Title, want, shortHash(c.Hash), c.Path))
		}
	}
	for _, c := range commits {
		if _, ok := seen[c.Title]; !ok {
			findings = append(findings, fmt.Sprintf(
				"%s: commit %s title %q has no listing in the documents",
				lang.Name, shortHash(c.Hash), c.Title))
		}
	}
	return byTitle, findings
}

// rewriteDocument replays the commit code and recomputed highlight ranges
// into one document, writing it back only when something changed.
func (im *Importer) rewriteDocument(relPath string, byTitle map[string]map[string]Commit) error {
	full := filepath.Join(im.Cfg.ContentDir, filepath.FromSlash(relPath))
	src, err := os.ReadFile(full)
	if err != nil {
		return err
	}
	doc := docs.ParseDocument(relPath, src)
	out, changed := doc.Map(func(i int, n docs.Node) docs.Node {
		if !n.Fence {
			return n
		}
		md, ok := listing.ParseMetadata(n.Info)
		if !ok {
			return n
		}
		c, ok := byTitle[md.Language][md.Title]
		if !ok {
			return n
		}
		if old := textutil.TrimOneTrailingLF(n.Text); old != c.Code {
			fmt.Fprintf(im.Out, "rewriting %q in %s\n", md.Title, relPath)
			fmt.Fprint(im.Out, diffview.Unified(md.Filename, textutil.EnsureTrailingLF(old), textutil.EnsureTrailingLF(c.Code)))
			n.Text = textutil.EnsureTrailingLF(c.Code)
		}
		n.Info = listing.ReplaceRangeToken(n.Info, hunk.HighlightSpec(c.Hunks, c.Code))
		return n
	})
	if !changed {
		return nil
	}
	if err := os.WriteFile(full, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", relPath, err)
	}
	fmt.Fprintf(im.Out, "updated %s\n", relPath)
	return nil
}
