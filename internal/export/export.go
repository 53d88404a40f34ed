// Package export replays the extracted listing collections into fresh
// per-language repositories, one commit per listing, in document order.
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"listing-sync/internal/config"
	"listing-sync/internal/docs"
	"listing-sync/internal/gitrepo"
	"listing-sync/internal/listing"
	"listing-sync/internal/textutil"
)

// ImageKind selects whether flagged listings render preview images, and at
// which resolution.
type ImageKind int

const (
	ImagesNone ImageKind = iota
	ImagesSmall
	ImagesLarge
)

// Exporter drives one export run. Languages are independent and run in
// parallel; everything within a language is strictly ordered because each
// step mutates the language's working directory and history.
type Exporter struct {
	Cfg    *config.Config
	Runner gitrepo.Runner
	Out    io.Writer

	Check  bool
	Images ImageKind
}

// Run extracts the listing collections and exports every language that has
// one. Duplicate titles abort before any repository work: a broken join key
// would silently corrupt a later import.
func (e *Exporter) Run(ctx context.Context) error {
	files, err := docs.Enumerate(os.DirFS(e.Cfg.ContentDir))
	if err != nil {
		return fmt.Errorf("enumerating %s: %w", e.Cfg.ContentDir, err)
	}
	col, findings, err := listing.Extract(os.DirFS(e.Cfg.ContentDir), files, e.Cfg.Names())
	if err != nil {
		return err
	}
	if len(findings) > 0 {
		for _, f := range findings {
			fmt.Fprintln(e.Out, "INTEGRITY:", f)
		}
		return fmt.Errorf("%d integrity error(s), nothing exported", len(findings))
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, lang := range e.Cfg.Languages {
		listings := col.ByLanguage[lang.Name]
		if len(listings) == 0 {
			continue
		}
		lang := lang
		g.Go(func() error {
			if err := e.exportLanguage(ctx, lang, listings); err != nil {
				return fmt.Errorf("%s: %w", lang.Name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (e *Exporter) exportLanguage(ctx context.Context, lang config.Language, listings []listing.Listing) error {
	workdir := filepath.Join(e.Cfg.ExportDir, lang.Name)
	// The workdir is disposable; every run regenerates it from scratch.
	if err := os.RemoveAll(workdir); err != nil {
		return err
	}
	if err := os.MkdirAll(e.Cfg.ExportDir, 0o755); err != nil {
		return err
	}
	if err := gitrepo.CloneTemplate(ctx, e.Runner, lang.Template, workdir); err != nil {
		return err
	}
	repo := &gitrepo.Repo{Dir: workdir, R: e.Runner}
	if err := repo.Init(ctx); err != nil {
		return err
	}
	if err := repo.CommitAll(ctx, "Initial template"); err != nil {
		return err
	}

	images := 0
	for i, ls := range listings {
		fmt.Fprintf(e.Out, "[%s] %02d/%02d Listing: %s\n", lang.Name, i+1, len(listings), ls.Title)
		if err := e.applyListing(ctx, lang, repo, ls, &images); err != nil {
			return fmt.Errorf("listing %q: %w", ls.Title, err)
		}
	}
	fmt.Fprintf(e.Out, "[%s] exported %d listings to %s (images=%d)\n", lang.Name, len(listings), workdir, images)
	return nil
}

func (e *Exporter) applyListing(ctx context.Context, lang config.Language, repo *gitrepo.Repo, ls listing.Listing, images *int) error {
	if dep := ls.Meta.DependencyToAdd; dep != "" {
		if len(lang.AddDependency) == 0 {
			return fmt.Errorf("language %s has no dependency-add command for %q", lang.Name, dep)
		}
		if _, err := e.Runner.Run(ctx, repo.Dir, append(lang.AddDependency, dep)...); err != nil {
			return err
		}
		// Dependency changes get their own commit so they stay separately
		// reviewable from code changes.
		if err := repo.CommitAll(ctx, "Add dependency "+dep); err != nil {
			return err
		}
	}

	rel := path.Join(lang.SourceRoot, ls.Path)
	dst := filepath.Join(repo.Dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(dst, []byte(textutil.EnsureTrailingLF(ls.Code)), 0o644); err != nil {
		return err
	}
	if _, err := e.Runner.Run(ctx, repo.Dir, formatArgs(lang.Format, rel)...); err != nil {
		return err
	}
	if err := repo.CommitAll(ctx, "Listing: "+ls.Title); err != nil {
		return err
	}
	if e.Check && len(lang.Check) > 0 {
		if _, err := e.Runner.Run(ctx, repo.Dir, lang.Check...); err != nil {
			return err
		}
	}
	if e.Images != ImagesNone && ls.Meta.ProducesImage {
		if err := e.generateImage(ctx, lang, repo, ls, *images+1); err != nil {
			return err
		}
		*images++
	}
	return nil
}

// generateImage builds the project in release mode, runs it and captures
// stdout as the listing's preview image.
func (e *Exporter) generateImage(ctx context.Context, lang config.Language, repo *gitrepo.Repo, ls listing.Listing, seq int) error {
	if _, err := e.Runner.Run(ctx, repo.Dir, lang.Build...); err != nil {
		return err
	}
	imgDir := filepath.Join(e.Cfg.ImageDir, lang.Name)
	if err := os.MkdirAll(imgDir, 0o755); err != nil {
		return err
	}
	name := fmt.Sprintf("%02d-%s%s", seq, Slug(ls.Title), lang.ImageExt)
	out, err := os.Create(filepath.Join(imgDir, name))
	if err != nil {
		return err
	}
	argv := lang.RunSmall
	if e.Images == ImagesLarge {
		argv = lang.RunLarge
	}
	if err := e.Runner.RunTo(ctx, repo.Dir, out, argv...); err != nil {
		out.Close()
		os.Remove(out.Name())
		return err
	}
	return out.Close()
}

// formatArgs substitutes the {file} placeholder with the listing's path
// relative to the working directory.
func formatArgs(argv []string, rel string) []string {
	out := make([]string, len(argv))
	for i, a := range argv {
		if a == "{file}" {
			a = rel
		}
		out[i] = a
	}
	return out
}

// Slug derives a filesystem-safe identifier from a listing title: lowercase
// alphanumerics with runs of anything else collapsed to single dashes.
func Slug(title string) string {
	out := make([]rune, 0, len(title))
	dash := false
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			out = append(out, r)
			dash = false
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
			dash = false
		default:
			if !dash && len(out) > 0 {
				out = append(out, '-')
			}
			dash = true
		}
	}
	for len(out) > 0 && out[len(out)-1] == '-' {
		out = out[:len(out)-1]
	}
	return string(out)
}
