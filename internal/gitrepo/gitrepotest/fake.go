// Package gitrepotest provides an in-memory gitrepo.Runner so the export and
// import engines can be exercised without a git binary or a real repository.
// The fake understands exactly the porcelain surface gitrepo issues and
// records every non-git command it is asked to run.
package gitrepotest

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"listing-sync/internal/diffview"
)

// Commit is one fake commit: the full tree snapshot after it.
type Commit struct {
	Hash    string
	Subject string
	Files   map[string]string
}

// Fake is an in-memory Runner. Git state lives in Commits; files staged by
// "git add -A" are read from the working directory on disk, so export tests
// run against a real t.TempDir tree. Non-git commands are appended to Calls
// and succeed unless their first word appears in FailOn.
type Fake struct {
	Commits []Commit
	Calls   [][]string
	FailOn  map[string]bool
	Stdout  string // written by RunTo for non-git commands (image output)

	staged map[string]string
}

// Seed appends a commit built directly from a tree snapshot, bypassing the
// working directory. Import tests use it to fabricate history.
func (f *Fake) Seed(subject string, files map[string]string) *Fake {
	cp := make(map[string]string, len(files))
	for k, v := range files {
		cp[k] = v
	}
	f.Commits = append(f.Commits, Commit{Hash: f.nextHash(), Subject: subject, Files: cp})
	return f
}

func (f *Fake) nextHash() string {
	return fmt.Sprintf("%040d", len(f.Commits)+1)
}

func (f *Fake) head() map[string]string {
	if len(f.Commits) == 0 {
		return map[string]string{}
	}
	return f.Commits[len(f.Commits)-1].Files
}

func (f *Fake) Run(ctx context.Context, dir string, argv ...string) (string, error) {
	if len(argv) == 0 {
		return "", fmt.Errorf("empty command")
	}
	if argv[0] != "git" {
		f.Calls = append(f.Calls, argv)
		if f.FailOn[argv[0]] {
			return "", fmt.Errorf("%s: exit status 1", argv[0])
		}
		return "", nil
	}
	switch argv[1] {
	case "clone":
		target := argv[len(argv)-1]
		return "", os.MkdirAll(target, 0o755)
	case "init", "config":
		return "", nil
	case "add":
		staged, err := snapshotDir(dir)
		if err != nil {
			return "", err
		}
		f.staged = staged
		return "", nil
	case "commit":
		msg := argv[len(argv)-1]
		f.Commits = append(f.Commits, Commit{Hash: f.nextHash(), Subject: msg, Files: f.staged})
		f.staged = nil
		return "", nil
	case "log":
		var b strings.Builder
		for _, c := range f.Commits {
			fmt.Fprintf(&b, "%s\x00%s\n", c.Hash, c.Subject)
		}
		return b.String(), nil
	case "show":
		return f.show(argv)
	}
	return "", fmt.Errorf("fake git: unsupported %v", argv)
}

func (f *Fake) RunTo(ctx context.Context, dir string, w io.Writer, argv ...string) error {
	f.Calls = append(f.Calls, argv)
	if f.FailOn[argv[0]] {
		return fmt.Errorf("%s: exit status 1", argv[0])
	}
	_, err := io.WriteString(w, f.Stdout)
	return err
}

// show handles both "git show hash:path" and "git show --format= --unified=0 hash".
func (f *Fake) show(argv []string) (string, error) {
	last := argv[len(argv)-1]
	if hash, path, ok := strings.Cut(last, ":"); ok {
		c, err := f.commit(hash)
		if err != nil {
			return "", err
		}
		content, ok := c.Files[path]
		if !ok {
			return "", fmt.Errorf("path %s does not exist in %s", path, hash)
		}
		return content, nil
	}
	return f.patch(last)
}

func (f *Fake) commit(hash string) (Commit, error) {
	for _, c := range f.Commits {
		if c.Hash == hash {
			return c, nil
		}
	}
	return Commit{}, fmt.Errorf("unknown object %s", hash)
}

// patch renders the commit's zero-context diff against its parent in the
// same shape git show emits: a "diff --git" header per changed file followed
// by ---/+++ lines and @@ hunks.
func (f *Fake) patch(hash string) (string, error) {
	idx := -1
	for i, c := range f.Commits {
		if c.Hash == hash {
			idx = i
		}
	}
	if idx == -1 {
		return "", fmt.Errorf("unknown object %s", hash)
	}
	parent := map[string]string{}
	if idx > 0 {
		parent = f.Commits[idx-1].Files
	}
	cur := f.Commits[idx].Files

	paths := map[string]struct{}{}
	for p := range parent {
		paths[p] = struct{}{}
	}
	for p := range cur {
		paths[p] = struct{}{}
	}
	ordered := make([]string, 0, len(paths))
	for p := range paths {
		ordered = append(ordered, p)
	}
	sort.Strings(ordered)

	var b strings.Builder
	for _, p := range ordered {
		old, new := parent[p], cur[p]
		if old == new {
			continue
		}
		fmt.Fprintf(&b, "diff --git a/%s b/%s\n", p, p)
		b.WriteString(diffview.UnifiedZero(p, old, new))
	}
	return b.String(), nil
}

func snapshotDir(dir string) (map[string]string, error) {
	files := map[string]string{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
