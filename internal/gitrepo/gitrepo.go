// Package gitrepo wraps the small slice of git porcelain the pipeline needs
// behind a Runner so the matching and range-derivation logic above it can be
// tested against an in-memory fake instead of a real repository.
package gitrepo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Runner executes one external command synchronously in dir. Run captures
// stdout; RunTo streams stdout to w (used for image generation, where program
// output is the artifact). Both fold stderr into the returned error.
type Runner interface {
	Run(ctx context.Context, dir string, argv ...string) (string, error)
	RunTo(ctx context.Context, dir string, w io.Writer, argv ...string) error
}

// ExecRunner is the os/exec-backed Runner used outside of tests.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir string, argv ...string) (string, error) {
	var out bytes.Buffer
	if err := run(ctx, dir, &out, argv); err != nil {
		return "", err
	}
	return out.String(), nil
}

func (ExecRunner) RunTo(ctx context.Context, dir string, w io.Writer, argv ...string) error {
	return run(ctx, dir, w, argv)
}

func run(ctx context.Context, dir string, stdout io.Writer, argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("empty command")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%s: %w: %s", argv[0], err, msg)
		}
		return fmt.Errorf("%s: %w", argv[0], err)
	}
	return nil
}

// LogEntry is one commit in chronological order.
type LogEntry struct {
	Hash    string
	Subject string
}

// Repo is a handle on one working directory's repository.
type Repo struct {
	Dir string
	R   Runner
}

// Init initializes a fresh repository and pins a committer identity so runs
// are reproducible on machines without global git config.
func (r *Repo) Init(ctx context.Context) error {
	for _, argv := range [][]string{
		{"git", "init", "--quiet"},
		{"git", "config", "user.name", "listing-sync"},
		{"git", "config", "user.email", "listing-sync@localhost"},
	} {
		if _, err := r.R.Run(ctx, r.Dir, argv...); err != nil {
			return err
		}
	}
	return nil
}

// CommitAll stages the whole tree and commits it with msg.
func (r *Repo) CommitAll(ctx context.Context, msg string) error {
	if _, err := r.R.Run(ctx, r.Dir, "git", "add", "-A"); err != nil {
		return err
	}
	_, err := r.R.Run(ctx, r.Dir, "git", "commit", "--quiet", "-m", msg)
	return err
}

// Log returns the full history oldest-first.
func (r *Repo) Log(ctx context.Context) ([]LogEntry, error) {
	out, err := r.R.Run(ctx, r.Dir, "git", "log", "--reverse", "--format=%H%x00%s")
	if err != nil {
		return nil, err
	}
	var entries []LogEntry
	for _, line := range strings.Split(out, "\n") {
		hash, subject, ok := strings.Cut(line, "\x00")
		if !ok {
			continue
		}
		entries = append(entries, LogEntry{Hash: hash, Subject: subject})
	}
	return entries, nil
}

// Show returns the full content of path as committed at hash.
func (r *Repo) Show(ctx context.Context, hash, path string) (string, error) {
	return r.R.Run(ctx, r.Dir, "git", "show", hash+":"+path)
}

// Patch returns the commit's diff against its parent with zero context
// lines, so every hunk header maps one-to-one onto a changed region.
func (r *Repo) Patch(ctx context.Context, hash string) (string, error) {
	return r.R.Run(ctx, r.Dir, "git", "show", "--format=", "--unified=0", hash)
}

// CloneTemplate clones the starter template into dir and strips its history,
// leaving a plain file tree ready for Init.
func CloneTemplate(ctx context.Context, runner Runner, template, dir string) error {
	if _, err := runner.Run(ctx, "", "git", "clone", "--quiet", "--depth", "1", template, dir); err != nil {
		return fmt.Errorf("cloning template %s: %w", template, err)
	}
	if err := os.RemoveAll(filepath.Join(dir, ".git")); err != nil {
		return fmt.Errorf("stripping template history: %w", err)
	}
	return nil
}
