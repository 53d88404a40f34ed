package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ContentDir != "content" || cfg.ExportDir != "export" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	names := cfg.Names()
	if len(names) != 2 || names[0] != "rust" || names[1] != "cpp" {
		t.Fatalf("unexpected languages: %v", names)
	}
	rust, ok := cfg.Language("rust")
	if !ok || len(rust.AddDependency) == 0 {
		t.Fatalf("rust language incomplete: %+v", rust)
	}
	cpp, ok := cfg.Language("cpp")
	if !ok || cpp.AddDependency != nil {
		t.Fatalf("cpp must not support dependency adds: %+v", cpp)
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listing-sync.yaml")
	body := `
content_dir: book
languages:
  - name: rust
    source_root: src
    template: starters/rust
    format: [cargo, fmt]
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ContentDir != "book" {
		t.Fatalf("content_dir not overridden: %q", cfg.ContentDir)
	}
	if cfg.ExportDir != "export" {
		t.Fatalf("unset field lost its default: %q", cfg.ExportDir)
	}
	rust, _ := cfg.Language("rust")
	if rust.Template != "starters/rust" {
		t.Fatalf("rust not replaced: %+v", rust)
	}
	if _, ok := cfg.Language("cpp"); !ok {
		t.Fatalf("untouched language dropped")
	}
}

func TestLoadRejectsIncompleteLanguage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listing-sync.yaml")
	body := "languages:\n  - name: zig\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error")
	}
}
