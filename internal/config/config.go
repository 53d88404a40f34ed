// Package config loads the pipeline configuration from an optional YAML file
// and fills in the compiled-in defaults, so the tool runs out of the box in a
// checkout containing content/ and templates/.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Language describes one export target's toolchain. Command slices are argv
// vectors run synchronously in the language's working directory; "{file}" in
// Format is replaced with the listing's path relative to the workdir.
type Language struct {
	Name          string   `yaml:"name"`
	SourceRoot    string   `yaml:"source_root"`
	Template      string   `yaml:"template"`
	AddDependency []string `yaml:"add_dependency,omitempty"` // argv prefix, dependency name appended
	Format        []string `yaml:"format"`
	Check         []string `yaml:"check"`
	Build         []string `yaml:"build"`
	RunSmall      []string `yaml:"run_small"`
	RunLarge      []string `yaml:"run_large"`
	ImageExt      string   `yaml:"image_ext"`
}

// Config is the full pipeline configuration.
type Config struct {
	ContentDir string     `yaml:"content_dir"`
	ExportDir  string     `yaml:"export_dir"`
	ImageDir   string     `yaml:"image_dir"`
	Languages  []Language `yaml:"languages"`
}

// Default returns the built-in configuration: a Rust and a C++ target, both
// rooted under src/, with release-mode runs writing PPM images to stdout.
func Default() *Config {
	return &Config{
		ContentDir: "content",
		ExportDir:  "export",
		ImageDir:   "images",
		Languages: []Language{
			{
				Name:          "rust",
				SourceRoot:    "src",
				Template:      "templates/rust-starter",
				AddDependency: []string{"cargo", "add"},
				Format:        []string{"cargo", "fmt"},
				Check:         []string{"cargo", "check"},
				Build:         []string{"cargo", "build", "--release"},
				RunSmall:      []string{"cargo", "run", "--release", "--quiet"},
				RunLarge:      []string{"cargo", "run", "--release", "--quiet", "--", "--large"},
				ImageExt:      ".ppm",
			},
			{
				Name:       "cpp",
				SourceRoot: "src",
				Template:   "templates/cpp-starter",
				Format:     []string{"clang-format", "-i", "{file}"},
				Check:      []string{"cmake", "--build", "build"},
				Build:      []string{"cmake", "--build", "build", "--config", "Release"},
				RunSmall:   []string{"./build/tracer"},
				RunLarge:   []string{"./build/tracer", "--large"},
				ImageExt:   ".ppm",
			},
		},
	}
}

// Load reads path and overlays it on the defaults. A missing file is not an
// error: the defaults apply unchanged. A file that names a language already
// present replaces that language's definition wholesale.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var raw Config
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if raw.ContentDir != "" {
		cfg.ContentDir = raw.ContentDir
	}
	if raw.ExportDir != "" {
		cfg.ExportDir = raw.ExportDir
	}
	if raw.ImageDir != "" {
		cfg.ImageDir = raw.ImageDir
	}
	for _, lang := range raw.Languages {
		if err := validateLanguage(lang); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
		cfg.setLanguage(lang)
	}
	return cfg, nil
}

// Language returns the definition for name, if configured.
func (c *Config) Language(name string) (Language, bool) {
	for _, l := range c.Languages {
		if l.Name == name {
			return l, true
		}
	}
	return Language{}, false
}

// Names returns the configured language names in order; this is the
// extraction allow-list.
func (c *Config) Names() []string {
	names := make([]string, len(c.Languages))
	for i, l := range c.Languages {
		names[i] = l.Name
	}
	return names
}

func (c *Config) setLanguage(lang Language) {
	for i, l := range c.Languages {
		if l.Name == lang.Name {
			c.Languages[i] = lang
			return
		}
	}
	c.Languages = append(c.Languages, lang)
}

func validateLanguage(lang Language) error {
	switch {
	case lang.Name == "":
		return fmt.Errorf("language with empty name")
	case lang.Template == "":
		return fmt.Errorf("language %s: template is required", lang.Name)
	case len(lang.Format) == 0:
		return fmt.Errorf("language %s: format command is required", lang.Name)
	}
	return nil
}
