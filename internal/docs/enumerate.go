// Package docs discovers the ordered tutorial documents and models their
// fenced code blocks losslessly so the importer can rewrite a block without
// disturbing a single byte of surrounding prose.
package docs

import (
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// FileInfo is a minimal descriptor of a discovered document.
type FileInfo struct {
	Path    string // path relative to the content root, forward slashes
	Chapter int    // leading integer of the base name
}

var chapterRe = regexp.MustCompile(`^(\d+)`)

// Enumerate walks root and returns the documents whose base name carries a
// numeric chapter prefix, ordered by natural comparison of their relative
// paths (chapter "9" before "10"). An empty result is valid for an empty
// content tree.
func Enumerate(fsys fs.FS) ([]FileInfo, error) {
	var files []FileInfo
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".md" && ext != ".mdx" {
			return nil
		}
		m := chapterRe.FindStringSubmatch(filepath.Base(path))
		if m == nil {
			return nil
		}
		files = append(files, FileInfo{Path: path, Chapter: atoi(m[1])})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool {
		return NaturalLess(files[i].Path, files[j].Path)
	})
	return files, nil
}

// NaturalLess compares two paths treating runs of digits as integers, so
// "9-metal.md" sorts before "10-dielectrics.md". Naturally-equal strings fall
// back to plain lexical comparison.
func NaturalLess(a, b string) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			na, ni := digitRun(a, i)
			nb, nj := digitRun(b, j)
			if na != nb {
				return na < nb
			}
			i, j = ni, nj
			continue
		}
		if ca != cb {
			return ca < cb
		}
		i++
		j++
	}
	if len(a)-i != len(b)-j {
		return len(a)-i < len(b)-j
	}
	return a < b
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// digitRun parses the digit run starting at i and returns its value and the
// index just past it.
func digitRun(s string, i int) (int, int) {
	n := 0
	for i < len(s) && isDigit(s[i]) {
		n = n*10 + int(s[i]-'0')
		i++
	}
	return n, i
}

func atoi(s string) int {
	n, _ := digitRun(s, 0)
	return n
}
