package docs

import (
	"regexp"
	"strings"
)

// Node is one segment of a parsed document: either a verbatim prose run or a
// backtick-fenced code block. Prose keeps its exact bytes in Text; a fence
// splits into Marker (the backtick run), Info (the rest of the opening line,
// verbatim) and Text (the body lines between the fences).
type Node struct {
	Fence  bool
	Text   string
	Marker string
	Info   string

	openEOL string // newline of the opening fence line, "" at EOF
	closing string // closing fence line verbatim including its newline, "" if unterminated
}

// Document is an ordered node list parsed from one tutorial source file.
// Serializing an unmodified Document reproduces the input byte for byte.
type Document struct {
	Path  string
	Nodes []Node
}

var fenceOpenRe = regexp.MustCompile("^(`{3,})(.*)$")

// ParseDocument splits src into prose and fence nodes. Only fences starting
// at column zero are recognized; indented fences stay inside prose, which is
// all the tutorial sources use.
func ParseDocument(path string, src []byte) *Document {
	d := &Document{Path: path}
	raw := splitAfterLines(string(src))

	var prose strings.Builder
	flush := func() {
		if prose.Len() > 0 {
			d.Nodes = append(d.Nodes, Node{Text: prose.String()})
			prose.Reset()
		}
	}

	for i := 0; i < len(raw); i++ {
		line, eol := chomp(raw[i])
		m := fenceOpenRe.FindStringSubmatch(line)
		if m == nil {
			prose.WriteString(raw[i])
			continue
		}
		flush()
		n := Node{Fence: true, Marker: m[1], Info: m[2], openEOL: eol}
		var body strings.Builder
		closed := false
		for j := i + 1; j < len(raw); j++ {
			inner, _ := chomp(raw[j])
			if isFenceClose(inner, len(n.Marker)) {
				n.closing = raw[j]
				i = j
				closed = true
				break
			}
			body.WriteString(raw[j])
		}
		if !closed {
			i = len(raw)
		}
		n.Text = body.String()
		d.Nodes = append(d.Nodes, n)
	}
	flush()
	return d
}

// isFenceClose reports whether line closes a fence opened with width
// backticks: a run of at least width backticks followed by whitespace only.
func isFenceClose(line string, width int) bool {
	n := 0
	for n < len(line) && line[n] == '`' {
		n++
	}
	return n >= width && strings.TrimSpace(line[n:]) == ""
}

// Map applies fn to every node and returns a new Document plus a flag
// reporting whether any node changed. The receiver is not modified; the
// transformation is pure so concurrent walks cannot alias each other's
// rewrites.
func (d *Document) Map(fn func(i int, n Node) Node) (*Document, bool) {
	out := &Document{Path: d.Path, Nodes: make([]Node, len(d.Nodes))}
	changed := false
	for i, n := range d.Nodes {
		m := fn(i, n)
		// Structural fields are fixed; only Info and Text may be rewritten.
		m.Fence, m.Marker, m.openEOL, m.closing = n.Fence, n.Marker, n.openEOL, n.closing
		if m.Info != n.Info || m.Text != n.Text {
			changed = true
		}
		out.Nodes[i] = m
	}
	return out, changed
}

// Bytes serializes the document back to source text.
func (d *Document) Bytes() []byte {
	var b strings.Builder
	for _, n := range d.Nodes {
		if !n.Fence {
			b.WriteString(n.Text)
			continue
		}
		b.WriteString(n.Marker)
		b.WriteString(n.Info)
		b.WriteString(n.openEOL)
		b.WriteString(n.Text)
		b.WriteString(n.closing)
	}
	return []byte(b.String())
}

// splitAfterLines splits keeping each line's newline attached.
func splitAfterLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// chomp splits a raw line into content and its trailing newline.
func chomp(raw string) (line, eol string) {
	if strings.HasSuffix(raw, "\n") {
		return raw[:len(raw)-1], "\n"
	}
	return raw, ""
}
