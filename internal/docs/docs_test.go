package docs

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"
)

func TestEnumerateNaturalOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"10-dielectrics.md":  {Data: []byte("x")},
		"2-first-image.md":   {Data: []byte("x")},
		"9-metal.md":         {Data: []byte("x")},
		"1-overview.mdx":     {Data: []byte("x")},
		"notes.md":           {Data: []byte("no chapter prefix")},
		"assets/diagram.svg": {Data: []byte("not a document")},
	}
	files, err := Enumerate(fsys)
	if err != nil {
		t.Fatalf("enumerate: %v", err)
	}
	want := []string{"1-overview.mdx", "2-first-image.md", "9-metal.md", "10-dielectrics.md"}
	if len(files) != len(want) {
		t.Fatalf("got %d files, want %d: %+v", len(files), len(want), files)
	}
	for i, w := range want {
		if files[i].Path != w {
			t.Errorf("position %d: got %q, want %q", i, files[i].Path, w)
		}
	}
	if files[3].Chapter != 10 {
		t.Errorf("chapter of %q = %d, want 10", files[3].Path, files[3].Chapter)
	}
}

func TestEnumerateEmptyTree(t *testing.T) {
	files, err := Enumerate(fstest.MapFS{})
	if err != nil {
		t.Fatalf("enumerate: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected no files, got %+v", files)
	}
}

func TestNaturalLess(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"9-metal.md", "10-dielectrics.md", true},
		{"10-dielectrics.md", "9-metal.md", false},
		{"2-a.md", "2-b.md", true},
		{"02-a.md", "2-a.md", true}, // numerically equal, lexical tiebreak
		{"2-a.md", "2-a.md", false},
	}
	for _, c := range cases {
		if got := NaturalLess(c.a, c.b); got != c.want {
			t.Errorf("NaturalLess(%q, %q) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

const sampleDoc = "# Chapter\n\nSome prose.\n\n" +
	"```rust filename=\"main.rs | Listing 1: Hello\" {1-2}\n" +
	"fn main() {\n    println!(\"hi\");\n}\n" +
	"```\n\nMore prose.\n\n" +
	"```text\nnot a listing\n```\n"

func TestParseDocumentRoundTripsBytes(t *testing.T) {
	d := ParseDocument("doc.md", []byte(sampleDoc))
	if got := d.Bytes(); !bytes.Equal(got, []byte(sampleDoc)) {
		t.Fatalf("round trip changed bytes:\n%q\nvs\n%q", got, sampleDoc)
	}
}

func TestParseDocumentSplitsFences(t *testing.T) {
	d := ParseDocument("doc.md", []byte(sampleDoc))
	var fences []Node
	for _, n := range d.Nodes {
		if n.Fence {
			fences = append(fences, n)
		}
	}
	if len(fences) != 2 {
		t.Fatalf("expected 2 fences, got %d", len(fences))
	}
	if fences[0].Info != "rust filename=\"main.rs | Listing 1: Hello\" {1-2}" {
		t.Fatalf("unexpected info: %q", fences[0].Info)
	}
	if fences[0].Text != "fn main() {\n    println!(\"hi\");\n}\n" {
		t.Fatalf("unexpected body: %q", fences[0].Text)
	}
}

func TestParseDocumentNoTrailingNewline(t *testing.T) {
	src := "prose line without newline"
	d := ParseDocument("doc.md", []byte(src))
	if got := string(d.Bytes()); got != src {
		t.Fatalf("round trip changed bytes: %q", got)
	}
}

func TestParseDocumentUnterminatedFence(t *testing.T) {
	src := "intro\n```rust\nfn main() {}\n"
	d := ParseDocument("doc.md", []byte(src))
	if got := string(d.Bytes()); got != src {
		t.Fatalf("round trip changed bytes: %q", got)
	}
}

func TestMapRewritesBodyAndInfoOnly(t *testing.T) {
	d := ParseDocument("doc.md", []byte(sampleDoc))
	out, changed := d.Map(func(i int, n Node) Node {
		if n.Fence && strings.HasPrefix(n.Info, "rust") {
			n.Text = "fn main() {}\n"
			n.Info = "rust filename=\"main.rs | Listing 1: Hello\" {1}"
		}
		return n
	})
	if !changed {
		t.Fatalf("expected change flag")
	}
	got := string(out.Bytes())
	if !bytes.Contains([]byte(got), []byte("```rust filename=\"main.rs | Listing 1: Hello\" {1}\nfn main() {}\n```\n")) {
		t.Fatalf("rewritten doc missing new fence:\n%s", got)
	}
	// Untouched input document.
	if !bytes.Equal(d.Bytes(), []byte(sampleDoc)) {
		t.Fatalf("source document was mutated")
	}
}

func TestMapIdentityReportsNoChange(t *testing.T) {
	d := ParseDocument("doc.md", []byte(sampleDoc))
	_, changed := d.Map(func(i int, n Node) Node { return n })
	if changed {
		t.Fatalf("identity map reported a change")
	}
}
