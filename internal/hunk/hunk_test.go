package hunk

import (
	"strings"
	"testing"
)

func TestParseHeaderDefaultsOmittedCounts(t *testing.T) {
	h, ok := ParseHeader("@@ -5 +7 @@")
	if !ok {
		t.Fatalf("header not recognized")
	}
	if h != (Hunk{OldStart: 5, OldCount: 1, NewStart: 7, NewCount: 1}) {
		t.Fatalf("unexpected hunk: %+v", h)
	}
}

func TestParseHeaderExplicitCounts(t *testing.T) {
	h, ok := ParseHeader("@@ -10,0 +11,3 @@ fn main()")
	if !ok {
		t.Fatalf("header not recognized")
	}
	if h != (Hunk{OldStart: 10, OldCount: 0, NewStart: 11, NewCount: 3}) {
		t.Fatalf("unexpected hunk: %+v", h)
	}
}

func TestParseHeaderRejectsNonHeaders(t *testing.T) {
	for _, line := range []string{"+++ b/src/main.rs", " context", "@@ garbage @@", ""} {
		if _, ok := ParseHeader(line); ok {
			t.Errorf("line %q parsed as header", line)
		}
	}
}

func TestParseAllKeepsOrder(t *testing.T) {
	patch := "--- a/f\n+++ b/f\n@@ -1,0 +2,1 @@\n+x\n@@ -8,0 +9,2 @@\n+y\n+z\n"
	hunks := ParseAll(patch)
	if len(hunks) != 2 || hunks[0].NewStart != 2 || hunks[1].NewStart != 9 {
		t.Fatalf("unexpected hunks: %+v", hunks)
	}
}

// denseContent returns n non-blank lines so no blank-line shift can trigger.
func denseContent(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = "line"
	}
	return strings.Join(lines, "\n")
}

func TestHighlightSpecMultiLineHunk(t *testing.T) {
	spec := HighlightSpec([]Hunk{{OldStart: 10, OldCount: 0, NewStart: 11, NewCount: 3}}, denseContent(20))
	if spec != "{11-13}" {
		t.Fatalf("got %q, want {11-13}", spec)
	}
}

func TestHighlightSpecSingleLineHunk(t *testing.T) {
	spec := HighlightSpec([]Hunk{{OldStart: 5, OldCount: 1, NewStart: 5, NewCount: 1}}, denseContent(10))
	if spec != "{5}" {
		t.Fatalf("got %q, want {5}", spec)
	}
}

func TestHighlightSpecJoinsHunks(t *testing.T) {
	hunks := []Hunk{
		{OldStart: 1, OldCount: 0, NewStart: 2, NewCount: 1},
		{OldStart: 8, OldCount: 0, NewStart: 9, NewCount: 2},
	}
	spec := HighlightSpec(hunks, denseContent(12))
	if spec != "{2,9-10}" {
		t.Fatalf("got %q, want {2,9-10}", spec)
	}
}

func TestHighlightSpecBlankLineShift(t *testing.T) {
	// Lines 10 and 11 blank, line 15 non-blank: range 11-14 shifts to 10-13.
	lines := make([]string, 16)
	for i := range lines {
		lines[i] = "code"
	}
	lines[9] = ""
	lines[10] = ""
	content := strings.Join(lines, "\n")

	spec := HighlightSpec([]Hunk{{OldStart: 10, OldCount: 0, NewStart: 11, NewCount: 4}}, content)
	if spec != "{10-13}" {
		t.Fatalf("got %q, want {10-13}", spec)
	}
}

func TestHighlightSpecNoShiftWhenPrecedingLineNotBlank(t *testing.T) {
	lines := make([]string, 16)
	for i := range lines {
		lines[i] = "code"
	}
	lines[10] = "" // line 11 blank, but line 10 is not
	content := strings.Join(lines, "\n")

	spec := HighlightSpec([]Hunk{{OldStart: 10, OldCount: 0, NewStart: 11, NewCount: 4}}, content)
	if spec != "{11-14}" {
		t.Fatalf("got %q, want {11-14}", spec)
	}
}

func TestHighlightSpecShiftOnTrailingBlank(t *testing.T) {
	// Line before start blank and line after end blank: shift applies.
	lines := make([]string, 16)
	for i := range lines {
		lines[i] = "code"
	}
	lines[9] = ""  // line 10, before start 11
	lines[14] = "" // line 15, after end 14
	content := strings.Join(lines, "\n")

	spec := HighlightSpec([]Hunk{{OldStart: 10, OldCount: 0, NewStart: 11, NewCount: 4}}, content)
	if spec != "{10-13}" {
		t.Fatalf("got %q, want {10-13}", spec)
	}
}

func TestHighlightSpecNeverShiftsRangeStartingAtLineOne(t *testing.T) {
	content := "\n\ncode\ncode"
	spec := HighlightSpec([]Hunk{{OldStart: 1, OldCount: 0, NewStart: 1, NewCount: 2}}, content)
	if spec != "{1-2}" {
		t.Fatalf("got %q, want {1-2}", spec)
	}
}

func TestHighlightSpecPureDeletionContributesNothing(t *testing.T) {
	hunks := []Hunk{
		{OldStart: 1, OldCount: 2, NewStart: 0, NewCount: 0}, // deletion at file start
		{OldStart: 9, OldCount: 1, NewStart: 7, NewCount: 0},
	}
	if spec := HighlightSpec(hunks, denseContent(10)); spec != "" {
		t.Fatalf("pure deletions must render nothing, got %q", spec)
	}
}
