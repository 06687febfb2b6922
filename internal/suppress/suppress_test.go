package suppress

import (
	"testing"

	"polylint/internal/diag"
	"polylint/internal/source"
)

func newFixture(t *testing.T, content string) (*source.FileSet, source.FileID) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("fixture.go", []byte(content))
	return fs, id
}

func at(fs *source.FileSet, id source.FileID, line uint32, code diag.Code) diag.Diagnostic {
	return diag.NewWarning(code, "tool", fs.SpanAt(id, line, 1), "msg")
}

func TestTrailingSuppression(t *testing.T) {
	fs, id := newFixture(t, "var x = 1 // suppress(E100,E200)\nvar y = 2\n")
	c := NewChecker(fs, nil)

	if !c.Suppressed(at(fs, id, 1, "E100")) {
		t.Error("E100 on line 1 must be suppressed")
	}
	if !c.Suppressed(at(fs, id, 1, "E200")) {
		t.Error("E200 on line 1 must be suppressed")
	}
	// Other codes on the annotated line are retained.
	if c.Suppressed(at(fs, id, 1, "E300")) {
		t.Error("E300 is not listed and must be reported")
	}
	// The annotation does not leak to other lines.
	if c.Suppressed(at(fs, id, 2, "E100")) {
		t.Error("line 2 carries no annotation")
	}
}

func TestPrecedingLineSuppression(t *testing.T) {
	fs, id := newFixture(t, "// suppress(SA4006)\nbad := compute()\nother := 1\n")
	c := NewChecker(fs, nil)

	if !c.Suppressed(at(fs, id, 2, "SA4006")) {
		t.Error("whole-line comment must suppress the line below")
	}
	if c.Suppressed(at(fs, id, 1, "SA4006")) {
		t.Error("whole-line comment does not suppress itself")
	}
	if c.Suppressed(at(fs, id, 3, "SA4006")) {
		t.Error("annotation must not reach two lines down")
	}
}

func TestIndentedCommentCountsAsWholeLine(t *testing.T) {
	fs, id := newFixture(t, "\t// suppress(ST1000)\n\tshort := 1\n")
	c := NewChecker(fs, nil)

	if !c.Suppressed(at(fs, id, 2, "ST1000")) {
		t.Error("indented whole-line comment must suppress the next line")
	}
}

func TestGlobalSuppression(t *testing.T) {
	fs, id := newFixture(t, "var x = 1\n")
	c := NewChecker(fs, diag.NewCodeSet("E501"))

	if !c.Suppressed(at(fs, id, 1, "E501")) {
		t.Error("globally suppressed code must be dropped everywhere")
	}
	if c.Suppressed(at(fs, id, 1, "E502")) {
		t.Error("other codes are unaffected by the global list")
	}
}

func TestMalformedAnnotations(t *testing.T) {
	fs, id := newFixture(t, "a := 1 // suppress(E1\nb := 2 // suppressing(E2)\nc := 3 // suppress()\n")
	c := NewChecker(fs, nil)

	if c.Suppressed(at(fs, id, 1, "E1")) {
		t.Error("unclosed annotation must be ignored")
	}
	if c.Suppressed(at(fs, id, 2, "E2")) {
		t.Error("non-annotation comment must be ignored")
	}
	if c.Suppressed(at(fs, id, 3, "E3")) {
		t.Error("empty annotation suppresses nothing")
	}
}

func TestEmptyFile(t *testing.T) {
	fs, id := newFixture(t, "")
	c := NewChecker(fs, nil)

	if c.Suppressed(at(fs, id, 1, "E1")) {
		t.Error("empty file cannot suppress anything inline")
	}
}

func TestUnknownFileIDFallsBackToGlobal(t *testing.T) {
	fs, _ := newFixture(t, "x\n")
	c := NewChecker(fs, diag.NewCodeSet("G1"))

	// A span pointing past the file set (e.g. a whole-project finding).
	d := diag.NewWarning("G1", "tool", source.Span{File: 99}, "msg")
	if !c.Suppressed(d) {
		t.Error("global list applies regardless of span validity")
	}
	d.Code = "G2"
	if c.Suppressed(d) {
		t.Error("unknown file cannot be inline-suppressed")
	}
}

func TestLineZeroNeverInlineSuppressed(t *testing.T) {
	// A trailing whole-line annotation targets the slot after the last
	// newline, which is also where out-of-range positions clamp to.
	fs, id := newFixture(t, "a := 1\n// suppress(X)\n")
	c := NewChecker(fs, nil)

	wholeFile := diag.NewWarning("X", "tool", fs.SpanAt(id, 0, 0), "whole-project finding")
	if c.Suppressed(wholeFile) {
		t.Error("line-0 finding picked up a trailing inline annotation")
	}

	past := diag.NewWarning("X", "tool", fs.SpanAt(id, 99, 0), "stale report")
	if c.Suppressed(past) {
		t.Error("out-of-range line picked up a trailing inline annotation")
	}

	// Global suppression still applies to line-0 findings.
	g := NewChecker(fs, diag.NewCodeSet("X"))
	if !g.Suppressed(diag.NewWarning("X", "tool", fs.SpanAt(id, 0, 0), "m")) {
		t.Error("globally suppressed code must be dropped regardless of position")
	}
}
