package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("main.go", []byte("package main\n"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	latestID, exists := fs.GetLatest("main.go")
	if !exists {
		t.Error("Expected file to exist after Add")
	}
	if latestID != id1 {
		t.Errorf("Expected latest ID to be %d, got %d", id1, latestID)
	}

	// Same path again gets a fresh ID; the index follows the newest version.
	id2 := fs.Add("main.go", []byte("package main\n\nfunc main() {}\n"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	latestID, exists = fs.GetLatest("main.go")
	if !exists {
		t.Error("Expected file to exist after second Add")
	}
	if latestID != id2 {
		t.Errorf("Expected latest ID to be %d, got %d", id2, latestID)
	}

	file1 := fs.Get(id1)
	if string(file1.Content) != "package main\n" {
		t.Errorf("Expected first file content to survive, got %q", string(file1.Content))
	}

	if file1.Path != "main.go" || fs.Get(id2).Path != "main.go" {
		t.Error("Expected both files to have the same path")
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()

	id := fs.AddVirtual("a.go", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3} // offsets of each \n
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}

	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}

	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
}

func TestLoadNormalizesCRLFAndBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.go")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFpackage a\r\n\r\nvar x = 1\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	file := fs.Get(id)
	if string(file.Content) != "package a\n\nvar x = 1\n" {
		t.Errorf("unexpected normalized content: %q", string(file.Content))
	}
	if file.Flags&FileHadBOM == 0 {
		t.Error("Expected FileHadBOM flag")
	}
	if file.Flags&FileNormalizedCRLF == 0 {
		t.Error("Expected FileNormalizedCRLF flag")
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("lines.go", []byte("first\nsecond\nthird"))
	file := fs.Get(id)

	cases := []struct {
		line uint32
		want string
	}{
		{0, ""},
		{1, "first"},
		{2, "second"},
		{3, "third"},
		{4, ""},
	}
	for _, tc := range cases {
		if got := file.GetLine(tc.line); got != tc.want {
			t.Errorf("GetLine(%d) = %q, want %q", tc.line, got, tc.want)
		}
	}

	if n := file.NumLines(); n != 3 {
		t.Errorf("NumLines() = %d, want 3", n)
	}
}

func TestSpanAt(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("pos.go", []byte("abc\ndefgh\n"))

	// Whole second line.
	sp := fs.SpanAt(id, 2, 0)
	if sp.Start != 4 || sp.End != 9 {
		t.Errorf("SpanAt(2,0) = [%d,%d), want [4,9)", sp.Start, sp.End)
	}

	// Column offsets into the line.
	sp = fs.SpanAt(id, 2, 3)
	if sp.Start != 6 || sp.End != 9 {
		t.Errorf("SpanAt(2,3) = [%d,%d), want [6,9)", sp.Start, sp.End)
	}

	// Out-of-range line clamps to end of file.
	sp = fs.SpanAt(id, 99, 1)
	if !sp.Empty() {
		t.Errorf("SpanAt(99,1) should be empty, got [%d,%d)", sp.Start, sp.End)
	}

	start, _ := fs.Resolve(fs.SpanAt(id, 2, 3))
	if start.Line != 2 || start.Col != 3 {
		t.Errorf("Resolve round-trip = %d:%d, want 2:3", start.Line, start.Col)
	}
}

func TestCRLFNormalization(t *testing.T) {
	original := []byte("a\r\nb\r\n")
	normalized, changed := normalizeCRLF(original)

	if !changed {
		t.Error("Expected CRLF normalization to be detected")
	}

	if string(normalized) != "a\nb\n" {
		t.Errorf("Expected normalized content %q, got %q", "a\nb\n", string(normalized))
	}

	// Lone \r stays.
	normalized, changed = normalizeCRLF([]byte("a\rb"))
	if changed {
		t.Error("lone \\r must not count as a change")
	}
	if string(normalized) != "a\rb" {
		t.Errorf("lone \\r must survive, got %q", string(normalized))
	}
}
