package suppress

import (
	"strings"

	"polylint/internal/diag"
	"polylint/internal/source"
)

const marker = "suppress("

// Checker decides whether a diagnostic is suppressed, either globally by
// code or through an inline suppress(CODE1,CODE2) comment. Inline
// annotations are parsed once per file and cached.
type Checker struct {
	fs     *source.FileSet
	global diag.CodeSet
	inline map[source.FileID]map[uint32][]diag.Code
}

// NewChecker builds a Checker over the given file set. global may be nil.
func NewChecker(fs *source.FileSet, global diag.CodeSet) *Checker {
	if global == nil {
		global = diag.NewCodeSet()
	}
	return &Checker{
		fs:     fs,
		global: global,
		inline: make(map[source.FileID]map[uint32][]diag.Code),
	}
}

// Suppressed reports whether d should be dropped from the final report.
func (c *Checker) Suppressed(d diag.Diagnostic) bool {
	if c.global.Has(d.Code) {
		return true
	}
	if c.fs == nil || int(d.Primary.File) >= c.fs.Len() {
		return false
	}
	file := c.fs.Get(d.Primary.File)
	if len(file.Content) == 0 {
		// Empty file carries no annotations.
		return false
	}
	if d.Primary.Start == d.Primary.End && d.Primary.Start >= uint32(len(file.Content)) {
		// The zero-width span at EOF is the clamp for out-of-range
		// positions (line 0, whole-project checks). It must not pick up
		// a trailing whole-line annotation that happens to target the
		// slot after the last newline.
		return false
	}
	start, _ := c.fs.Resolve(d.Primary)
	codes, ok := c.lines(file)[start.Line]
	if !ok {
		return false
	}
	for _, code := range codes {
		if code == d.Code {
			return true
		}
	}
	return false
}

// lines returns the per-line suppression table for file, scanning on first use.
func (c *Checker) lines(file *source.File) map[uint32][]diag.Code {
	if table, ok := c.inline[file.ID]; ok {
		return table
	}
	table := scanFile(file)
	c.inline[file.ID] = table
	return table
}

// scanFile finds every suppress(...) annotation. A trailing comment applies
// to its own line; a comment that is the entire line applies to the line
// right below it.
func scanFile(file *source.File) map[uint32][]diag.Code {
	table := make(map[uint32][]diag.Code)
	numLines := file.NumLines()
	for line := uint32(1); line <= numLines; line++ {
		text := file.GetLine(line)
		codes, wholeLine := parseLine(text)
		if len(codes) == 0 {
			continue
		}
		target := line
		if wholeLine {
			target = line + 1
		}
		table[target] = append(table[target], codes...)
	}
	return table
}

// parseLine extracts suppressed codes from a single line and reports
// whether the line is nothing but the comment. The comment detection is
// intentionally naive about "//" inside string literals; annotations are a
// convention, not syntax.
func parseLine(text string) (codes []diag.Code, wholeLine bool) {
	idx := strings.Index(text, "//")
	if idx < 0 {
		return nil, false
	}
	comment := strings.TrimSpace(text[idx+2:])
	if !strings.HasPrefix(comment, marker) {
		return nil, false
	}
	rest := comment[len(marker):]
	end := strings.IndexByte(rest, ')')
	if end < 0 {
		return nil, false
	}
	codes = diag.ParseCodeList(rest[:end])
	wholeLine = strings.TrimSpace(text[:idx]) == ""
	return codes, wholeLine
}
