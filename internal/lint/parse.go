package lint

import (
	"regexp"
	"strconv"
	"strings"

	"polylint/internal/diag"
)

// Finding is a parsed tool report before it is resolved against the
// file set.
type Finding struct {
	Path    string
	Line    uint32
	Col     uint32
	Code    diag.Code
	Message string
}

// locationRe matches the common "path:line[:col]: message" shape shared by
// go vet, staticcheck, revive and most Go linters.
var locationRe = regexp.MustCompile(`^(.+?):(\d+)(?::(\d+))?:\s*(.*)$`)

// codeTailRe captures a trailing "(SA4006)"-style code as emitted by
// staticcheck.
var codeTailRe = regexp.MustCompile(`\s*\(([A-Za-z][A-Za-z0-9-]*)\)$`)

// ParseLocations parses line-oriented tool output into findings. Lines the
// location pattern does not match are skipped (tools print headers,
// summaries and blank lines). defaultCode is used when no trailing code is
// present.
func ParseLocations(output string, defaultCode diag.Code) []Finding {
	var out []Finding
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		f, ok := parseLocationLine(line, defaultCode)
		if !ok {
			continue
		}
		out = append(out, f)
	}
	return out
}

func parseLocationLine(line string, defaultCode diag.Code) (Finding, bool) {
	m := locationRe.FindStringSubmatch(line)
	if m == nil {
		return Finding{}, false
	}
	lineNum, err := strconv.ParseUint(m[2], 10, 32)
	if err != nil {
		return Finding{}, false
	}
	var col uint64
	if m[3] != "" {
		col, _ = strconv.ParseUint(m[3], 10, 32)
	}

	msg := m[4]
	code := defaultCode
	if tail := codeTailRe.FindStringSubmatch(msg); tail != nil {
		code = diag.Code(tail[1])
		msg = strings.TrimSpace(strings.TrimSuffix(msg, tail[0]))
	}

	return Finding{
		Path:    m[1],
		Line:    uint32(lineNum),
		Col:     uint32(col),
		Code:    code,
		Message: msg,
	}, true
}

// ParseFileList parses output that is nothing but file paths, one per line
// (gofmt -l). Every listed path becomes a finding on line 1.
func ParseFileList(output string, code diag.Code, message string) []Finding {
	var out []Finding
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(strings.TrimRight(line, "\r"))
		if line == "" {
			continue
		}
		out = append(out, Finding{
			Path:    line,
			Line:    1,
			Code:    code,
			Message: message,
		})
	}
	return out
}
