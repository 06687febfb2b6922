package diag

import "strings"

// Code identifies a diagnostic class. Codes are opaque strings because they
// come from foreign tools ("SA4006", "ST1000", "unused-variable", ...);
// the runner only ever compares and prints them.
type Code string

// Runner-owned codes, used when the aggregator itself has something to say.
const (
	// CodeIOError marks a file that could not be loaded.
	CodeIOError Code = "io-error"
	// CodeToolFailure marks a linter invocation that did not complete.
	CodeToolFailure Code = "tool-failure"
	// CodeUnparsedOutput marks tool output the line parser could not place.
	CodeUnparsedOutput Code = "unparsed-output"
)

func (c Code) String() string {
	return string(c)
}

// ParseCodeList splits a comma-separated code list, dropping empty entries.
func ParseCodeList(list string) []Code {
	parts := strings.Split(list, ",")
	out := make([]Code, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, Code(p))
		}
	}
	return out
}

// CodeSet is a membership set of diagnostic codes.
type CodeSet map[Code]struct{}

// NewCodeSet builds a CodeSet from the given codes.
func NewCodeSet(codes ...Code) CodeSet {
	s := make(CodeSet, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

// Add inserts a code into the set.
func (s CodeSet) Add(c Code) {
	s[c] = struct{}{}
}

// Has reports whether the set contains c.
func (s CodeSet) Has(c Code) bool {
	_, ok := s[c]
	return ok
}
