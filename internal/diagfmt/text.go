package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"

	"polylint/internal/diag"
	"polylint/internal/source"
)

// Text writes one finding per line:
//
//	path:line:col: severity: message (tool:code)
//
// The shape is deliberately grep- and editor-friendly. Messages are
// NFC-normalized and newline-flattened so one finding is always exactly
// one line, no matter which tool produced the text. The bag is expected
// to be sorted already.
func Text(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts TextOpts) error {
	for _, d := range bag.Items() {
		f := fs.Get(d.Primary.File)
		start, _ := fs.Resolve(d.Primary)
		_, err := fmt.Fprintf(w, "%s:%d:%d: %s: %s (%s:%s)\n",
			formatPath(f, opts.PathMode, fs.BaseDir()),
			start.Line, start.Col,
			strings.ToLower(d.Severity.String()),
			flatten(norm.NFC.String(d.Message)),
			d.Tool, d.Code,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func flatten(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}
