package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"

	"polylint/internal/diag"
	"polylint/internal/source"
)

// Pretty renders diagnostics for humans: a colored header, the offending
// source line with a caret underline, and a closing summary. The bag is
// expected to be sorted already.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	p := &prettyPrinter{w: w, fs: fs, opts: opts}
	p.initColors()

	for _, d := range bag.Items() {
		p.diagnostic(d)
		if p.err != nil {
			return p.err
		}
	}
	p.summary(bag)
	return p.err
}

type prettyPrinter struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts
	err  error

	sevError *color.Color
	sevWarn  *color.Color
	sevInfo  *color.Color
	dim      *color.Color
	bold     *color.Color
}

func (p *prettyPrinter) initColors() {
	p.sevError = color.New(color.FgRed, color.Bold)
	p.sevWarn = color.New(color.FgYellow, color.Bold)
	p.sevInfo = color.New(color.FgCyan, color.Bold)
	p.dim = color.New(color.Faint)
	p.bold = color.New(color.Bold)
	if !p.opts.Color {
		for _, c := range []*color.Color{p.sevError, p.sevWarn, p.sevInfo, p.dim, p.bold} {
			c.DisableColor()
		}
	}
}

func (p *prettyPrinter) sevColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.sevError
	case diag.SevWarning:
		return p.sevWarn
	default:
		return p.sevInfo
	}
}

func (p *prettyPrinter) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *prettyPrinter) diagnostic(d diag.Diagnostic) {
	f := p.fs.Get(d.Primary.File)
	start, end := p.fs.Resolve(d.Primary)

	header := p.sevColor(d.Severity).Sprintf("%s[%s]", strings.ToLower(d.Severity.String()), d.Code)
	p.printf("%s: %s\n", header, p.bold.Sprint(norm.NFC.String(d.Message)))
	p.printf("  %s %s:%d:%d %s\n",
		p.dim.Sprint("-->"),
		formatPath(f, p.opts.PathMode, p.fs.BaseDir()),
		start.Line, start.Col,
		p.dim.Sprintf("(%s)", d.Tool),
	)

	if f.Flags&source.FileVirtual == 0 {
		p.sourceLine(f, d.Severity, start, end)
	}

	if p.opts.ShowNotes {
		for _, n := range d.Notes {
			nf := p.fs.Get(n.Span.File)
			nStart, _ := p.fs.Resolve(n.Span)
			p.printf("  %s %s (%s:%d)\n",
				p.dim.Sprint("note:"), n.Msg,
				formatPath(nf, p.opts.PathMode, p.fs.BaseDir()), nStart.Line)
		}
	}
	p.printf("\n")
}

const tabWidth = 4

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func (p *prettyPrinter) sourceLine(f *source.File, sev diag.Severity, start, end source.LineCol) {
	text := f.GetLine(start.Line)
	if text == "" {
		return
	}

	gutter := fmt.Sprintf("%4d | ", start.Line)
	p.printf("%s%s\n", p.dim.Sprint(gutter), expandTabs(text))

	// Caret alignment is computed in display cells so tabs and wide
	// runes do not skew the underline.
	runes := []rune(text)
	startIdx := int(start.Col) - 1
	if startIdx < 0 {
		startIdx = 0
	}
	if startIdx > len(runes) {
		startIdx = len(runes)
	}
	endIdx := len(runes)
	if end.Line == start.Line && int(end.Col)-1 < endIdx {
		endIdx = int(end.Col) - 1
	}
	if endIdx <= startIdx {
		endIdx = startIdx + 1
	}

	pad := runewidth.StringWidth(expandTabs(string(runes[:startIdx])))
	var width int
	if startIdx < len(runes) {
		to := endIdx
		if to > len(runes) {
			to = len(runes)
		}
		width = runewidth.StringWidth(expandTabs(string(runes[startIdx:to])))
	}
	if width < 1 {
		width = 1
	}

	underline := "^" + strings.Repeat("~", width-1)
	p.printf("%s%s%s\n",
		p.dim.Sprint("     | "),
		strings.Repeat(" ", pad),
		p.sevColor(sev).Sprint(underline),
	)
}

func (p *prettyPrinter) summary(bag *diag.Bag) {
	if bag.Len() == 0 {
		green := color.New(color.FgGreen, color.Bold)
		if !p.opts.Color {
			green.DisableColor()
		}
		p.printf("%s\n", green.Sprint("no problems found"))
		return
	}
	var errs, warns, infos int
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		default:
			infos++
		}
	}
	parts := make([]string, 0, 3)
	if errs > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", errs))
	}
	if warns > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", warns))
	}
	if infos > 0 {
		parts = append(parts, fmt.Sprintf("%d infos", infos))
	}
	line := fmt.Sprintf("%d problems (%s)", bag.Len(), strings.Join(parts, ", "))
	c := p.sevWarn
	if errs > 0 {
		c = p.sevError
	}
	p.printf("%s\n", c.Sprint(line))
}
