package diag

import (
	"polylint/internal/source"
)

// Note attaches secondary context to a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is a single finding produced by one of the linters.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Tool     string // name of the linter that produced the finding
	Message  string
	Primary  source.Span
	Notes    []Note
}

func New(sev Severity, code Code, tool string, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Tool:     tool,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, tool string, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, tool, primary, msg)
}

func NewWarning(code Code, tool string, primary source.Span, msg string) Diagnostic {
	return New(SevWarning, code, tool, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}
