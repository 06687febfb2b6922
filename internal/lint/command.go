package lint

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"

	"polylint/internal/diag"
)

// Mode selects what an external tool receives as its trailing arguments.
type Mode uint8

const (
	// ModeFiles passes the discovered files themselves.
	ModeFiles Mode = iota
	// ModePackages passes "./..." and relies on the final per-file filter,
	// for tools that type-check whole packages and reject bare file lists.
	ModePackages
)

// ParseFunc turns raw tool output into findings.
type ParseFunc func(output string) []Finding

// CommandLinter wraps an external lint tool. The tool is executed in the
// project root, its combined output parsed line by line, and every finding
// resolved against the target's file set.
type CommandLinter struct {
	name     string
	bin      string
	args     []string
	mode     Mode
	severity diag.Severity
	parse    ParseFunc
}

func (l *CommandLinter) Name() string { return l.name }

// Available reports whether the wrapped binary is on PATH.
func (l *CommandLinter) Available() bool {
	_, err := exec.LookPath(l.bin)
	return err == nil
}

func (l *CommandLinter) Fingerprint() string {
	parts := append([]string{l.bin, strconv.Itoa(int(l.mode))}, l.args...)
	return strings.Join(parts, "\x00")
}

func (l *CommandLinter) Run(ctx context.Context, target *Target, r diag.Reporter) error {
	argv := append([]string{}, l.args...)
	switch l.mode {
	case ModePackages:
		argv = append(argv, "./...")
	default:
		if len(target.Paths) == 0 {
			return nil
		}
		argv = append(argv, target.Paths...)
	}

	// #nosec G204 -- bin and args come from the linter registry, not input
	cmd := exec.CommandContext(ctx, l.bin, argv...)
	cmd.Dir = target.Root

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	runErr := cmd.Run()
	if ctx.Err() != nil {
		return ctx.Err()
	}

	output := buf.String()
	findings := l.parse(output)

	// Lint tools exit non-zero when they have findings; that alone is not
	// a failure. A non-zero exit with nothing parseable means the tool
	// itself broke (bad flags, compile error in an unexpected shape, ...).
	if runErr != nil && len(findings) == 0 {
		var exitErr *exec.ExitError
		code := diag.CodeToolFailure
		msg := runErr.Error()
		if errors.As(runErr, &exitErr) && firstLine(output) != "" {
			// The tool ran and said something, we just could not place it.
			code = diag.CodeUnparsedOutput
			msg = firstLine(output)
		}
		r.Report(diag.NewError(code, l.name, target.Virtual(l.name), l.name+": "+msg))
		return nil
	}

	for _, f := range findings {
		span := target.Resolve(f.Path, f.Line, f.Col)
		r.Report(diag.New(l.severity, f.Code, l.name, span, f.Message))
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
