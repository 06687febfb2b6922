package lint

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"

	"polylint/internal/diag"
)

// Codes reported by the modmeta linter.
const (
	CodeMissingGomod      diag.Code = "missing-gomod"
	CodeGomodParse        diag.Code = "gomod-parse"
	CodeMissingModule     diag.Code = "missing-module"
	CodeMissingGo         diag.Code = "missing-go-directive"
	CodeLocalReplace      diag.Code = "local-replace"
	CodeDeprecatedModule  diag.Code = "deprecated-module"
	CodeDuplicateExclude  diag.Code = "duplicate-exclude"
)

const modMetaName = "modmeta"

// ModMeta is the built-in module-metadata linter. It checks that the
// project carries a well-formed go.mod: a module path, a go directive,
// and no directives that would break consumers of a published module.
type ModMeta struct{}

func (ModMeta) Name() string    { return modMetaName }
func (ModMeta) Available() bool { return true }

// Fingerprint is constant: the checker takes no configuration.
func (ModMeta) Fingerprint() string { return modMetaName }

func (ModMeta) Run(ctx context.Context, target *Target, r diag.Reporter) error {
	path := filepath.Join(target.Root, "go.mod")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.Report(diag.NewWarning(CodeMissingGomod, modMetaName, target.Virtual("go.mod"),
				"project has no go.mod; run 'go mod init'"))
			return nil
		}
		r.Report(diag.NewError(diag.CodeIOError, modMetaName, target.Virtual("go.mod"),
			"reading go.mod: "+err.Error()))
		return nil
	}

	mf, err := modfile.Parse(path, data, nil)
	if err != nil {
		reportParseErrors(target, r, err)
		return nil
	}

	if mf.Module == nil || mf.Module.Mod.Path == "" {
		r.Report(diag.NewError(CodeMissingModule, modMetaName, target.Resolve("go.mod", 1, 0),
			"go.mod declares no module path"))
	} else if mf.Module.Deprecated != "" {
		line := directiveLine(mf.Module.Syntax)
		r.Report(diag.NewWarning(CodeDeprecatedModule, modMetaName, target.Resolve("go.mod", line, 0),
			"module is marked deprecated: "+mf.Module.Deprecated))
	}

	if mf.Go == nil || mf.Go.Version == "" {
		r.Report(diag.NewWarning(CodeMissingGo, modMetaName, target.Resolve("go.mod", 1, 0),
			"go.mod has no go directive"))
	}

	for _, rep := range mf.Replace {
		if !modfile.IsDirectoryPath(rep.New.Path) {
			continue
		}
		line := directiveLine(rep.Syntax)
		r.Report(diag.NewWarning(CodeLocalReplace, modMetaName, target.Resolve("go.mod", line, 0),
			"replace directive points at local directory "+rep.New.Path))
	}

	seen := make(map[string]bool, len(mf.Exclude))
	for _, exc := range mf.Exclude {
		key := exc.Mod.Path + "@" + exc.Mod.Version
		if seen[key] {
			line := directiveLine(exc.Syntax)
			r.Report(diag.NewWarning(CodeDuplicateExclude, modMetaName, target.Resolve("go.mod", line, 0),
				"duplicate exclude of "+key))
		}
		seen[key] = true
	}
	return ctx.Err()
}

func reportParseErrors(target *Target, r diag.Reporter, err error) {
	var list modfile.ErrorList
	if errors.As(err, &list) {
		for _, e := range list {
			r.Report(diag.NewError(CodeGomodParse, modMetaName,
				target.Resolve("go.mod", safeLine(e.Pos.Line), 0), e.Err.Error()))
		}
		return
	}
	r.Report(diag.NewError(CodeGomodParse, modMetaName, target.Resolve("go.mod", 1, 0), err.Error()))
}

func directiveLine(l *modfile.Line) uint32 {
	if l == nil {
		return 1
	}
	return safeLine(l.Start.Line)
}

func safeLine(n int) uint32 {
	if n < 1 {
		return 1
	}
	return uint32(n) // #nosec G115 -- go.mod line numbers fit uint32
}
