package lint

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"polylint/internal/diag"
	"polylint/internal/observ"
	"polylint/internal/project"
	"polylint/internal/source"
	"polylint/internal/stamp"
	"polylint/internal/suppress"
)

// Options configures a lint run.
type Options struct {
	// Root is the project root. Discovery, tool invocation and relative
	// paths all anchor here.
	Root string
	// Include are the file-name globs to lint; empty means DefaultIncludes.
	Include []string
	// Exclusions are user glob patterns, applied on top of
	// DefaultExclusions against root-relative paths.
	Exclusions []string
	// SuppressCodes are globally silenced diagnostic codes.
	SuppressCodes []diag.Code
	// Linters selects a subset by name; empty runs every registered one.
	Linters []string
	// Jobs caps how many linters run at once; <=0 means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics bounds each bag and the final result; <=0 means
	// unbounded.
	MaxDiagnostics int
	// Stamps, when non-nil, skips linters whose inputs match a recorded
	// clean run and records new clean runs.
	Stamps *stamp.Store
	// Registry defaults to DefaultRegistry(nil).
	Registry *Registry

	Timer    *observ.Timer
	Progress ProgressSink
}

// Result is the outcome of a lint run.
type Result struct {
	FileSet *source.FileSet
	// Bag holds the merged, deduplicated, suppression-filtered findings.
	Bag *diag.Bag
	// Files are the discovered root-relative paths, sorted.
	Files []string
	// Skipped lists linters elided by a fresh stamp.
	Skipped []string
	// Unavailable lists selected linters whose tool is not installed.
	Unavailable []string
}

// Clean reports whether the run finished with no findings at all.
func (r *Result) Clean() bool { return r.Bag.Len() == 0 }

type linterRun struct {
	linter  Linter
	key     project.Digest
	bag     *diag.Bag
	ran     bool
	skipped bool
}

// Run discovers the project files, executes the selected linters in
// parallel and returns the filtered findings. Per-linter findings pass
// through global and inline suppression before merging; a linter that
// ends up with nothing to report gets stamped so identical inputs skip
// it next time.
func Run(ctx context.Context, opts Options) (*Result, error) {
	root, err := source.AbsolutePath(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	root = filepath.FromSlash(root)

	includes := opts.Include
	if len(includes) == 0 {
		includes = DefaultIncludes
	}
	exclusions := append(append([]string{}, DefaultExclusions...), opts.Exclusions...)

	timer := opts.Timer
	if timer == nil {
		timer = observ.NewTimer()
	}

	discover := timer.Begin("discover")
	relPaths, err := DiscoverFiles(root, includes, exclusions)
	timer.End(discover, fmt.Sprintf("%d files", len(relPaths)))
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}

	load := timer.Begin("load")
	fileSet := source.NewFileSetWithBase(root)
	loadBag := diag.NewBag(opts.MaxDiagnostics)
	target := &Target{Root: root, FileSet: fileSet}
	for _, rel := range relPaths {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		id, err := fileSet.Load(abs)
		if err != nil {
			loadBag.Add(diag.NewError(diag.CodeIOError, "lint", target.Virtual(rel),
				"cannot read "+rel+": "+err.Error()))
			continue
		}
		target.Files = append(target.Files, id)
		target.Paths = append(target.Paths, rel)
	}
	timer.End(load, "")

	registry := opts.Registry
	if registry == nil {
		registry = DefaultRegistry(nil)
	}
	selected, err := registry.Select(opts.Linters)
	if err != nil {
		return nil, err
	}

	result := &Result{FileSet: fileSet, Files: relPaths}
	runs := make([]*linterRun, 0, len(selected))
	for _, l := range selected {
		if !l.Available() {
			result.Unavailable = append(result.Unavailable, l.Name())
			emit(opts.Progress, Event{Linter: l.Name(), Status: StatusSkipped})
			continue
		}
		runs = append(runs, &linterRun{
			linter: l,
			key:    inputDigest(l, target, opts.SuppressCodes),
			bag:    diag.NewBag(opts.MaxDiagnostics),
		})
		emit(opts.Progress, Event{Linter: l.Name(), Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	run := timer.Begin("run")
	g, gctx := errgroup.WithContext(ctx)
	if len(runs) > 0 {
		g.SetLimit(min(jobs, len(runs)))
	}
	for _, lr := range runs {
		lr := lr
		g.Go(func() error {
			name := lr.linter.Name()
			if opts.Stamps != nil && opts.Stamps.Fresh(lr.key, name) {
				lr.skipped = true
				emit(opts.Progress, Event{Linter: name, Status: StatusSkipped})
				return nil
			}
			emit(opts.Progress, Event{Linter: name, Status: StatusWorking})

			started := time.Now()
			reporter := diag.NewDedupReporter(diag.BagReporter{Bag: lr.bag})
			if err := lr.linter.Run(gctx, target, reporter); err != nil {
				emit(opts.Progress, Event{
					Linter: name, Status: StatusError,
					Err: err, Elapsed: time.Since(started),
				})
				return fmt.Errorf("%s: %w", name, err)
			}
			lr.ran = true
			emit(opts.Progress, Event{
				Linter: name, Status: StatusDone,
				Findings: lr.bag.Len(), Elapsed: time.Since(started),
			})
			return nil
		})
	}
	runErr := g.Wait()
	timer.End(run, "")
	if runErr != nil {
		return nil, runErr
	}

	filter := timer.Begin("filter")
	checker := suppress.NewChecker(fileSet, diag.NewCodeSet(opts.SuppressCodes...))
	keep := func(d diag.Diagnostic) bool { return !checker.Suppressed(d) }

	merged := diag.NewBag(opts.MaxDiagnostics)
	loadBag.Filter(keep)
	merged.Merge(loadBag)

	for _, lr := range runs {
		lr.bag.Filter(keep)
		if lr.ran && lr.bag.Len() == 0 {
			stampClean(opts.Stamps, lr, target)
		}
		if lr.skipped {
			result.Skipped = append(result.Skipped, lr.linter.Name())
		}
		merged.Merge(lr.bag)
	}

	merged.Dedup(fileSet)
	merged.Filter(func(d diag.Diagnostic) bool {
		return !excludedSpan(fileSet, d.Primary, root, exclusions)
	})
	merged.Sort()
	if opts.MaxDiagnostics > 0 {
		merged.Truncate(opts.MaxDiagnostics)
	}
	timer.End(filter, fmt.Sprintf("%d findings", merged.Len()))

	sort.Strings(result.Skipped)
	result.Bag = merged
	return result, nil
}

// inputDigest keys a linter run by everything that can change its
// filtered outcome: the tool and its configuration (the fingerprint),
// the file list, every file's content, and the globally suppressed
// codes. Inline suppressions live in file content and are covered by
// the hashes.
func inputDigest(linter Linter, target *Target, codes []diag.Code) project.Digest {
	parts := make([]project.Digest, 0, 2*len(target.Files)+2)
	parts = append(parts, project.OfString(linter.Fingerprint()))
	for i, id := range target.Files {
		f := target.FileSet.Get(id)
		parts = append(parts, project.OfString(target.Paths[i]), project.Digest(f.Hash))
	}
	sorted := make([]string, len(codes))
	for i, c := range codes {
		sorted[i] = string(c)
	}
	sort.Strings(sorted)
	parts = append(parts, project.OfString(strings.Join(sorted, ",")))
	return project.Combine(project.OfString(linter.Name()), parts...)
}

func stampClean(store *stamp.Store, lr *linterRun, target *Target) {
	if store == nil {
		return
	}
	hashes := make([]project.Digest, len(target.Files))
	for i, id := range target.Files {
		hashes[i] = project.Digest(target.FileSet.Get(id).Hash)
	}
	// Best effort: an unwritable stamp directory only costs a re-run.
	_ = store.Mark(lr.key, lr.linter.Name(), target.Paths, hashes)
}

// excludedSpan drops findings that landed in excluded files. Package-mode
// tools see the whole module, so their reports can name files the
// discovery pass deliberately left out.
func excludedSpan(fs *source.FileSet, sp source.Span, root string, exclusions []string) bool {
	if int(sp.File) >= fs.Len() {
		return false
	}
	f := fs.Get(sp.File)
	if f.Flags&source.FileVirtual != 0 {
		return false
	}
	rel, err := source.RelativePath(f.Path, root)
	if err != nil || filepath.IsAbs(filepath.FromSlash(rel)) {
		return false
	}
	return Excluded(rel, exclusions)
}
