package lint

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"polylint/internal/diag"
	"polylint/internal/source"
)

// Target is the prepared input handed to every linter: the project root,
// the loaded file set and the discovery-ordered file list.
type Target struct {
	Root    string
	FileSet *source.FileSet
	Files   []source.FileID
	// Paths are the slash-normalized paths relative to Root,
	// index-aligned with Files.
	Paths []string

	// mu guards FileSet while linters run concurrently: package-mode
	// tools can report files outside the discovered set, which get
	// loaded lazily here.
	mu sync.Mutex
}

// Resolve maps a tool-reported location to a span. The path may be
// absolute or relative to Root. Files the discovery pass never saw are
// loaded on demand so inline suppressions and exclusion filters still
// apply to them; an unreadable path gets an empty virtual entry.
func (t *Target) Resolve(path string, line, col uint32) source.Span {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(t.Root, filepath.FromSlash(path))
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	id, ok := t.FileSet.GetLatest(abs)
	if !ok {
		var err error
		id, err = t.FileSet.Load(abs)
		if err != nil {
			// Keep the reported path printable even when the file is gone.
			return source.Span{File: t.FileSet.AddVirtual(abs, nil)}
		}
	}
	return t.FileSet.SpanAt(id, line, col)
}

// Virtual returns a span for a file that could not be read, backed by an
// empty in-memory entry so formatters still have a path to print.
func (t *Target) Virtual(path string) source.Span {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(t.Root, filepath.FromSlash(path))
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	id, ok := t.FileSet.GetLatest(abs)
	if !ok {
		id = t.FileSet.AddVirtual(abs, nil)
	}
	return source.Span{File: id}
}

// Linter runs one tool over the target and reports findings.
type Linter interface {
	Name() string
	// Available reports whether the linter can run in this environment
	// (external binary present, inputs parseable at all). Unavailable
	// linters are skipped silently unless requested by name.
	Available() bool
	// Fingerprint captures the configuration that shapes the linter's
	// output (binary, arguments, invocation mode). It feeds the clean-run
	// stamp key, so reconfiguring a linter invalidates its stamps.
	Fingerprint() string
	Run(ctx context.Context, target *Target, r diag.Reporter) error
}

// Registry holds the known linters in registration order.
type Registry struct {
	order  []string
	byName map[string]Linter
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Linter)}
}

// Register adds a linter. Registering the same name twice is a
// programming error.
func (r *Registry) Register(l Linter) {
	name := l.Name()
	if _, dup := r.byName[name]; dup {
		panic(fmt.Sprintf("lint: duplicate linter %q", name))
	}
	r.order = append(r.order, name)
	r.byName[name] = l
}

// Get returns the linter by name.
func (r *Registry) Get(name string) (Linter, bool) {
	l, ok := r.byName[name]
	return l, ok
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Select resolves a requested subset, keeping registration order.
// An unknown name is an error; an empty request selects everything.
func (r *Registry) Select(requested []string) ([]Linter, error) {
	if len(requested) == 0 {
		out := make([]Linter, 0, len(r.order))
		for _, name := range r.order {
			out = append(out, r.byName[name])
		}
		return out, nil
	}
	want := make(map[string]bool, len(requested))
	for _, name := range requested {
		if _, ok := r.byName[name]; !ok {
			known := r.Names()
			sort.Strings(known)
			return nil, fmt.Errorf("unknown linter %q (known: %v)", name, known)
		}
		want[name] = true
	}
	out := make([]Linter, 0, len(want))
	for _, name := range r.order {
		if want[name] {
			out = append(out, r.byName[name])
		}
	}
	return out, nil
}
