package lint

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"polylint/internal/diag"
	"polylint/internal/stamp"
)

func reportAt(path string, line uint32, code diag.Code, msg string) func(context.Context, *Target, diag.Reporter) error {
	return func(_ context.Context, target *Target, r diag.Reporter) error {
		r.Report(diag.NewWarning(code, "fake", target.Resolve(path, line, 0), msg))
		return nil
	}
}

func registryOf(linters ...Linter) *Registry {
	reg := NewRegistry()
	for _, l := range linters {
		reg.Register(l)
	}
	return reg
}

func TestRunMergesAndSorts(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.go", "b.go")

	reg := registryOf(
		&fakeLinter{name: "one", available: true, run: reportAt("b.go", 1, "w1", "from one")},
		&fakeLinter{name: "two", available: true, run: reportAt("a.go", 1, "w2", "from two")},
	)

	res, err := Run(context.Background(), Options{Root: root, Registry: reg})
	if err != nil {
		t.Fatal(err)
	}
	if res.Clean() {
		t.Fatal("expected findings")
	}
	items := res.Bag.Items()
	if len(items) != 2 {
		t.Fatalf("got %d findings, want 2", len(items))
	}
	// Sorted by file, and files load in discovery order: a.go first.
	if items[0].Code != "w2" || items[1].Code != "w1" {
		t.Errorf("findings out of order: %s, %s", items[0].Code, items[1].Code)
	}
	if len(res.Files) != 2 {
		t.Errorf("Files = %v", res.Files)
	}
}

func TestRunDedupAcrossLinters(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.go")

	// Same file, line and code from two tools collapses to one finding.
	reg := registryOf(
		&fakeLinter{name: "one", available: true, run: reportAt("a.go", 1, "dup", "first")},
		&fakeLinter{name: "two", available: true, run: reportAt("a.go", 1, "dup", "second")},
	)

	res, err := Run(context.Background(), Options{Root: root, Registry: reg, Jobs: 1})
	if err != nil {
		t.Fatal(err)
	}
	if res.Bag.Len() != 1 {
		t.Errorf("got %d findings, want 1", res.Bag.Len())
	}
}

func TestRunGlobalSuppression(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.go")

	reg := registryOf(
		&fakeLinter{name: "one", available: true, run: reportAt("a.go", 1, "noisy", "m")},
		&fakeLinter{name: "two", available: true, run: reportAt("a.go", 1, "real", "m")},
	)

	res, err := Run(context.Background(), Options{
		Root:          root,
		Registry:      reg,
		SuppressCodes: []diag.Code{"noisy"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Bag.Len() != 1 || res.Bag.Items()[0].Code != "real" {
		t.Errorf("suppression left %v", res.Bag.Items())
	}
}

func TestRunInlineSuppression(t *testing.T) {
	root := t.TempDir()
	content := "package x // suppress(w1)\nvar y = 1\n"
	if err := os.WriteFile(filepath.Join(root, "a.go"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	reg := registryOf(
		&fakeLinter{name: "one", available: true, run: reportAt("a.go", 1, "w1", "suppressed inline")},
		&fakeLinter{name: "two", available: true, run: reportAt("a.go", 2, "w1", "kept")},
	)

	res, err := Run(context.Background(), Options{Root: root, Registry: reg})
	if err != nil {
		t.Fatal(err)
	}
	if res.Bag.Len() != 1 || res.Bag.Items()[0].Message != "kept" {
		t.Errorf("inline suppression left %v", res.Bag.Items())
	}
}

func TestRunExcludedReportFiltered(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.go", "vendor/dep/dep.go")

	// A package-mode tool may report into vendor/ even though discovery
	// skipped it; the final filter drops such findings.
	reg := registryOf(
		&fakeLinter{name: "one", available: true, run: reportAt("vendor/dep/dep.go", 1, "w1", "m")},
	)

	res, err := Run(context.Background(), Options{Root: root, Registry: reg})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Clean() {
		t.Errorf("vendored finding survived: %v", res.Bag.Items())
	}
}

func TestRunUnavailableLinter(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.go")

	missing := &fakeLinter{name: "ghost", available: false}
	reg := registryOf(missing)

	res, err := Run(context.Background(), Options{Root: root, Registry: reg})
	if err != nil {
		t.Fatal(err)
	}
	if missing.calls != 0 {
		t.Error("unavailable linter was run")
	}
	if len(res.Unavailable) != 1 || res.Unavailable[0] != "ghost" {
		t.Errorf("Unavailable = %v", res.Unavailable)
	}
}

func TestRunLinterError(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.go")

	boom := errors.New("boom")
	reg := registryOf(&fakeLinter{
		name: "bad", available: true,
		run: func(context.Context, *Target, diag.Reporter) error { return boom },
	})

	if _, err := Run(context.Background(), Options{Root: root, Registry: reg}); !errors.Is(err, boom) {
		t.Errorf("Run error = %v, want wrapped boom", err)
	}
}

func TestRunMaxDiagnostics(t *testing.T) {
	root := t.TempDir()
	content := "package x\nvar a = 1\nvar b = 2\nvar c = 3\nvar d = 4\n"
	if err := os.WriteFile(filepath.Join(root, "a.go"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	reg := registryOf(&fakeLinter{
		name: "many", available: true,
		run: func(_ context.Context, target *Target, r diag.Reporter) error {
			for line := uint32(1); line <= 5; line++ {
				r.Report(diag.NewWarning("w", "many", target.Resolve("a.go", line, 0), "m"))
			}
			return nil
		},
	})

	res, err := Run(context.Background(), Options{Root: root, Registry: reg, MaxDiagnostics: 3})
	if err != nil {
		t.Fatal(err)
	}
	if res.Bag.Len() != 3 {
		t.Errorf("got %d findings, want 3", res.Bag.Len())
	}
}

func TestRunStampsSkipSecondRun(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.go")
	store, err := stamp.Open(filepath.Join(t.TempDir(), "stamps"))
	if err != nil {
		t.Fatal(err)
	}

	clean := &fakeLinter{name: "clean", available: true}
	opts := Options{Root: root, Registry: registryOf(clean), Stamps: store}

	res, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if clean.calls != 1 || len(res.Skipped) != 0 {
		t.Fatalf("first run: calls=%d skipped=%v", clean.calls, res.Skipped)
	}

	// Identical inputs: the stamp elides the second run.
	opts.Registry = registryOf(clean)
	res, err = Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if clean.calls != 1 {
		t.Errorf("second run re-ran a stamped linter (calls=%d)", clean.calls)
	}
	if len(res.Skipped) != 1 || res.Skipped[0] != "clean" {
		t.Errorf("Skipped = %v", res.Skipped)
	}

	// Changing a file invalidates the stamp.
	if err := os.WriteFile(filepath.Join(root, "a.go"), []byte("package y\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	opts.Registry = registryOf(clean)
	if _, err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	if clean.calls != 2 {
		t.Errorf("changed input did not re-run the linter (calls=%d)", clean.calls)
	}
}

func TestRunStampInvalidatedByLinterConfig(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.go")
	store, err := stamp.Open(filepath.Join(t.TempDir(), "stamps"))
	if err != nil {
		t.Fatal(err)
	}

	// A clean run under one configuration writes a stamp.
	v1 := &fakeLinter{name: "tool", available: true, fingerprint: "tool\x00-fast"}
	opts := Options{Root: root, Registry: registryOf(v1), Stamps: store}
	if _, err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	if v1.calls != 1 {
		t.Fatalf("first run: calls=%d", v1.calls)
	}

	// Same name, different args: the old stamp must not mask new findings.
	v2 := &fakeLinter{
		name:        "tool",
		available:   true,
		fingerprint: "tool\x00-strict",
		run:         reportAt("a.go", 1, "w1", "now flagged"),
	}
	opts.Registry = registryOf(v2)
	res, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if v2.calls != 1 {
		t.Errorf("reconfigured linter was skipped by a stale stamp (calls=%d)", v2.calls)
	}
	if len(res.Skipped) != 0 {
		t.Errorf("Skipped = %v", res.Skipped)
	}
	if res.Bag.Len() != 1 {
		t.Errorf("got %d findings, want 1", res.Bag.Len())
	}

	// Unchanged configuration still hits its own stamp.
	v1again := &fakeLinter{name: "tool", available: true, fingerprint: "tool\x00-fast"}
	opts.Registry = registryOf(v1again)
	res, err = Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if v1again.calls != 0 || len(res.Skipped) != 1 {
		t.Errorf("same config did not reuse its stamp: calls=%d skipped=%v", v1again.calls, res.Skipped)
	}
}

func TestRunNoStampWhenFindingsRemain(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.go")
	store, err := stamp.Open(filepath.Join(t.TempDir(), "stamps"))
	if err != nil {
		t.Fatal(err)
	}

	dirty := &fakeLinter{name: "dirty", available: true, run: reportAt("a.go", 1, "w1", "m")}
	opts := Options{Root: root, Registry: registryOf(dirty), Stamps: store}

	for i := 0; i < 2; i++ {
		if _, err := Run(context.Background(), opts); err != nil {
			t.Fatal(err)
		}
		opts.Registry = registryOf(dirty)
	}
	if dirty.calls != 2 {
		t.Errorf("linter with findings got stamped (calls=%d)", dirty.calls)
	}
}

func TestRunAllSuppressedStillStamps(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.go")
	store, err := stamp.Open(filepath.Join(t.TempDir(), "stamps"))
	if err != nil {
		t.Fatal(err)
	}

	noisy := &fakeLinter{name: "noisy", available: true, run: reportAt("a.go", 1, "w1", "m")}
	opts := Options{
		Root:          root,
		Registry:      registryOf(noisy),
		Stamps:        store,
		SuppressCodes: []diag.Code{"w1"},
	}

	for i := 0; i < 2; i++ {
		if _, err := Run(context.Background(), opts); err != nil {
			t.Fatal(err)
		}
		opts.Registry = registryOf(noisy)
	}
	if noisy.calls != 1 {
		t.Errorf("fully-suppressed linter was not stamped (calls=%d)", noisy.calls)
	}

	// Dropping the suppression changes the input key, so it runs again.
	opts.SuppressCodes = nil
	opts.Registry = registryOf(noisy)
	res, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if noisy.calls != 2 || res.Bag.Len() != 1 {
		t.Errorf("suppression change not reflected: calls=%d findings=%d", noisy.calls, res.Bag.Len())
	}
}
