package project

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCombineIsOrderSensitive(t *testing.T) {
	a := OfString("a")
	b := OfString("b")
	c := OfString("c")

	ab := Combine(a, b, c)
	ba := Combine(a, c, b)
	if ab == ba {
		t.Error("Combine must depend on part order")
	}

	again := Combine(a, b, c)
	if ab != again {
		t.Error("Combine must be deterministic")
	}

	var zero Digest
	if ab == zero {
		t.Error("Combine must not return the zero digest")
	}
}

func TestFindRoot(t *testing.T) {
	tmp := t.TempDir()
	nested := filepath.Join(tmp, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	manifest := filepath.Join(tmp, ManifestName)
	if err := os.WriteFile(manifest, []byte("[lint]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	root, ok, err := FindRoot(nested)
	if err != nil {
		t.Fatalf("FindRoot: %v", err)
	}
	if !ok {
		t.Fatal("expected manifest to be found from nested dir")
	}
	if root != tmp {
		t.Errorf("root = %q, want %q", root, tmp)
	}
}

func TestFindRootAbsent(t *testing.T) {
	tmp := t.TempDir()
	_, ok, err := FindRoot(tmp)
	if err != nil {
		t.Fatalf("FindRoot: %v", err)
	}
	if ok {
		t.Error("no manifest exists, ok must be false")
	}
}
