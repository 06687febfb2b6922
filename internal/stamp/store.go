package stamp

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"polylint/internal/project"
)

// Current schema version - increment when the Stamp format changes.
const schemaVersion uint16 = 1

// Stamp records one completed lint run of a single linter over a fixed
// input set. Its presence under the matching key means the run finished
// clean and can be skipped while the inputs are unchanged.
type Stamp struct {
	// Schema version for safe invalidation when the format changes.
	Schema uint16

	// Linter that produced this stamp.
	Linter string

	// Input is the aggregate digest of the linter identity and every
	// file hash, in discovery order.
	Input project.Digest

	// Files (paths and content hashes) covered by the run.
	FilePaths  []string
	FileHashes []project.Digest

	// CreatedAt is when the run completed.
	CreatedAt time.Time
}

// Store keeps stamps on disk, one msgpack file per input digest.
// Thread-safe for concurrent access.
type Store struct {
	mu  sync.RWMutex
	dir string
}

// DefaultDir returns the standard stamp location for the app,
// honoring XDG_CACHE_HOME.
func DefaultDir(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app), nil
}

// Open initializes a stamp store at dir, creating it as needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory backing the store.
func (s *Store) Dir() string {
	if s == nil {
		return ""
	}
	return s.dir
}

func (s *Store) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(s.dir, hexKey+".mp")
}

// Put serializes and writes a stamp, atomically replacing any previous one.
func (s *Store) Put(key project.Digest, st *Stamp) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.pathFor(key)
	f, err := os.CreateTemp(s.dir, "tmp-*")
	if err != nil {
		return err
	}
	tmpName := f.Name()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(st); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	// Atomic replace.
	if err := os.Rename(tmpName, p); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

// Get reads and deserializes a stamp. The boolean is false when no stamp
// exists for the key.
func (s *Store) Get(key project.Digest, out *Stamp) (bool, error) {
	if s == nil {
		return false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() { _ = f.Close() }()

	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// Fresh reports whether a valid stamp exists for the key: schema and linter
// must match and the recorded input digest must equal the key. Content
// hashing makes modification times irrelevant.
func (s *Store) Fresh(key project.Digest, linter string) bool {
	var st Stamp
	ok, err := s.Get(key, &st)
	if err != nil || !ok {
		return false
	}
	return st.Schema == schemaVersion && st.Linter == linter && st.Input == key
}

// Mark writes a fresh stamp for the given linter and inputs.
func (s *Store) Mark(key project.Digest, linter string, paths []string, hashes []project.Digest) error {
	return s.Put(key, &Stamp{
		Schema:     schemaVersion,
		Linter:     linter,
		Input:      key,
		FilePaths:  paths,
		FileHashes: hashes,
		CreatedAt:  time.Now().UTC(),
	})
}

// DropAll invalidates the store, useful after format changes.
func (s *Store) DropAll() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(s.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
