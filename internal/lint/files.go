package lint

import (
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// DefaultExclusions are always applied, alongside any user patterns.
// They mirror the directories Go tooling itself never lints.
var DefaultExclusions = []string{
	"vendor/*",
	"*/vendor/*",
	"testdata/*",
	"*/testdata/*",
	".git/*",
}

// DefaultIncludes select the files linted when the config names none.
var DefaultIncludes = []string{"*.go"}

// DiscoverFiles walks root and returns the slash-normalized relative paths
// of every file matching one of the include patterns (matched against the
// base name) and none of the exclusion patterns (matched against the whole
// relative path). The result is sorted for deterministic runs.
func DiscoverFiles(root string, includes, exclusions []string) ([]string, error) {
	if len(includes) == 0 {
		includes = DefaultIncludes
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// The default exclusions double as directory prunes so the
			// walk never descends into vendor trees.
			switch d.Name() {
			case "vendor", "testdata", ".git":
				if path != root {
					return filepath.SkipDir
				}
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !matchesAny(filepath.Base(rel), includes) {
			return nil
		}
		if Excluded(rel, exclusions) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// Excluded reports whether the slash-relative path matches any of the
// exclusion patterns or the built-in defaults.
func Excluded(rel string, exclusions []string) bool {
	if matchesAny(rel, DefaultExclusions) {
		return true
	}
	return matchesAny(rel, exclusions)
}

func matchesAny(s string, patterns []string) bool {
	for _, pat := range patterns {
		if matchGlob(pat, s) {
			return true
		}
		// A glob-free pattern also excludes everything beneath it, so
		// "gen" works the same as "gen/*".
		if !strings.ContainsAny(pat, "*?") && strings.HasPrefix(s, pat+"/") {
			return true
		}
	}
	return false
}

var (
	globMu    sync.Mutex
	globCache = map[string]*regexp.Regexp{}
)

// matchGlob matches the whole string against a shell-style pattern where
// '*' crosses path separators (fnmatch semantics, unlike filepath.Match).
// "*/vendor/*" therefore matches "a/b/vendor/c.go".
func matchGlob(pattern, s string) bool {
	globMu.Lock()
	re, ok := globCache[pattern]
	if !ok {
		re = compileGlob(pattern)
		globCache[pattern] = re
	}
	globMu.Unlock()
	if re == nil {
		return pattern == s
	}
	return re.MatchString(s)
}

func compileGlob(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil
	}
	return re
}
