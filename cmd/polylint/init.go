package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"polylint/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter polylint.toml",
	Long: `Create a polylint.toml manifest in the given directory (default: the
current one). The manifest marks the project root and holds exclusions,
suppressed codes and per-linter settings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

const starterManifest = `[lint]
# include = ["*.go"]
# exclusions = ["gen/*", "*_string.go"]
# suppress = []
# linters = ["govet", "gofmt", "staticcheck", "revive", "modmeta"]
# jobs = 0

[stamps]
enabled = true
# directory = ".polylint-stamps"

# [linter.revive]
# enabled = false
# args = ["-config", "revive.toml"]
`

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	manifestPath := filepath.Join(target, project.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}
	if err := os.WriteFile(manifestPath, []byte(starterManifest), 0o600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	rel := manifestPath
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, manifestPath); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", rel)
	return nil
}
