package main

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"polylint/internal/project"
)

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Lint    lintConfig              `toml:"lint"`
	Stamps  stampsConfig            `toml:"stamps"`
	Linters map[string]linterConfig `toml:"linter"`
}

type lintConfig struct {
	Include    []string `toml:"include"`
	Exclusions []string `toml:"exclusions"`
	Suppress   []string `toml:"suppress"`
	Linters    []string `toml:"linters"`
	Jobs       int      `toml:"jobs"`
}

type stampsConfig struct {
	Enabled   *bool  `toml:"enabled"`
	Directory string `toml:"directory"`
}

type linterConfig struct {
	Enabled *bool    `toml:"enabled"`
	Args    []string `toml:"args"`
}

// StampsEnabled defaults to on; the manifest can switch stamping off for
// the whole project.
func (c *projectConfig) StampsEnabled() bool {
	return c.Stamps.Enabled == nil || *c.Stamps.Enabled
}

func (c *projectConfig) LinterDisabled(name string) bool {
	lc, ok := c.Linters[name]
	return ok && lc.Enabled != nil && !*lc.Enabled
}

func (c *projectConfig) LinterArgs(name string) []string {
	return c.Linters[name].Args
}

// loadProjectManifest walks up from startDir looking for polylint.toml.
// A project without a manifest is fine; everything has defaults.
func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := project.FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	var cfg projectConfig
	if _, err := toml.DecodeFile(manifestPath, &cfg); err != nil {
		return nil, true, fmt.Errorf("%s: failed to parse TOML: %w", manifestPath, err)
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}
