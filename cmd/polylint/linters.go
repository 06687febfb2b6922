package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"polylint/internal/lint"
)

var lintersCmd = &cobra.Command{
	Use:   "linters",
	Short: "List known linters and whether they can run here",
	Args:  cobra.NoArgs,
	RunE:  runLinters,
}

func runLinters(cmd *cobra.Command, args []string) error {
	manifest, hasManifest, err := loadProjectManifest(".")
	if err != nil {
		return err
	}
	cfg := projectConfig{}
	if hasManifest {
		cfg = manifest.Config
	}

	registry := lint.DefaultRegistry(nil)
	out := cmd.OutOrStdout()
	for _, name := range registry.Names() {
		l, _ := registry.Get(name)
		state := "available"
		switch {
		case cfg.LinterDisabled(name):
			state = "disabled in " + manifest.Path
		case !l.Available():
			state = "not installed"
		}
		fmt.Fprintf(out, "%-14s %s\n", name, state)
	}
	return nil
}
