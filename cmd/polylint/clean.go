package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"polylint/internal/stamp"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [path]",
	Short: "Drop all clean-run stamps",
	Long: `Remove every recorded clean-run stamp so the next check re-runs all
linters from scratch.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().String("stamp-directory", "", "directory for clean-run stamps (default: user cache dir)")
}

func runClean(cmd *cobra.Command, args []string) error {
	dir, err := cmd.Flags().GetString("stamp-directory")
	if err != nil {
		return err
	}
	if dir == "" {
		startDir := "."
		if len(args) == 1 {
			startDir = args[0]
		}
		manifest, ok, err := loadProjectManifest(startDir)
		if err != nil {
			return err
		}
		if ok && manifest.Config.Stamps.Directory != "" {
			dir = manifest.Config.Stamps.Directory
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(manifest.Root, dir)
			}
		}
	}
	if dir == "" {
		dir, err = stamp.DefaultDir("polylint")
		if err != nil {
			return fmt.Errorf("resolve stamp directory: %w", err)
		}
	}

	store, err := stamp.Open(dir)
	if err != nil {
		return fmt.Errorf("open stamp store: %w", err)
	}
	if err := store.DropAll(); err != nil {
		return fmt.Errorf("drop stamps: %w", err)
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "cleared stamps in %s\n", dir)
	}
	return nil
}
