package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"polylint/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "polylint",
	Short: "Aggregated lint runner for Go projects",
	Long: `polylint runs a curated set of linters over a project, merges their
findings into one deduplicated report, and remembers clean runs so
unchanged projects lint instantly.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// errFindings signals that the run worked but findings remain. It maps
// to exit code 1; operational failures exit with 2.
var errFindings = errors.New("findings remain")

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(lintersCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics to show (0=unbounded)")

	err := rootCmd.Execute()
	switch {
	case err == nil:
	case errors.Is(err, errFindings):
		os.Exit(1)
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
