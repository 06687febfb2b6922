package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"polylint/internal/diag"
	"polylint/internal/diagfmt"
	"polylint/internal/lint"
	"polylint/internal/observ"
	"polylint/internal/stamp"
	"polylint/internal/version"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [path]",
	Short: "Run the configured linters and report findings",
	Long: `Run every configured linter over the project, merge and deduplicate
their findings, apply global and inline suppressions, and report what
remains. Exits with status 1 when findings remain.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	f := checkCmd.Flags()
	f.StringArray("exclude", nil, "glob pattern to exclude, repeatable")
	f.String("exclusions", "", "comma-separated glob patterns to exclude")
	f.String("suppress-codes", "", "comma-separated diagnostic codes to suppress globally")
	f.String("stamp-directory", "", "directory for clean-run stamps (default: user cache dir)")
	f.Bool("no-stamps", false, "disable clean-run stamps")
	f.StringSlice("linters", nil, "linters to run (default: all enabled)")
	f.Int("jobs", 0, "max linters running in parallel (0=auto)")
	f.String("format", "text", "output format (text|pretty|json|sarif)")
	f.Bool("no-warnings", false, "drop warnings from the report")
	f.Bool("warnings-as-errors", false, "treat warnings as errors")
	f.Bool("with-notes", false, "include diagnostic notes in output")
	f.Bool("fullpath", false, "emit absolute file paths in output")
	f.String("ui", "auto", "progress UI (auto|on|off)")
}

type checkFlags struct {
	exclude          []string
	exclusions       string
	suppressCodes    string
	stampDir         string
	noStamps         bool
	linters          []string
	jobs             int
	format           string
	noWarnings       bool
	warningsAsErrors bool
	withNotes        bool
	fullpath         bool
	ui               string

	quiet     bool
	timings   bool
	maxDiags  int
	colorMode string
}

func readCheckFlags(cmd *cobra.Command) (checkFlags, error) {
	var cf checkFlags
	var err error
	flags := cmd.Flags()
	persistent := cmd.Root().PersistentFlags()

	read := func(get func() error) {
		if err == nil {
			err = get()
		}
	}
	read(func() (e error) { cf.exclude, e = flags.GetStringArray("exclude"); return })
	read(func() (e error) { cf.exclusions, e = flags.GetString("exclusions"); return })
	read(func() (e error) { cf.suppressCodes, e = flags.GetString("suppress-codes"); return })
	read(func() (e error) { cf.stampDir, e = flags.GetString("stamp-directory"); return })
	read(func() (e error) { cf.noStamps, e = flags.GetBool("no-stamps"); return })
	read(func() (e error) { cf.linters, e = flags.GetStringSlice("linters"); return })
	read(func() (e error) { cf.jobs, e = flags.GetInt("jobs"); return })
	read(func() (e error) { cf.format, e = flags.GetString("format"); return })
	read(func() (e error) { cf.noWarnings, e = flags.GetBool("no-warnings"); return })
	read(func() (e error) { cf.warningsAsErrors, e = flags.GetBool("warnings-as-errors"); return })
	read(func() (e error) { cf.withNotes, e = flags.GetBool("with-notes"); return })
	read(func() (e error) { cf.fullpath, e = flags.GetBool("fullpath"); return })
	read(func() (e error) { cf.ui, e = flags.GetString("ui"); return })
	read(func() (e error) { cf.quiet, e = persistent.GetBool("quiet"); return })
	read(func() (e error) { cf.timings, e = persistent.GetBool("timings"); return })
	read(func() (e error) { cf.maxDiags, e = persistent.GetInt("max-diagnostics"); return })
	read(func() (e error) { cf.colorMode, e = persistent.GetString("color"); return })
	return cf, err
}

func runCheck(cmd *cobra.Command, args []string) error {
	cf, err := readCheckFlags(cmd)
	if err != nil {
		return err
	}
	if cf.noWarnings && cf.warningsAsErrors {
		return fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	switch cf.format {
	case "text", "pretty", "json", "sarif":
	default:
		return fmt.Errorf("unsupported format %q (must be text, pretty, json or sarif)", cf.format)
	}
	mode, err := readUIMode(cf.ui)
	if err != nil {
		return err
	}

	startDir := "."
	if len(args) == 1 {
		startDir = args[0]
	}
	manifest, hasManifest, err := loadProjectManifest(startDir)
	if err != nil {
		return err
	}
	root := startDir
	if len(args) == 0 && hasManifest {
		root = manifest.Root
	}
	cfg := projectConfig{}
	if hasManifest {
		cfg = manifest.Config
	}

	exclusions := append([]string{}, cfg.Lint.Exclusions...)
	exclusions = append(exclusions, splitList(cf.exclusions)...)
	exclusions = append(exclusions, cf.exclude...)

	suppress := make([]diag.Code, 0, len(cfg.Lint.Suppress))
	for _, c := range cfg.Lint.Suppress {
		suppress = append(suppress, diag.Code(c))
	}
	suppress = append(suppress, diag.ParseCodeList(cf.suppressCodes)...)

	extra := make(lint.ExtraArgs, len(cfg.Linters))
	for name := range cfg.Linters {
		extra[name] = cfg.LinterArgs(name)
	}
	registry := lint.DefaultRegistry(extra)

	requested := cf.linters
	if len(requested) == 0 {
		requested = cfg.Lint.Linters
	}
	if len(requested) == 0 {
		for _, name := range registry.Names() {
			if !cfg.LinterDisabled(name) {
				requested = append(requested, name)
			}
		}
	}

	var stamps *stamp.Store
	if !cf.noStamps && cfg.StampsEnabled() {
		dir := cf.stampDir
		if dir == "" {
			dir = cfg.Stamps.Directory
			if dir != "" && !filepath.IsAbs(dir) {
				dir = filepath.Join(root, dir)
			}
		}
		if dir == "" {
			dir, err = stamp.DefaultDir("polylint")
			if err != nil {
				return fmt.Errorf("resolve stamp directory: %w", err)
			}
		}
		stamps, err = stamp.Open(dir)
		if err != nil {
			return fmt.Errorf("open stamp store: %w", err)
		}
	}

	jobs := cf.jobs
	if jobs == 0 {
		jobs = cfg.Lint.Jobs
	}

	timer := observ.NewTimer()
	opts := lint.Options{
		Root:           root,
		Include:        cfg.Lint.Include,
		Exclusions:     exclusions,
		SuppressCodes:  suppress,
		Linters:        requested,
		Jobs:           jobs,
		MaxDiagnostics: cf.maxDiags,
		Stamps:         stamps,
		Registry:       registry,
		Timer:          timer,
	}

	useColor := colorEnabled(cf.colorMode)
	useTUI := shouldUseTUI(mode) && !cf.quiet && cf.format != "json" && cf.format != "sarif"

	var res *lint.Result
	if useTUI {
		res, err = runCheckWithUI(cmd.Context(), "linting "+root, requested, opts)
	} else {
		res, err = lint.Run(cmd.Context(), opts)
	}
	if err != nil {
		return err
	}

	if cf.noWarnings {
		res.Bag.Filter(func(d diag.Diagnostic) bool { return d.Severity != diag.SevWarning })
	}
	if cf.warningsAsErrors {
		res.Bag.PromoteWarnings()
	}

	pathMode := diagfmt.PathModeRelative
	if cf.fullpath {
		pathMode = diagfmt.PathModeAbsolute
	}

	out := cmd.OutOrStdout()
	switch cf.format {
	case "text":
		err = diagfmt.Text(out, res.Bag, res.FileSet, diagfmt.TextOpts{PathMode: pathMode})
	case "pretty":
		err = diagfmt.Pretty(out, res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:     useColor,
			PathMode:  pathMode,
			ShowNotes: cf.withNotes,
		})
	case "json":
		err = diagfmt.JSON(out, res.Bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     cf.withNotes,
		})
	case "sarif":
		err = diagfmt.Sarif(out, res.Bag, res.FileSet, diagfmt.SarifRunMeta{
			ToolName:    "polylint",
			ToolVersion: version.Number,
		})
	}
	if err != nil {
		return err
	}

	if !cf.quiet {
		errOut := cmd.ErrOrStderr()
		if len(res.Unavailable) > 0 {
			fmt.Fprintf(errOut, "skipped (not installed): %s\n", strings.Join(res.Unavailable, ", "))
		}
		if len(res.Skipped) > 0 {
			fmt.Fprintf(errOut, "cached (clean since last run): %s\n", strings.Join(res.Skipped, ", "))
		}
	}
	if cf.timings {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}

	if res.Bag.Len() > 0 {
		return errFindings
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func colorEnabled(mode string) bool {
	switch strings.TrimSpace(strings.ToLower(mode)) {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(os.Stdout)
	}
}
