package lint

import "polylint/internal/diag"

// NewGovet wraps "go vet". Vet findings usually indicate real bugs, so
// they come back as errors.
func NewGovet(extra ...string) *CommandLinter {
	return &CommandLinter{
		name:     "govet",
		bin:      "go",
		args:     append([]string{"vet"}, extra...),
		mode:     ModePackages,
		severity: diag.SevError,
		parse: func(output string) []Finding {
			return ParseLocations(output, "vet")
		},
	}
}

// NewGofmt wraps "gofmt -l", which prints one unformatted file per line.
func NewGofmt(extra ...string) *CommandLinter {
	return &CommandLinter{
		name:     "gofmt",
		bin:      "gofmt",
		args:     append([]string{"-l"}, extra...),
		mode:     ModeFiles,
		severity: diag.SevWarning,
		parse: func(output string) []Finding {
			return ParseFileList(output, "gofmt", "file is not gofmt-formatted")
		},
	}
}

// NewStaticcheck wraps honnef.co/go/tools/cmd/staticcheck. Check codes
// are taken from the trailing "(SA....)" tail of each line.
func NewStaticcheck(extra ...string) *CommandLinter {
	return &CommandLinter{
		name:     "staticcheck",
		bin:      "staticcheck",
		args:     extra,
		mode:     ModePackages,
		severity: diag.SevWarning,
		parse: func(output string) []Finding {
			return ParseLocations(output, "staticcheck")
		},
	}
}

// NewRevive wraps github.com/mgechev/revive.
func NewRevive(extra ...string) *CommandLinter {
	return &CommandLinter{
		name:     "revive",
		bin:      "revive",
		args:     extra,
		mode:     ModePackages,
		severity: diag.SevWarning,
		parse: func(output string) []Finding {
			return ParseLocations(output, "revive")
		},
	}
}

// ExtraArgs maps a linter name to additional command-line arguments,
// usually sourced from the [linter.NAME] manifest sections.
type ExtraArgs map[string][]string

// DefaultRegistry builds the registry of all shipped linters.
func DefaultRegistry(extra ExtraArgs) *Registry {
	reg := NewRegistry()
	reg.Register(NewGovet(extra["govet"]...))
	reg.Register(NewGofmt(extra["gofmt"]...))
	reg.Register(NewStaticcheck(extra["staticcheck"]...))
	reg.Register(NewRevive(extra["revive"]...))
	reg.Register(ModMeta{})
	return reg
}
