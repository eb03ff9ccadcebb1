package launcher

// launcher.go contains utilities for wrapping a kernel binary invocation
// with the cluster job launcher (e.g. srun).

import (
	"strings"

	"al.essio.dev/pkg/shellescape"
	"github.com/urfave/cli/v2"
)

// DefaultCommand is the launcher used when none is configured.
const DefaultCommand = "srun"

// Options describes how binaries are launched.
type Options struct {
	Command string   // Launcher executable, empty runs the binary directly
	Args    []string // Launcher arguments placed before the binary
}

// BuildArgs builds the full argv for running binary with args under the launcher.
func BuildArgs(opts Options, binary string, args []string) []string {
	argv := make([]string, 0, len(opts.Args)+len(args)+2)

	if opts.Command != "" {
		argv = append(argv, opts.Command)
		for _, arg := range opts.Args {
			if arg = strings.TrimSpace(arg); arg != "" {
				argv = append(argv, arg)
			}
		}
	}

	argv = append(argv, binary)
	argv = append(argv, args...)
	return argv
}

// BuildCommand builds the command string for logging and run history.
// It reuses BuildArgs and joins the arguments with proper shell escaping.
func BuildCommand(opts Options, binary string, args []string) string {
	argv := BuildArgs(opts, binary, args)

	parts := make([]string, 0, len(argv))
	for _, arg := range argv {
		parts = append(parts, shellescape.Quote(arg))
	}

	return strings.Join(parts, " ")
}

// CommandFlag returns the launcher executable flag.
func CommandFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "launcher",
		Usage:   "Job launcher wrapping every binary invocation (empty runs binaries directly)",
		Value:   DefaultCommand,
		EnvVars: []string{"KBENCH_LAUNCHER"},
	}
}

// ArgsFlag returns the launcher arguments flag.
func ArgsFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:    "launcher-arg",
		Usage:   "Argument passed to the launcher before the binary (can be specified multiple times)",
		EnvVars: []string{"KBENCH_LAUNCHER_ARGS"},
	}
}
