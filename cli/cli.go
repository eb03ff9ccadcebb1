package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/perfgo/kbench/chart"
	"github.com/perfgo/kbench/history"
	"github.com/perfgo/kbench/launcher"
	"github.com/perfgo/kbench/model"
	"github.com/perfgo/kbench/resultfile"
	"github.com/perfgo/kbench/runner"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const AppName = "kbench"

const envVarPrefix = "KBENCH"

type App struct {
	logger zerolog.Logger
	cli    *cli.App
}

func New() *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		})

	app := &App{
		logger: logger,
		cli: &cli.App{
			Name:      AppName,
			Usage:     "Run, verify and compare the variants of a compute kernel",
			ArgsUsage: "[VARIANT]",
			Flags: append([]cli.Flag{
				&cli.BoolFlag{
					Name:    "verbose",
					Usage:   "Enable verbose (debug) logging",
					EnvVars: prefixEnvVars("VERBOSE"),
				},
			}, runFlags()...),
			Before: func(ctx *cli.Context) error {
				if ctx.Bool("verbose") {
					zerolog.SetGlobalLevel(zerolog.DebugLevel)
				}
				return nil
			},
		},
	}
	// kbench VARIANT is short for kbench run VARIANT
	app.cli.Action = func(ctx *cli.Context) error {
		if ctx.NArg() == 0 {
			return cli.ShowAppHelp(ctx)
		}
		return app.run(ctx)
	}
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "run",
		Usage:     "Run one variant against every test case of the suite",
		ArgsUsage: "VARIANT",
		Action:    app.run,
		Description: fmt.Sprintf(`Run one variant of the kernel against every test case, in order.

The standard output of every test case is written to
<results-dir>/test_<NN>_<variant>.txt. Parallel variants are verified
against the %s results of the same test case.

A test case exceeding the timeout is killed and the run continues. A test
case exiting with a nonzero status stops the run.

Variants: %s`, model.Reference, strings.Join(model.VariantTags(), ", ")),
		Flags: runFlags(),
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "plot",
		Usage:  "Plot the declared execution times of all result files",
		Action: app.plot,
		Flags: []cli.Flag{
			resultsDirFlag(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Chart file, the format follows the extension (png, svg, pdf)",
				Value:   chart.DefaultOutput,
				EnvVars: prefixEnvVars("PLOT_OUTPUT"),
			},
			&cli.StringFlag{
				Name:    "title",
				Usage:   "Chart title",
				Value:   chart.DefaultTitle,
				EnvVars: prefixEnvVars("PLOT_TITLE"),
			},
			&cli.StringFlag{
				Name:    "width",
				Usage:   "Chart width (e.g. 12in, 30cm)",
				Value:   "12in",
				EnvVars: prefixEnvVars("PLOT_WIDTH"),
			},
			&cli.StringFlag{
				Name:    "height",
				Usage:   "Chart height (e.g. 7in, 18cm)",
				Value:   "7in",
				EnvVars: prefixEnvVars("PLOT_HEIGHT"),
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "report",
		Usage:  "Print declared execution times and speedups of all result files",
		Action: app.report,
		Flags: []cli.Flag{
			resultsDirFlag(),
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "list",
		Usage:  "List previous runs",
		Action: app.list,
		Flags: []cli.Flag{
			historyDirFlag(),
			&cli.StringFlag{
				Name:    "variant",
				Usage:   "Only show runs of this variant",
				EnvVars: prefixEnvVars("LIST_VARIANT"),
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Limit number of results (default: 20)",
				Value:   20,
				EnvVars: prefixEnvVars("LIST_LIMIT"),
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "view",
		Usage:     "View a previous run from history",
		ArgsUsage: "[ID|INDEX]",
		Action:    app.view,
		Flags: []cli.Flag{
			historyDirFlag(),
		},
		Description: `View a previous run from history.

Arguments:
  0           View last run (default)
  -1          View 2nd last run
  <hex-id>    View run matching the hex ID prefix`,
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "suite",
		Usage:  "Print the test suite",
		Action: app.suite,
		Flags: []cli.Flag{
			suiteFlag(),
		},
	})
	return app
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && commit != "" {
		short := commit
		if len(short) > 8 {
			short = short[:8]
		}
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, short, date)
	}
}

func prefixEnvVars(name string) []string {
	return []string{envVarPrefix + "_" + name}
}

func runFlags() []cli.Flag {
	return []cli.Flag{
		resultsDirFlag(),
		&cli.StringFlag{
			Name:    "inputs-dir",
			Usage:   "Directory holding the test input files",
			Value:   "./test_files",
			EnvVars: prefixEnvVars("INPUTS_DIR"),
		},
		&cli.StringFlag{
			Name:    "bin-dir",
			Usage:   "Directory holding the variant binaries",
			Value:   ".",
			EnvVars: prefixEnvVars("BIN_DIR"),
		},
		launcher.CommandFlag(),
		launcher.ArgsFlag(),
		&cli.DurationFlag{
			Name:    "timeout",
			Usage:   "Wall clock limit of a single test case (0 disables it)",
			Value:   runner.DefaultTimeout,
			EnvVars: prefixEnvVars("TIMEOUT"),
		},
		suiteFlag(),
		&cli.StringFlag{
			Name:    "metrics-file",
			Usage:   "Write Prometheus metrics of the run to this textfile",
			EnvVars: prefixEnvVars("METRICS_FILE"),
		},
		historyDirFlag(),
		&cli.BoolFlag{
			Name:    "no-history",
			Usage:   "Do not record the run in the history directory",
			EnvVars: prefixEnvVars("NO_HISTORY"),
		},
	}
}

func resultsDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "results-dir",
		Usage:   "Directory holding the result files",
		Value:   resultfile.DefaultDir,
		EnvVars: prefixEnvVars("RESULTS_DIR"),
	}
}

func historyDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "history-dir",
		Usage:   "Directory holding the run history",
		Value:   history.DefaultDir,
		EnvVars: prefixEnvVars("HISTORY_DIR"),
	}
}

func suiteFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "suite",
		Usage:   "YAML file defining the test suite (default: built-in suite)",
		EnvVars: prefixEnvVars("SUITE"),
	}
}
