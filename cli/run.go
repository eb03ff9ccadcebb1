package cli

// This file contains the run command executing one variant against the
// test suite.

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/perfgo/kbench/launcher"
	"github.com/perfgo/kbench/metrics"
	"github.com/perfgo/kbench/model"
	"github.com/perfgo/kbench/report"
	"github.com/perfgo/kbench/resultfile"
	"github.com/perfgo/kbench/runner"
	"github.com/perfgo/kbench/suite"
	"github.com/urfave/cli/v2"
)

// parseVariantArg validates the positional arguments of run.
func parseVariantArg(args []string) (model.Variant, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("expected exactly one variant argument, one of: %s", strings.Join(model.VariantTags(), ", "))
	}
	v, err := model.ParseVariant(args[0])
	if err != nil {
		return "", fmt.Errorf("%w, expected one of: %s", err, strings.Join(model.VariantTags(), ", "))
	}
	return v, nil
}

func (a *App) loadSuite(ctx *cli.Context) (*suite.Suite, error) {
	path := ctx.String("suite")
	if path == "" {
		return suite.Default(), nil
	}
	s, err := suite.Load(path)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().Str("path", path).Int("tests", s.Len()).Msg("Loaded test suite")
	return s, nil
}

func (a *App) run(ctx *cli.Context) error {
	startTime := time.Now()

	variant, err := parseVariantArg(ctx.Args().Slice())
	if err != nil {
		return fmt.Errorf("usage: %s [run] VARIANT: %w", AppName, err)
	}

	s, err := a.loadSuite(ctx)
	if err != nil {
		return err
	}

	cfg := runner.Config{
		BinDir:    ctx.String("bin-dir"),
		InputsDir: ctx.String("inputs-dir"),
		Launcher: launcher.Options{
			Command: ctx.String("launcher"),
			Args:    ctx.StringSlice("launcher-arg"),
		},
		Timeout: ctx.Duration("timeout"),
	}
	store := resultfile.NewStore(ctx.String("results-dir"))
	recorder := metrics.New()
	r := runner.New(a.logger, cfg, store, runner.WithRecorder(recorder))

	runCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.logger.Info().
		Str("variant", variant.Tag()).
		Int("tests", s.Len()).
		Str("results", store.Dir()).
		Dur("timeout", cfg.Timeout).
		Msg("Starting run")

	runs, runErr := r.Run(runCtx, variant, s.Cases())

	h := a.newHistory(variant, startTime, cfg, store)
	h.Tests = runs
	h.Duration = time.Since(startTime)
	if runErr != nil {
		h.ExitCode = 1
		h.Error = runErr.Error()
	}

	if !ctx.Bool("no-history") {
		if _, err := a.recordHistory(ctx.String("history-dir"), h); err != nil {
			a.logger.Warn().Err(err).Msg("Failed to record run history")
		}
	}

	if path := ctx.String("metrics-file"); path != "" {
		if err := recorder.WriteTextfile(path); err != nil {
			runErr = errors.Join(runErr, err)
		} else {
			a.logger.Debug().Str("path", path).Msg("Wrote metrics")
		}
	}

	if len(runs) > 0 {
		report.RunSummary(ctx.App.Writer, variant, runs)
	}

	if runErr != nil {
		return runErr
	}

	a.logger.Info().
		Str("variant", variant.Tag()).
		Dur("duration", h.Duration).
		Msg("Run completed")
	return nil
}
