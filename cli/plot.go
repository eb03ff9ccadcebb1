package cli

// This file contains the plot and report commands reading the result files.

import (
	"fmt"

	"github.com/perfgo/kbench/aggregate"
	"github.com/perfgo/kbench/chart"
	"github.com/perfgo/kbench/report"
	"github.com/perfgo/kbench/resultfile"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/plot/vg"
)

func (a *App) aggregate(ctx *cli.Context) (*aggregate.Result, error) {
	store := resultfile.NewStore(ctx.String("results-dir"))
	result, err := aggregate.New(a.logger, store).Aggregate()
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate results in %s: %w", store.Dir(), err)
	}
	return result, nil
}

func (a *App) plot(ctx *cli.Context) error {
	width, err := vg.ParseLength(ctx.String("width"))
	if err != nil {
		return fmt.Errorf("invalid width: %w", err)
	}
	height, err := vg.ParseLength(ctx.String("height"))
	if err != nil {
		return fmt.Errorf("invalid height: %w", err)
	}

	result, err := a.aggregate(ctx)
	if err != nil {
		return err
	}

	output := ctx.String("output")
	opts := chart.Options{
		Title:  ctx.String("title"),
		Width:  width,
		Height: height,
	}
	if err := chart.Plot(result, output, opts); err != nil {
		return err
	}

	a.logger.Info().
		Str("output", output).
		Int("tests", len(result.Axis)).
		Msg("Chart written")
	return nil
}

func (a *App) report(ctx *cli.Context) error {
	result, err := a.aggregate(ctx)
	if err != nil {
		return err
	}
	if len(result.Axis) == 0 {
		fmt.Fprintln(ctx.App.Writer, "No result files found")
		return nil
	}

	report.Times(ctx.App.Writer, result)
	return nil
}

func (a *App) suite(ctx *cli.Context) error {
	s, err := a.loadSuite(ctx)
	if err != nil {
		return err
	}

	report.Suite(ctx.App.Writer, s.Cases())
	return nil
}
