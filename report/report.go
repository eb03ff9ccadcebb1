package report

// Package report prints console tables for aggregated times, run outcomes
// and the test suite.

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/perfgo/kbench/aggregate"
	"github.com/perfgo/kbench/model"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const missing = "-"

// Speedup returns reference/candidate when both times are present and positive.
func Speedup(reference, candidate aggregate.Sample) aggregate.Sample {
	ref, ok := reference.Value()
	if !ok || ref <= 0 {
		return aggregate.Absent()
	}
	c, ok := candidate.Value()
	if !ok || c <= 0 {
		return aggregate.Absent()
	}
	return aggregate.Present(ref / c)
}

// GeoMeanSpeedup is the geometric mean of the speedups of v over the
// reference, taken over the tests where both have a time.
func GeoMeanSpeedup(result *aggregate.Result, v model.Variant) aggregate.Sample {
	ref := result.Series(model.Reference)
	cand := result.Series(v)

	var speedups []float64
	for i := range result.Axis {
		if s, ok := Speedup(ref.Points[i].Time, cand.Points[i].Time).Value(); ok {
			speedups = append(speedups, s)
		}
	}
	if len(speedups) == 0 {
		return aggregate.Absent()
	}
	return aggregate.Present(stat.GeometricMean(speedups, nil))
}

// Total sums the present times of a series.
func Total(s aggregate.Series) aggregate.Sample {
	var values []float64
	for _, p := range s.Points {
		if v, ok := p.Time.Value(); ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return aggregate.Absent()
	}
	return aggregate.Present(floats.Sum(values))
}

// Times prints declared times per test and variant followed by the speedup
// of every parallel variant over the reference.
func Times(w io.Writer, result *aggregate.Result) {
	all := result.All()
	var parallel []model.Variant
	for _, s := range all {
		if !s.Variant.IsReference() {
			parallel = append(parallel, s.Variant)
		}
	}

	t := newTable(w)
	t.SetTitle("Execution times (seconds)")

	header := table.Row{"Test"}
	configs := []table.ColumnConfig{{Name: "Test", Align: text.AlignRight}}
	for _, s := range all {
		header = append(header, s.Variant.Label())
		configs = append(configs, table.ColumnConfig{Name: s.Variant.Label(), Align: text.AlignRight})
	}
	for _, v := range parallel {
		name := v.Label() + " speedup"
		header = append(header, name)
		configs = append(configs, table.ColumnConfig{Name: name, Align: text.AlignRight})
	}
	t.AppendHeader(header)
	t.SetColumnConfigs(configs)

	ref := result.Series(model.Reference)
	for i, ordinal := range result.Axis {
		row := table.Row{ordinal}
		for _, s := range all {
			row = append(row, formatSeconds(s.Points[i].Time))
		}
		for _, v := range parallel {
			row = append(row, formatSpeedup(Speedup(ref.Points[i].Time, result.Series(v).Points[i].Time)))
		}
		t.AppendRow(row)
	}

	total := table.Row{"TOTAL"}
	for _, s := range all {
		total = append(total, formatSeconds(Total(s)))
	}
	geo := table.Row{"GEOMEAN"}
	for range all {
		geo = append(geo, "")
	}
	for _, v := range parallel {
		total = append(total, "")
		geo = append(geo, formatSpeedup(GeoMeanSpeedup(result, v)))
	}
	t.AppendFooter(total)
	t.AppendFooter(geo)

	t.Render()
}

// RunSummary prints the outcome of every test a run attempted.
func RunSummary(w io.Writer, variant model.Variant, runs []model.TestRun) {
	t := newTable(w)
	t.SetTitle("Run summary: " + variant.Label())
	t.AppendHeader(table.Row{"Test", "Status", "Wall time", "Declared time", "Verification"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Test", Align: text.AlignRight},
		{Name: "Wall time", Align: text.AlignRight},
		{Name: "Declared time", Align: text.AlignRight},
	})

	var succeeded int
	var wall time.Duration
	for _, run := range runs {
		declared := aggregate.Absent()
		if run.DeclaredTime != nil {
			declared = aggregate.Present(*run.DeclaredTime)
		}
		verification := run.Verification
		if verification == "" {
			verification = missing
		}
		if run.Status.Kind == model.ExitSuccess {
			succeeded++
		}
		wall += run.WallTime

		t.AppendRow(table.Row{
			run.Ordinal,
			run.Status.String(),
			formatDuration(run.WallTime),
			formatSeconds(declared),
			verification,
		})
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		strconv.Itoa(succeeded) + "/" + strconv.Itoa(len(runs)) + " succeeded",
		formatDuration(wall),
		"",
		"",
	})

	t.Render()
}

// Suite prints the test cases of a suite.
func Suite(w io.Writer, cases []model.TestCase) {
	t := newTable(w)
	t.SetTitle("Test suite")
	t.AppendHeader(table.Row{"Test", "Size", "Inputs"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Test", Align: text.AlignRight},
		{Name: "Size", Align: text.AlignRight},
		{Name: "Inputs", WidthMax: 120, WidthMaxEnforcer: text.WrapSoft},
	})

	for _, tc := range cases {
		t.AppendRow(table.Row{tc.Ordinal, tc.Size, strings.Join(tc.InputFiles, " ")})
	}

	t.Render()
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func formatSeconds(s aggregate.Sample) string {
	v, ok := s.Value()
	if !ok {
		return missing
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func formatSpeedup(s aggregate.Sample) string {
	v, ok := s.Value()
	if !ok {
		return missing
	}
	return strconv.FormatFloat(v, 'f', 2, 64) + "x"
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
