package aggregate

// Package aggregate turns a directory of result files into one time series
// per variant, all aligned on the same sorted axis of test numbers.

import (
	"fmt"
	"sort"

	"github.com/perfgo/kbench/model"
	"github.com/perfgo/kbench/resultfile"
	"github.com/rs/zerolog"
)

// Sample is a time value that is either present or explicitly absent.
// The zero Sample is absent.
type Sample struct {
	value   float64
	present bool
}

// Present returns a sample holding v seconds.
func Present(v float64) Sample {
	return Sample{value: v, present: true}
}

// Absent returns a sample marking missing data.
func Absent() Sample {
	return Sample{}
}

// Value returns the seconds and whether the sample is present.
func (s Sample) Value() (float64, bool) {
	return s.value, s.present
}

// IsPresent reports whether the sample holds a value.
func (s Sample) IsPresent() bool {
	return s.present
}

// Point is one position of a series.
type Point struct {
	Ordinal int
	Time    Sample
}

// Series is the declared times of one variant over the shared axis.
type Series struct {
	Variant model.Variant
	Points  []Point
}

// Present returns the number of points holding a value.
func (s Series) Present() int {
	n := 0
	for _, p := range s.Points {
		if p.Time.IsPresent() {
			n++
		}
	}
	return n
}

// At returns the sample for ordinal, absent if ordinal is not on the axis.
func (s Series) At(ordinal int) Sample {
	i := sort.Search(len(s.Points), func(i int) bool { return s.Points[i].Ordinal >= ordinal })
	if i < len(s.Points) && s.Points[i].Ordinal == ordinal {
		return s.Points[i].Time
	}
	return Absent()
}

// Result holds every variant's series. All series share Axis.
type Result struct {
	Axis   []int
	series map[model.Variant]Series
}

// Series returns the series of v. Every known variant has one.
func (r *Result) Series(v model.Variant) Series {
	if s, ok := r.series[v]; ok {
		return s
	}
	return alignedSeries(v, r.Axis, nil)
}

// All returns the series of every known variant in display order.
func (r *Result) All() []Series {
	variants := model.Variants()
	out := make([]Series, 0, len(variants))
	for _, v := range variants {
		out = append(out, r.Series(v))
	}
	return out
}

// Observation is one parsed result file.
type Observation struct {
	ID     resultfile.ID
	Record resultfile.Record
}

// Build aligns observations. The axis is every ordinal observed in any
// file, with or without a Time line; a variant without a time for an
// ordinal gets an absent sample there. When the same ID is observed twice
// the first observation wins.
func Build(observations []Observation) *Result {
	ordinals := make(map[int]struct{})
	times := make(map[model.Variant]map[int]float64)

	seen := make(map[resultfile.ID]struct{}, len(observations))
	for _, obs := range observations {
		if _, dup := seen[obs.ID]; dup {
			continue
		}
		seen[obs.ID] = struct{}{}

		ordinals[obs.ID.Ordinal] = struct{}{}
		if seconds, ok := obs.Record.Time(); ok {
			if times[obs.ID.Variant] == nil {
				times[obs.ID.Variant] = make(map[int]float64)
			}
			times[obs.ID.Variant][obs.ID.Ordinal] = seconds
		}
	}

	axis := make([]int, 0, len(ordinals))
	for o := range ordinals {
		axis = append(axis, o)
	}
	sort.Ints(axis)

	result := &Result{
		Axis:   axis,
		series: make(map[model.Variant]Series),
	}
	for _, v := range model.Variants() {
		result.series[v] = alignedSeries(v, axis, times[v])
	}
	return result
}

func alignedSeries(v model.Variant, axis []int, times map[int]float64) Series {
	points := make([]Point, len(axis))
	for i, ordinal := range axis {
		points[i] = Point{Ordinal: ordinal, Time: Absent()}
		if seconds, ok := times[ordinal]; ok {
			points[i].Time = Present(seconds)
		}
	}
	return Series{Variant: v, Points: points}
}

// Aggregator reads result files from a store.
type Aggregator struct {
	logger zerolog.Logger
	store  *resultfile.Store
}

// New creates an aggregator over store.
func New(logger zerolog.Logger, store *resultfile.Store) *Aggregator {
	return &Aggregator{logger: logger, store: store}
}

// Aggregate reads every result file and builds the aligned series. Files
// that do not follow the naming convention are skipped; a file with a
// malformed Time line fails the aggregation.
func (a *Aggregator) Aggregate() (*Result, error) {
	entries, skipped, err := a.store.List()
	if err != nil {
		return nil, err
	}

	for _, name := range skipped {
		a.logger.Warn().Str("file", name).Str("dir", a.store.Dir()).Msg("Skipping file that is not a result file")
	}

	observations := make([]Observation, 0, len(entries))
	seen := make(map[resultfile.ID]string, len(entries))
	for _, entry := range entries {
		if first, dup := seen[entry.ID]; dup {
			a.logger.Warn().Str("file", entry.Name).Str("kept", first).Msg("Skipping duplicate result file")
			continue
		}
		seen[entry.ID] = entry.Name

		rec, err := a.store.ReadEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("failed to read result for %s: %w", entry.ID, err)
		}
		if _, ok := rec.Time(); !ok {
			a.logger.Debug().Str("file", entry.Name).Msg("Result file has no Time line")
		}

		observations = append(observations, Observation{ID: entry.ID, Record: rec})
	}

	result := Build(observations)
	a.logger.Debug().Ints("axis", result.Axis).Int("files", len(observations)).Msg("Aggregated result files")
	return result, nil
}
