package verify

// Package verify cross-checks the result declared by a parallel variant
// against the sequential reference for the same test case.

import (
	"errors"
	"fmt"

	"github.com/perfgo/kbench/model"
	"github.com/perfgo/kbench/resultfile"
)

// ErrResultIO is returned when a result file is missing or unreadable.
var ErrResultIO = errors.New("result file unreadable")

// Outcome is the result of comparing two declared results.
type Outcome int

const (
	Mismatch Outcome = iota
	Match
)

func (o Outcome) String() string {
	if o == Match {
		return "match"
	}
	return "mismatch"
}

// Compare matches two records. Both results must be present and identical;
// two absent results do not match.
func Compare(reference, candidate resultfile.Record) Outcome {
	ref, ok := reference.Result()
	if !ok {
		return Mismatch
	}
	got, ok := candidate.Result()
	if !ok {
		return Mismatch
	}
	if ref != got {
		return Mismatch
	}
	return Match
}

// Verifier compares result files in a store.
type Verifier struct {
	store *resultfile.Store
}

// New returns a verifier reading from store.
func New(store *resultfile.Store) *Verifier {
	return &Verifier{store: store}
}

// Verify compares the declared result of variant for test ordinal against
// the reference variant's. Only the Result: lines are read.
func (v *Verifier) Verify(ordinal int, variant model.Variant) (Outcome, error) {
	refID := resultfile.ID{Ordinal: ordinal, Variant: model.Reference}
	reference, err := v.store.ReadResult(refID)
	if err != nil {
		return Mismatch, fmt.Errorf("%w: %s: %w", ErrResultIO, refID, err)
	}

	id := resultfile.ID{Ordinal: ordinal, Variant: variant}
	candidate, err := v.store.ReadResult(id)
	if err != nil {
		return Mismatch, fmt.Errorf("%w: %s: %w", ErrResultIO, id, err)
	}

	return Compare(reference, candidate), nil
}
