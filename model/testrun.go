package model

import (
	"fmt"
	"time"
)

// ExitKind classifies how a variant process ended.
type ExitKind string

const (
	ExitSuccess  ExitKind = "success"
	ExitNonZero  ExitKind = "nonzero"
	ExitTimedOut ExitKind = "timed_out"
)

// ExitStatus is the terminal state of a single variant invocation.
type ExitStatus struct {
	Kind ExitKind `json:"kind"`
	// Exit code for ExitNonZero, 0 otherwise
	Code int `json:"code,omitempty"`
}

func (s ExitStatus) String() string {
	switch s.Kind {
	case ExitNonZero:
		return fmt.Sprintf("exit code %d", s.Code)
	case ExitTimedOut:
		return "timed out"
	default:
		return string(s.Kind)
	}
}

// TestRun is the outcome of running one variant against one test case.
// It is created once by the runner and never modified afterwards.
type TestRun struct {
	// Ordinal of the test case
	Ordinal int `json:"ordinal"`
	// Variant that was executed
	Variant Variant `json:"variant"`
	// How the process ended
	Status ExitStatus `json:"status"`
	// Result file the standard output was written to
	ResultFile string `json:"result_file"`
	// Wall clock time spent waiting for the process
	WallTime time.Duration `json:"wall_time"`
	// Command line that was executed, shell escaped
	Command string `json:"command"`
	// Elapsed seconds declared by the kernel on its Time: line
	DeclaredTime *float64 `json:"declared_time,omitempty"`
	// Verification against the reference, empty for the reference itself
	Verification string `json:"verification,omitempty"`
}
