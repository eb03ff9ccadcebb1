package suite

// Package suite holds the ordered list of test cases every variant is run
// against. The list is built once at startup and never modified.

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/perfgo/kbench/model"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSuite is returned when a suite definition is unusable.
var ErrInvalidSuite = errors.New("invalid test suite")

// Suite is an immutable, ordered list of test cases.
type Suite struct {
	cases []model.TestCase
}

// file is the on-disk YAML layout of a suite.
type file struct {
	Tests []model.TestCase `yaml:"tests"`
}

// New builds a suite from cases, assigning ordinals by position.
func New(cases []model.TestCase) (*Suite, error) {
	if len(cases) == 0 {
		return nil, fmt.Errorf("%w: no test cases", ErrInvalidSuite)
	}
	s := &Suite{cases: make([]model.TestCase, 0, len(cases))}
	for i, tc := range cases {
		tc.Ordinal = i + 1
		if strings.TrimSpace(tc.Size) == "" {
			return nil, fmt.Errorf("%w: test %d has no size", ErrInvalidSuite, tc.Ordinal)
		}
		if len(tc.InputFiles) == 0 {
			return nil, fmt.Errorf("%w: test %d has no input files", ErrInvalidSuite, tc.Ordinal)
		}
		tc.InputFiles = append([]string(nil), tc.InputFiles...)
		s.cases = append(s.cases, tc)
	}
	return s, nil
}

// Load reads a suite from a YAML file of the form
//
//	tests:
//	  - size: "35"
//	    inputs: [test_01_a35_p8_w1, test_01_a35_p7_w2]
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidSuite, path, err)
	}
	return New(f.Tests)
}

// Cases returns a copy of the test cases in execution order.
func (s *Suite) Cases() []model.TestCase {
	out := make([]model.TestCase, len(s.cases))
	for i, tc := range s.cases {
		tc.InputFiles = append([]string(nil), tc.InputFiles...)
		out[i] = tc
	}
	return out
}

// Len returns the number of test cases.
func (s *Suite) Len() int {
	return len(s.cases)
}

// Default returns the built-in suite of the energy storms kernel.
func Default() *Suite {
	s, err := New([]model.TestCase{
		{Size: "35", InputFiles: []string{"test_01_a35_p8_w1", "test_01_a35_p7_w2", "test_01_a35_p5_w3", "test_01_a35_p8_w4"}},
		{Size: "30000", InputFiles: []string{"test_02_a30k_p20k_w1", "test_02_a30k_p20k_w2", "test_02_a30k_p20k_w3", "test_02_a30k_p20k_w4", "test_02_a30k_p20k_w5", "test_02_a30k_p20k_w6"}},
		{Size: "20", InputFiles: []string{"test_03_a20_p4_w1"}},
		{Size: "20", InputFiles: []string{"test_04_a20_p4_w1"}},
		{Size: "20", InputFiles: []string{"test_05_a20_p4_w1"}},
		{Size: "20", InputFiles: []string{"test_06_a20_p4_w1"}},
		{Size: "1000000", InputFiles: []string{"test_07_a1M_p5k_w1", "test_07_a1M_p5k_w2", "test_07_a1M_p5k_w3", "test_07_a1M_p5k_w4"}},
		{Size: "100000000", InputFiles: []string{"test_08_a100M_p1_w1", "test_08_a100M_p1_w2", "test_08_a100M_p1_w3"}},
		{Size: "16", InputFiles: []string{"test_09_a16-17_p3_w1"}},
		{Size: "17", InputFiles: []string{"test_09_a16-17_p3_w1"}},
	})
	if err != nil {
		panic(err)
	}
	return s
}
