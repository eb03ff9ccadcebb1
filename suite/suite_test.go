package suite

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/perfgo/kbench/model"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	s := Default()
	cases := s.Cases()
	require.Len(t, cases, 10)
	for i, tc := range cases {
		require.Equal(t, i+1, tc.Ordinal)
	}
	require.Equal(t, "35", cases[0].Size)
	require.Len(t, cases[1].InputFiles, 6)
	// the last two cases share an input file with different sizes
	require.Equal(t, cases[8].InputFiles, cases[9].InputFiles)
	require.Equal(t, "16", cases[8].Size)
	require.Equal(t, "17", cases[9].Size)
}

func TestCasesReturnsCopy(t *testing.T) {
	s := Default()
	cases := s.Cases()
	cases[0].Size = "changed"
	cases[0].InputFiles[0] = "changed"
	require.Equal(t, "35", s.Cases()[0].Size)
	require.Equal(t, "test_01_a35_p8_w1", s.Cases()[0].InputFiles[0])
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name  string
		cases []model.TestCase
	}{
		{name: "empty", cases: nil},
		{name: "missing size", cases: []model.TestCase{{InputFiles: []string{"a"}}}},
		{name: "missing inputs", cases: []model.TestCase{{Size: "1"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cases)
			require.True(t, errors.Is(err, ErrInvalidSuite))
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "suite.yaml")
	content := `tests:
  - size: "35"
    inputs: [a, b]
  - size: "20"
    inputs:
      - c
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []model.TestCase{
		{Ordinal: 1, Size: "35", InputFiles: []string{"a", "b"}},
		{Ordinal: 2, Size: "20", InputFiles: []string{"c"}},
	}, s.Cases())
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("tests: [\n"), 0644))
	_, err = Load(bad)
	require.True(t, errors.Is(err, ErrInvalidSuite))
}
