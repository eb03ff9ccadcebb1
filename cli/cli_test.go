package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/perfgo/kbench/model"
	"github.com/perfgo/kbench/runner"
	"github.com/stretchr/testify/require"
)

type workspace struct {
	dir string
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script binaries are not supported on windows")
	}
	w := &workspace{dir: t.TempDir()}
	require.NoError(t, os.Mkdir(w.path("bin"), 0755))
	require.NoError(t, os.WriteFile(w.path("suite.yaml"), []byte(`tests:
  - size: "35"
    inputs: [a]
  - size: "20"
    inputs: [b, c]
`), 0644))
	return w
}

func (w *workspace) path(name string) string {
	return filepath.Join(w.dir, name)
}

func (w *workspace) binary(t *testing.T, v model.Variant, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(w.path("bin"), v.Binary()), []byte("#!/bin/sh\n"+body+"\n"), 0755))
}

func (w *workspace) kbench(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	app := New()
	app.cli.Writer = &buf
	app.cli.ErrWriter = &buf
	err := app.Run(append([]string{AppName}, args...))
	return buf.String(), err
}

func (w *workspace) run(t *testing.T, variant string) (string, error) {
	return w.kbench(t, "run",
		"--bin-dir", w.path("bin"),
		"--inputs-dir", w.path("inputs"),
		"--results-dir", w.path("results"),
		"--history-dir", w.path("history"),
		"--suite", w.path("suite.yaml"),
		"--launcher=",
		variant,
	)
}

func TestParseVariantArg(t *testing.T) {
	v, err := parseVariantArg([]string{"OMP"})
	require.NoError(t, err)
	require.Equal(t, model.VariantMultiThread, v)

	_, err = parseVariantArg([]string{"cuda"})
	require.True(t, errors.Is(err, model.ErrUnknownVariant))
	require.ErrorContains(t, err, "seq, mpi, omp, hip")

	_, err = parseVariantArg(nil)
	require.ErrorContains(t, err, "expected exactly one variant")

	_, err = parseVariantArg([]string{"seq", "omp"})
	require.Error(t, err)
}

func TestRunReportPlot(t *testing.T) {
	w := newWorkspace(t)
	w.binary(t, model.VariantSequential, `case "$1" in
  35) echo "Result: 42.0"; echo "Time: 1.5" ;;
  *) echo "Result: 7"; echo "Time: 2" ;;
esac`)
	w.binary(t, model.VariantMultiThread, `case "$1" in
  35) echo "Result: 42.0"; echo "Time: 0.3" ;;
  *) echo "Result: 8"; echo "Time: 0.5" ;;
esac`)

	out, err := w.run(t, "seq")
	require.NoError(t, err)
	require.Contains(t, strings.ToLower(out), "run summary: seq")

	metricsFile := w.path("kbench.prom")
	out, err = w.kbench(t, "run",
		"--bin-dir", w.path("bin"),
		"--results-dir", w.path("results"),
		"--history-dir", w.path("history"),
		"--suite", w.path("suite.yaml"),
		"--metrics-file", metricsFile,
		"--launcher=",
		"omp",
	)
	require.NoError(t, err)
	require.Contains(t, out, "mismatch")

	metrics, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	require.Contains(t, string(metrics), `kbench_verifications_total{outcome="match",variant="omp"} 1`)

	data, err := os.ReadFile(filepath.Join(w.path("results"), "test_01_omp.txt"))
	require.NoError(t, err)
	require.Equal(t, "Result: 42.0\nTime: 0.3\n", string(data))

	out, err = w.kbench(t, "report", "--results-dir", w.path("results"))
	require.NoError(t, err)
	require.Contains(t, out, "5.00x")
	require.Contains(t, out, "4.00x")

	chartFile := w.path("times.png")
	_, err = w.kbench(t, "plot", "--results-dir", w.path("results"), "--output", chartFile)
	require.NoError(t, err)
	info, err := os.Stat(chartFile)
	require.NoError(t, err)
	require.NotZero(t, info.Size())

	out, err = w.kbench(t, "list", "--history-dir", w.path("history"))
	require.NoError(t, err)
	require.Contains(t, out, "History (2 total)")
	require.Contains(t, out, "1 not verified")

	out, err = w.kbench(t, "list", "--history-dir", w.path("history"), "--variant", "seq")
	require.NoError(t, err)
	require.Contains(t, out, "History (1 total)")

	out, err = w.kbench(t, "view", "--history-dir", w.path("history"), "0")
	require.NoError(t, err)
	require.Contains(t, out, "Variant: OMP")
}

func TestRunWithoutCommand(t *testing.T) {
	w := newWorkspace(t)
	w.binary(t, model.VariantSequential, `echo "Result: 1"; echo "Time: 1"`)

	tests := []struct {
		name     string
		args     []string
		wantOut  string
		wantFile bool
	}{
		{
			name:    "no arguments shows help",
			wantOut: "USAGE:",
		},
		{
			name: "bare variant runs",
			args: []string{
				"--bin-dir", w.path("bin"),
				"--results-dir", w.path("results"),
				"--history-dir", w.path("history"),
				"--suite", w.path("suite.yaml"),
				"--launcher=",
				"seq",
			},
			wantOut:  "run summary: seq",
			wantFile: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := w.kbench(t, tt.args...)
			require.NoError(t, err)
			if tt.wantFile {
				out = strings.ToLower(out)
				data, err := os.ReadFile(filepath.Join(w.path("results"), "test_02_seq.txt"))
				require.NoError(t, err)
				require.Equal(t, "Result: 1\nTime: 1\n", string(data))
			}
			require.Contains(t, out, tt.wantOut)
		})
	}

	_, err := w.kbench(t, "cuda")
	require.True(t, errors.Is(err, model.ErrUnknownVariant))
}

func TestRunNonZeroExit(t *testing.T) {
	w := newWorkspace(t)
	w.binary(t, model.VariantMultiProcess, `echo "Result: 1"; exit 2`)

	out, err := w.run(t, "mpi")
	require.Error(t, err)
	require.True(t, errors.Is(err, runner.ErrVariantFailed))
	require.Contains(t, out, "exit code 2")

	out, err = w.kbench(t, "view", "--history-dir", w.path("history"))
	require.NoError(t, err)
	require.Contains(t, out, "Exit Code: 1")
}

func TestRunInvalidVariant(t *testing.T) {
	w := newWorkspace(t)

	_, err := w.run(t, "cuda")
	require.True(t, errors.Is(err, model.ErrUnknownVariant))

	_, statErr := os.Stat(w.path("results"))
	require.True(t, os.IsNotExist(statErr))
}

func TestRunNoHistory(t *testing.T) {
	w := newWorkspace(t)
	w.binary(t, model.VariantSequential, `echo "Result: 1"; echo "Time: 1"`)

	_, err := w.kbench(t, "run",
		"--bin-dir", w.path("bin"),
		"--results-dir", w.path("results"),
		"--history-dir", w.path("history"),
		"--suite", w.path("suite.yaml"),
		"--launcher=",
		"--no-history",
		"seq",
	)
	require.NoError(t, err)

	out, err := w.kbench(t, "list", "--history-dir", w.path("history"))
	require.NoError(t, err)
	require.Contains(t, out, "No history entries found")
}

func TestSuiteCommand(t *testing.T) {
	w := newWorkspace(t)

	out, err := w.kbench(t, "suite")
	require.NoError(t, err)
	require.Contains(t, out, "test_08_a100M_p1_w1")

	out, err = w.kbench(t, "suite", "--suite", w.path("suite.yaml"))
	require.NoError(t, err)
	require.Contains(t, out, "b c")
	require.NotContains(t, out, "test_08_a100M_p1_w1")
}

func TestPlotWithoutResults(t *testing.T) {
	w := newWorkspace(t)
	require.NoError(t, os.Mkdir(w.path("results"), 0755))

	_, err := w.kbench(t, "plot", "--results-dir", w.path("results"), "--output", w.path("c.png"))
	require.Error(t, err)
}
