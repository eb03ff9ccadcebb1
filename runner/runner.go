package runner

// Package runner executes a kernel variant against every test case of a
// suite, one at a time, capturing standard output to the result files and
// verifying parallel variants against the sequential reference.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/perfgo/kbench/launcher"
	"github.com/perfgo/kbench/model"
	"github.com/perfgo/kbench/resultfile"
	"github.com/perfgo/kbench/verify"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds the wall clock time of a single test case.
const DefaultTimeout = 600 * time.Second

// waitDelay bounds how long Wait blocks on output copying after the process is killed.
const waitDelay = 5 * time.Second

// Verification labels stored on model.TestRun.
const (
	VerificationMatch    = "match"
	VerificationMismatch = "mismatch"
	VerificationError    = "error"
)

// ErrVariantFailed is matched by errors from a variant exiting with a nonzero status.
var ErrVariantFailed = errors.New("variant failed")

// ExitError reports the nonzero exit that aborted a run.
type ExitError struct {
	Ordinal int
	Variant model.Variant
	Size    string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s returned the error code %d for size %s (test %d)", e.Variant.Binary(), e.Code, e.Size, e.Ordinal)
}

func (e *ExitError) Unwrap() error {
	return ErrVariantFailed
}

// Recorder receives every completed test run.
type Recorder interface {
	RecordRun(run model.TestRun)
}

// Config contains the locations and limits of a run.
type Config struct {
	BinDir    string           // Directory holding the variant binaries
	InputsDir string           // Directory holding the test input files
	Launcher  launcher.Options // Job launcher wrapping each invocation
	Timeout   time.Duration    // Per-test wall clock limit, 0 disables it
}

// Runner runs variants sequentially; it never runs two test cases at once.
type Runner struct {
	logger   zerolog.Logger
	cfg      Config
	store    *resultfile.Store
	verifier *verify.Verifier
	recorder Recorder
	stderr   io.Writer
}

// Option is a function that configures a Runner.
type Option func(*Runner)

// WithRecorder reports every test run to rec.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) {
		r.recorder = rec
	}
}

// WithStderr sets where the variants' standard error goes (default os.Stderr).
func WithStderr(w io.Writer) Option {
	return func(r *Runner) {
		r.stderr = w
	}
}

// New creates a runner writing result files to store.
func New(logger zerolog.Logger, cfg Config, store *resultfile.Store, opts ...Option) *Runner {
	r := &Runner{
		logger:   logger,
		cfg:      cfg,
		store:    store,
		verifier: verify.New(store),
		stderr:   os.Stderr,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run executes variant for every case in order. Timeouts and verification
// failures are reported and the run continues; a nonzero exit stops the run
// and is returned as an *ExitError. The returned runs cover every test case
// attempted, including the one that failed.
func (r *Runner) Run(ctx context.Context, variant model.Variant, cases []model.TestCase) ([]model.TestRun, error) {
	if err := r.store.Init(); err != nil {
		return nil, err
	}

	runs := make([]model.TestRun, 0, len(cases))
	for _, tc := range cases {
		run, err := r.RunTest(ctx, variant, tc)
		if err != nil {
			if run.Ordinal != 0 {
				r.record(run)
				runs = append(runs, run)
			}
			return runs, err
		}

		if !variant.IsReference() {
			run.Verification = r.verify(run)
		}

		r.record(run)
		runs = append(runs, run)
	}

	return runs, nil
}

// RunTest executes variant for a single test case and waits until it exits
// or is killed on timeout. The result file is complete when RunTest returns.
func (r *Runner) RunTest(ctx context.Context, variant model.Variant, tc model.TestCase) (model.TestRun, error) {
	id := resultfile.ID{Ordinal: tc.Ordinal, Variant: variant}

	binary := r.binaryPath(variant)
	args := tc.Args(r.inputPath)
	argv := launcher.BuildArgs(r.cfg.Launcher, binary, args)

	run := model.TestRun{
		Ordinal:    tc.Ordinal,
		Variant:    variant,
		ResultFile: r.store.Path(id),
		Command:    launcher.BuildCommand(r.cfg.Launcher, binary, args),
	}

	out, err := r.store.Create(id)
	if err != nil {
		return model.TestRun{}, err
	}

	testCtx := ctx
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		testCtx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(testCtx, argv[0], argv[1:]...)
	cmd.Stdout = out
	cmd.Stderr = r.stderr
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)

	r.logger.Debug().
		Int("test", tc.Ordinal).
		Str("variant", variant.Tag()).
		Str("command", run.Command).
		Str("output", run.ResultFile).
		Dur("timeout", r.cfg.Timeout).
		Msg("Starting test execution")

	start := time.Now()
	runErr := cmd.Run()
	run.WallTime = time.Since(start)

	if err := out.Close(); err != nil {
		r.logger.Warn().Err(err).Str("file", run.ResultFile).Msg("Failed to close result file")
	}
	r.loadOutput(&run)

	if runErr == nil {
		run.Status = model.ExitStatus{Kind: model.ExitSuccess}
		r.logger.Info().
			Int("test", tc.Ordinal).
			Str("variant", variant.Tag()).
			Dur("wall_time", run.WallTime).
			Msg("Test completed successfully")
		return run, nil
	}

	if ctx.Err() != nil {
		return model.TestRun{}, fmt.Errorf("test %d interrupted: %w", tc.Ordinal, ctx.Err())
	}

	// Check for timeout before looking at the exit status: the kill is what made it fail
	if errors.Is(testCtx.Err(), context.DeadlineExceeded) {
		run.Status = model.ExitStatus{Kind: model.ExitTimedOut}
		r.logger.Warn().
			Int("test", tc.Ordinal).
			Str("variant", variant.Tag()).
			Str("binary", variant.Binary()).
			Str("size", tc.Size).
			Dur("timeout", r.cfg.Timeout).
			Msg("Test timed out and was terminated")
		return run, nil
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		run.Status = model.ExitStatus{Kind: model.ExitNonZero, Code: exitErr.ExitCode()}
		r.logger.Error().
			Int("test", tc.Ordinal).
			Str("variant", variant.Tag()).
			Str("binary", variant.Binary()).
			Str("size", tc.Size).
			Int("exit_code", exitErr.ExitCode()).
			Msg("Test returned an error code")
		return run, &ExitError{Ordinal: tc.Ordinal, Variant: variant, Size: tc.Size, Code: exitErr.ExitCode()}
	}

	return model.TestRun{}, fmt.Errorf("failed to execute %s: %w", run.Command, runErr)
}

func (r *Runner) verify(run model.TestRun) string {
	outcome, err := r.verifier.Verify(run.Ordinal, run.Variant)
	if err != nil {
		r.logger.Error().Err(err).
			Int("test", run.Ordinal).
			Str("variant", run.Variant.Tag()).
			Msg("Failed to verify test result")
		return VerificationError
	}

	if outcome == verify.Match {
		r.logger.Info().
			Int("test", run.Ordinal).
			Str("variant", run.Variant.Tag()).
			Msgf("Result matches %s result", model.Reference)
		return VerificationMatch
	}

	r.logger.Error().
		Int("test", run.Ordinal).
		Str("variant", run.Variant.Tag()).
		Msgf("Result does not match %s result", model.Reference)
	return VerificationMismatch
}

// loadOutput picks up the declared time from what the child wrote.
func (r *Runner) loadOutput(run *model.TestRun) {
	rec, err := resultfile.ReadFile(run.ResultFile)
	if err != nil {
		r.logger.Warn().Err(err).Str("file", run.ResultFile).Msg("Failed to read result file")
		return
	}
	if seconds, ok := rec.Time(); ok {
		run.DeclaredTime = &seconds
	}
}

func (r *Runner) record(run model.TestRun) {
	if r.recorder != nil {
		r.recorder.RecordRun(run)
	}
}

func (r *Runner) binaryPath(variant model.Variant) string {
	path := filepath.Join(r.cfg.BinDir, variant.Binary())
	// keep the path relative to the working directory instead of searching PATH
	if !strings.ContainsRune(path, filepath.Separator) {
		path = "." + string(filepath.Separator) + path
	}
	return path
}

func (r *Runner) inputPath(name string) string {
	return filepath.Join(r.cfg.InputsDir, name)
}
