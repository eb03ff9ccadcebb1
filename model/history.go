package model

import "time"

// History represents a single kbench run of one variant over the suite.
type History struct {
	// Unique ID for this run
	ID string `json:"id"`
	// Variant that was run
	Variant Variant `json:"variant"`
	// Timestamp when the run started
	Timestamp time.Time `json:"timestamp"`
	// Command-line arguments (including command name)
	Args []string `json:"args"`
	// Working directory where the command was run
	WorkDir string `json:"workdir"`
	// Exit code of the run (0 unless a variant failed)
	ExitCode int `json:"exit_code"`
	// Duration of the whole run
	Duration time.Duration `json:"duration"`
	// Git information
	Git *Git `json:"git,omitempty"`
	// Target execution environment
	Target *Target `json:"target,omitempty"`
	// Launcher configuration used to wrap every invocation
	Launcher *Launcher `json:"launcher,omitempty"`
	// Per-test timeout
	Timeout time.Duration `json:"timeout"`
	// Directory holding the result files
	ResultsDir string `json:"results_dir"`
	// Outcomes in suite order; stops at the first fatal failure
	Tests []TestRun `json:"tests,omitempty"`
	// Error that aborted the run, if any
	Error string `json:"error,omitempty"`
}

// Git contains git repository information
type Git struct {
	// Git commit hash at time of execution
	Commit string `json:"commit,omitempty"`
	// Git branch at time of execution
	Branch string `json:"branch,omitempty"`
}

// Target contains information about the execution environment
type Target struct {
	// Host name of the machine driving the run
	Host string `json:"host,omitempty"`
	// Operating system of the execution environment
	OS string `json:"os,omitempty"`
	// CPU architecture of the execution environment
	Arch string `json:"arch,omitempty"`
}

// Launcher records the job launcher wrapping each binary.
type Launcher struct {
	// Launcher executable, empty when binaries ran directly
	Command string `json:"command,omitempty"`
	// Extra launcher arguments
	Args []string `json:"args,omitempty"`
}
