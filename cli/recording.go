package cli

// This file contains run recording functionality for saving run metadata
// to the history directory.

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/perfgo/kbench/history"
	"github.com/perfgo/kbench/model"
	"github.com/perfgo/kbench/resultfile"
	"github.com/perfgo/kbench/runner"
)

func (a *App) newHistory(variant model.Variant, startTime time.Time, cfg runner.Config, store *resultfile.Store) *model.History {
	h := &model.History{
		ID:         history.NewID(),
		Variant:    variant,
		Timestamp:  startTime,
		Args:       os.Args,
		Timeout:    cfg.Timeout,
		ResultsDir: store.Dir(),
	}

	if wd, err := os.Getwd(); err == nil {
		h.WorkDir = wd
	}

	if commit, branch, err := a.getGitInfo(); err != nil {
		a.logger.Debug().Err(err).Msg("Not recording git information")
	} else {
		h.Git = &model.Git{Commit: commit, Branch: branch}
	}

	h.Target = &model.Target{OS: runtime.GOOS, Arch: runtime.GOARCH}
	if host, err := os.Hostname(); err == nil {
		h.Target.Host = host
	}

	if cfg.Launcher.Command != "" {
		h.Launcher = &model.Launcher{
			Command: cfg.Launcher.Command,
			Args:    cfg.Launcher.Args,
		}
	}

	return h
}

func (a *App) recordHistory(root string, h *model.History) (string, error) {
	dir, err := history.NewStore(a.logger, root).Record(h)
	if err != nil {
		return "", err
	}
	a.logger.Info().Str("id", h.ID[:8]).Str("dir", dir).Msg("Recorded run")
	return dir, nil
}

func (a *App) getGitInfo() (commit, branch string, err error) {
	// Get current commit hash
	output, err := exec.Command("git", "rev-parse", "HEAD").Output()
	if err != nil {
		return "", "", fmt.Errorf("failed to get git commit: %w", err)
	}
	commit = strings.TrimSpace(string(output))

	// Get current branch
	output, err = exec.Command("git", "rev-parse", "--abbrev-ref", "HEAD").Output()
	if err != nil {
		return "", "", fmt.Errorf("failed to get git branch: %w", err)
	}
	branch = strings.TrimSpace(string(output))

	return commit, branch, nil
}
