package cli

// This file contains the list command for displaying previous runs.

import (
	"fmt"
	"strings"
	"time"

	"github.com/perfgo/kbench/history"
	"github.com/perfgo/kbench/model"
	"github.com/perfgo/kbench/runner"
	"github.com/urfave/cli/v2"
)

func (a *App) list(ctx *cli.Context) error {
	limit := ctx.Int("limit")
	out := ctx.App.Writer

	var filter model.Variant
	if tag := ctx.String("variant"); tag != "" {
		v, err := model.ParseVariant(tag)
		if err != nil {
			return err
		}
		filter = v
	}

	// Load all history entries, newest first
	historyEntries, err := history.NewStore(a.logger, ctx.String("history-dir")).LoadEntries()
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	var filteredEntries []history.Entry
	for _, entry := range historyEntries {
		if filter == "" || entry.History.Variant == filter {
			filteredEntries = append(filteredEntries, entry)
		}
	}

	if len(filteredEntries) == 0 {
		if filter != "" {
			fmt.Fprintf(out, "No history entries found for variant: %s\n", filter)
		} else {
			fmt.Fprintln(out, "No history entries found")
		}
		return nil
	}

	// Apply limit
	displayRuns := filteredEntries
	if limit > 0 && limit < len(displayRuns) {
		displayRuns = displayRuns[:limit]
	}

	fmt.Fprintf(out, "\n=== History (%d total) ===\n\n", len(filteredEntries))

	for _, entry := range displayRuns {
		h := entry.History
		timestamp := h.Timestamp.Format("2006-01-02 15:04:05")
		duration := h.Duration.Round(time.Millisecond)

		status := "✓"
		if h.ExitCode != 0 {
			status = "✗"
		}

		shortID := h.ID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}

		fmt.Fprintf(out, "%s  %s  %s  [%s]  exit=%d  id=%s\n", status, timestamp, h.Variant.Label(), duration, h.ExitCode, shortID)
		fmt.Fprintf(out, "   Tests: %s\n", summarizeTests(h.Tests))
		if h.Error != "" {
			fmt.Fprintf(out, "   Error: %s\n", h.Error)
		}
		if h.Launcher != nil {
			fmt.Fprintf(out, "   Launcher: %s\n", strings.TrimSpace(h.Launcher.Command+" "+strings.Join(h.Launcher.Args, " ")))
		}
		if h.Target != nil && h.Target.Host != "" {
			fmt.Fprintf(out, "   Host: %s (%s/%s)\n", h.Target.Host, h.Target.OS, h.Target.Arch)
		}
		if h.Git != nil && h.Git.Commit != "" {
			shortCommit := h.Git.Commit
			if len(shortCommit) > 8 {
				shortCommit = shortCommit[:8]
			}
			fmt.Fprintf(out, "   Commit: %s", shortCommit)
			if h.Git.Branch != "" {
				fmt.Fprintf(out, " (%s)", h.Git.Branch)
			}
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "   %s\n", entry.FullPath)
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "View a run: %s view <ID>\n", AppName)

	return nil
}

// summarizeTests counts test outcomes, e.g. "9 passed, 1 timed out, 2 mismatched".
func summarizeTests(runs []model.TestRun) string {
	if len(runs) == 0 {
		return "none"
	}

	var succeeded, timedOut, failed, mismatched int
	for _, run := range runs {
		switch run.Status.Kind {
		case model.ExitSuccess:
			succeeded++
		case model.ExitTimedOut:
			timedOut++
		case model.ExitNonZero:
			failed++
		}
		if run.Verification != "" && run.Verification != runner.VerificationMatch {
			mismatched++
		}
	}

	parts := []string{fmt.Sprintf("%d succeeded", succeeded)}
	if timedOut > 0 {
		parts = append(parts, fmt.Sprintf("%d timed out", timedOut))
	}
	if failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", failed))
	}
	if mismatched > 0 {
		parts = append(parts, fmt.Sprintf("%d not verified", mismatched))
	}
	return strings.Join(parts, ", ")
}
