package cli

// This file contains the view command for displaying a run from history.

import (
	"fmt"
	"io"
	"strings"

	"github.com/perfgo/kbench/history"
	"github.com/perfgo/kbench/report"
	"github.com/urfave/cli/v2"
)

// parseViewArgs returns the ID or index to view, defaulting to the last run.
func parseViewArgs(in []string) (string, error) {
	if len(in) > 0 && in[0] == "--" {
		in = in[1:]
	}
	switch len(in) {
	case 0:
		return "0", nil
	case 1:
		return in[0], nil
	default:
		return "", fmt.Errorf("expected at most one ID or index, got %d arguments", len(in))
	}
}

func (a *App) view(ctx *cli.Context) error {
	arg, err := parseViewArgs(ctx.Args().Slice())
	if err != nil {
		return err
	}

	historyEntries, err := history.NewStore(a.logger, ctx.String("history-dir")).LoadEntries()
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	entry, err := history.Find(historyEntries, arg)
	if err != nil {
		return err
	}

	displayHistoryEntry(ctx.App.Writer, entry)
	return nil
}

func displayHistoryEntry(out io.Writer, entry *history.Entry) {
	h := entry.History

	shortID := h.ID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}

	fmt.Fprintf(out, "=== Run: %s ===\n", shortID)
	fmt.Fprintf(out, "Variant: %s\n", h.Variant.Label())
	fmt.Fprintf(out, "Time: %s\n", h.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Duration: %s\n", h.Duration)
	fmt.Fprintf(out, "Exit Code: %d\n", h.ExitCode)
	if h.Error != "" {
		fmt.Fprintf(out, "Error: %s\n", h.Error)
	}
	if h.WorkDir != "" {
		fmt.Fprintf(out, "Working Dir: %s\n", h.WorkDir)
	}
	fmt.Fprintf(out, "Results Dir: %s\n", h.ResultsDir)
	fmt.Fprintf(out, "Timeout: %s\n", h.Timeout)
	if h.Launcher != nil {
		fmt.Fprintf(out, "Launcher: %s\n", strings.TrimSpace(h.Launcher.Command+" "+strings.Join(h.Launcher.Args, " ")))
	}
	if h.Git != nil && h.Git.Commit != "" {
		fmt.Fprintf(out, "Git Commit: %s", h.Git.Commit)
		if h.Git.Branch != "" {
			fmt.Fprintf(out, " (%s)", h.Git.Branch)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out)

	if len(h.Tests) == 0 {
		fmt.Fprintln(out, "No tests were run")
		return
	}
	report.RunSummary(out, h.Variant, h.Tests)

	fmt.Fprintln(out)
	for _, run := range h.Tests {
		fmt.Fprintf(out, "%d: %s\n", run.Ordinal, run.Command)
	}
}
