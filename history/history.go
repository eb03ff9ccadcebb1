package history

// This file contains shared history utilities for recording and loading
// run manifests.

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/perfgo/kbench/model"
	"github.com/rs/zerolog"
)

// DefaultDir is where run manifests are kept unless configured otherwise.
const DefaultDir = ".kbench/history"

const manifestName = "history.json"

type Entry struct {
	History  model.History
	FullPath string
}

// Store records run manifests below a root directory, one directory per run.
type Store struct {
	logger zerolog.Logger
	root   string
}

func NewStore(logger zerolog.Logger, root string) *Store {
	return &Store{logger: logger, root: root}
}

func (s *Store) Root() string {
	return s.root
}

// NewID returns a fresh run ID.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Record writes h to <root>/<timestamp>-<variant>-<id>/history.json and
// returns the run directory.
func (s *Store) Record(h *model.History) (string, error) {
	if h.ID == "" {
		h.ID = NewID()
	}

	timestamp := h.Timestamp.Format("20060102-150405")
	shortID := h.ID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}

	runName := fmt.Sprintf("%s-%s-%s", timestamp, h.Variant.Tag(), shortID)
	runDir := filepath.Join(s.root, runName)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create run directory: %w", err)
	}

	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal run history: %w", err)
	}

	if err := os.WriteFile(filepath.Join(runDir, manifestName), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write run history: %w", err)
	}

	s.logger.Debug().Str("dir", runDir).Str("id", h.ID).Msg("Recorded run")
	return runDir, nil
}

// LoadEntries loads all history entries, newest first. A missing root
// yields no entries.
func (s *Store) LoadEntries() ([]Entry, error) {
	var entries []Entry

	err := filepath.WalkDir(s.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == s.root && errors.Is(err, os.ErrNotExist) {
				return filepath.SkipAll
			}
			return err
		}

		if d.IsDir() {
			historyPath := filepath.Join(path, manifestName)
			if _, err := os.Stat(historyPath); err == nil {
				history, err := parseHistoryJSON(historyPath)
				if err != nil {
					s.logger.Warn().Err(err).Str("path", historyPath).Msg("Failed to parse history.json")
					return nil
				}

				entries = append(entries, Entry{
					History:  history,
					FullPath: path,
				})
			}
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk history directory: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].History.Timestamp.After(entries[j].History.Timestamp)
	})

	return entries, nil
}

// Find picks an entry from entries sorted newest first. arg is either an
// index counting back from the newest run (0, -1, -2, ...) or an ID prefix.
func Find(entries []Entry, arg string) (*Entry, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("no history entries found")
	}

	if parsed, err := strconv.ParseInt(arg, 10, 64); err == nil {
		if parsed > 0 {
			return nil, fmt.Errorf("invalid index: %s (use 0 for last, -1 for second-to-last, -2 for third-to-last, etc.)", arg)
		}
		index := int(-parsed)
		if index >= len(entries) {
			return nil, fmt.Errorf("index %s out of range (only %d history entries)", arg, len(entries))
		}
		return &entries[index], nil
	}

	prefix := strings.ToLower(arg)
	for i := range entries {
		if strings.HasPrefix(strings.ToLower(entries[i].History.ID), prefix) {
			return &entries[i], nil
		}
	}
	return nil, fmt.Errorf("no history entry found matching ID: %s", arg)
}

// parseHistoryJSON parses a history.json file.
func parseHistoryJSON(historyPath string) (model.History, error) {
	data, err := os.ReadFile(historyPath)
	if err != nil {
		return model.History{}, err
	}

	var history model.History
	if err := json.Unmarshal(data, &history); err != nil {
		return model.History{}, err
	}

	return history, nil
}
