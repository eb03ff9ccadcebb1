package resultfile

// store.go contains the results directory shared by the runner (writer)
// and the verifier and aggregator (readers).

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// DefaultDir is the results directory used when none is configured.
const DefaultDir = "./result_files"

// Store is a directory of result files.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is not created
// until Init or Create is called.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the results directory.
func (s *Store) Dir() string {
	return s.dir
}

// Init creates the results directory if it does not exist.
func (s *Store) Init() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}
	return nil
}

// Path returns the path of the result file for id.
func (s *Store) Path(id ID) string {
	return filepath.Join(s.dir, id.Name())
}

// Create truncates or creates the result file for id.
func (s *Store) Create(id ID) (*os.File, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	f, err := os.Create(s.Path(id))
	if err != nil {
		return nil, fmt.Errorf("failed to create result file: %w", err)
	}
	return f, nil
}

// Read parses the result file for id.
func (s *Store) Read(id ID) (Record, error) {
	return ReadFile(s.Path(id))
}

// ReadResult parses only the declared result of the file for id.
func (s *Store) ReadResult(id ID) (Record, error) {
	return readFile(s.Path(id), ParseResult)
}

// ReadFile parses the result file at path.
func ReadFile(path string) (Record, error) {
	return readFile(path, Parse)
}

func readFile(path string, parse func(io.Reader) (Record, error)) (Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return Record{}, err
	}
	defer f.Close()

	rec, err := parse(f)
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

// Entry is a result file found in the directory.
type Entry struct {
	ID   ID
	Name string // File name as found on disk
}

// List returns all result files in the directory sorted by file name, and
// the names of entries that do not follow the naming convention.
func (s *Store) List() (entries []Entry, skipped []string, err error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read results directory: %w", err)
	}

	sort.Slice(dirEntries, func(i, j int) bool {
		return dirEntries[i].Name() < dirEntries[j].Name()
	})

	for _, d := range dirEntries {
		if d.IsDir() {
			continue
		}
		id, err := ParseName(d.Name())
		if err != nil {
			skipped = append(skipped, d.Name())
			continue
		}
		entries = append(entries, Entry{ID: id, Name: d.Name()})
	}

	return entries, skipped, nil
}

// ReadEntry parses a listed result file.
func (s *Store) ReadEntry(e Entry) (Record, error) {
	return ReadFile(filepath.Join(s.dir, e.Name))
}
