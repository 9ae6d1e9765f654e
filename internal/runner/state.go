package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/bartekus/specgen/pkg/spec"
)

// StateStore handles reading and writing run state.
type StateStore struct {
	baseDir string
}

// NewStateStore creates a store at the given base directory (e.g. .specgen/run).
func NewStateStore(baseDir string) *StateStore {
	return &StateStore{baseDir: baseDir}
}

// Dir returns the store's base directory.
func (s *StateStore) Dir() string {
	return s.baseDir
}

func (s *StateStore) lastRunPath() string {
	return filepath.Join(s.baseDir, "last-run.json")
}

func (s *StateStore) resultPath(key string) string {
	return filepath.Join(s.baseDir, "results", ResultFileName(key)+".json")
}

// ReadLastRun loads the last execution summary.
// A missing file is a clean state and returns (nil, nil).
func (s *StateStore) ReadLastRun() (*LastRun, error) {
	var last LastRun
	found, err := readJSON(s.lastRunPath(), &last)
	if err != nil {
		return nil, fmt.Errorf("reading last run: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &last, nil
}

// ReadResult loads the stored result for a record key, or (nil, nil) if none exists.
func (s *StateStore) ReadResult(key string) (*RecordResult, error) {
	var res RecordResult
	found, err := readJSON(s.resultPath(key), &res)
	if err != nil {
		return nil, fmt.Errorf("reading result for %s: %w", key, err)
	}
	if !found {
		return nil, nil
	}
	return &res, nil
}

// WriteLastRun saves the execution summary.
func (s *StateStore) WriteLastRun(last LastRun) error {
	return writeJSON(s.lastRunPath(), last)
}

// WriteResult saves a record's result.
func (s *StateStore) WriteResult(res RecordResult) error {
	return writeJSON(s.resultPath(res.StateKey()), res)
}

// Reset clears the state directory.
func (s *StateStore) Reset() error {
	return os.RemoveAll(s.baseDir)
}

// LoadFailed returns the keys of records that failed in the last run,
// followed by those skipped when it was interrupted.
func (s *StateStore) LoadFailed() ([]string, error) {
	last, err := s.ReadLastRun()
	if err != nil {
		return nil, err
	}
	if last == nil {
		return nil, nil
	}
	keys := make([]string, 0, len(last.Failed)+len(last.Skipped))
	keys = append(keys, last.Failed...)
	return append(keys, last.Skipped...), nil
}

// RecordKeys returns one key per record, in document order.
// The first record with a given name is keyed by the name itself; later
// records sharing it get "-2", "-3", ... suffixes, skipping any candidate
// that is already taken by another record's name.
func RecordKeys(records []spec.Record) []string {
	names := make(map[string]bool, len(records))
	for _, rec := range records {
		names[rec.Name] = true
	}

	used := make(map[string]bool, len(records))
	keys := make([]string, len(records))
	for i, rec := range records {
		key := rec.Name
		if used[key] {
			for n := 2; ; n++ {
				key = fmt.Sprintf("%s-%d", rec.Name, n)
				if !used[key] && !names[key] {
					break
				}
			}
		}
		used[key] = true
		keys[i] = key
	}
	return keys
}

// ResultFileName maps a record key to a safe file name.
// Names written as call signatures contain characters that are not portable.
func ResultFileName(record string) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.' {
			return r
		}
		return '_'
	}, record)
	name = strings.Trim(name, ".")
	if name == "" {
		return "_"
	}
	return name
}

func readJSON(path string, v any) (bool, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer func() { _ = f.Close() }()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return false, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return true, nil
}

func writeJSON(path string, v any) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		cerr := f.Close()
		if err == nil {
			err = cerr
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
