package keywords

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pkgz/lgr"
	"github.com/gofrs/flock"
)

// DefaultFile is the keyword file name used when no path is configured
const DefaultFile = "topic_keywords.json"

// Load reads topics from the JSON file at path. Missing, unreadable or broken file
// results in the default topics, which are also written to path to establish the file.
// Failure to write defaults is logged and otherwise ignored.
func Load(path string) *Topics {
	if path == "" {
		path = DefaultFile
	}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from config
	if err == nil {
		topics := NewTopics()
		if err = json.Unmarshal(data, topics); err == nil {
			return topics
		}
		lgr.Printf("[WARN] can't parse keywords file %s, using defaults: %v", path, err)
	} else if !os.IsNotExist(err) {
		lgr.Printf("[WARN] can't read keywords file %s, using defaults: %v", path, err)
	}

	defaults := Defaults()
	if !Save(defaults, path) {
		lgr.Printf("[WARN] can't establish keywords file %s", path)
	}
	return defaults
}

// Save writes topics to path as indented JSON. Returns false on any failure,
// the caller is responsible for reporting it.
func Save(topics *Topics, path string) bool {
	if path == "" {
		path = DefaultFile
	}
	if err := save(topics, path); err != nil {
		lgr.Printf("[ERROR] can't save keywords to %s: %v", path, err)
		return false
	}
	return true
}

func save(topics *Topics, path string) error {
	data, err := json.MarshalIndent(topics, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal keywords: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("make keywords dir: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("write keywords file: %w", err)
	}
	return nil
}

// Store binds keyword file path with a lock file serializing read-modify-write cycles
// between processes sharing the same keyword file
type Store struct {
	path string
	lock *flock.Flock
}

// NewStore makes a store for the keyword file at path
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultFile
	}
	return &Store{path: path, lock: flock.New(path + ".lock")}
}

// Path returns keyword file location
func (s *Store) Path() string {
	return s.path
}

// Load reads current topics from the file, see Load
func (s *Store) Load() *Topics {
	return Load(s.path)
}

// Update loads topics, applies fn and saves the result, all under exclusive file lock.
// Nothing is saved if fn returns an error.
func (s *Store) Update(fn func(t *Topics) error) (*Topics, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return nil, fmt.Errorf("make keywords dir: %w", err)
	}
	if err := s.lock.Lock(); err != nil {
		return nil, fmt.Errorf("lock keywords file: %w", err)
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			lgr.Printf("[WARN] can't unlock keywords file: %v", err)
		}
	}()

	topics := Load(s.path)
	if err := fn(topics); err != nil {
		return topics, err
	}
	if !Save(topics, s.path) {
		return topics, fmt.Errorf("failed to save keywords to %s", s.path)
	}
	return topics, nil
}
