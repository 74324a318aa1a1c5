// Package prefs persists the operator's view preferences between runs.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/Iron-Ham/procview/internal/errors"
	"github.com/Iron-Ham/procview/internal/intent"
)

// FileName is the preferences file inside the data directory.
const FileName = "state.json"

// currentVersion is written into every saved file. Files with a newer
// version are rejected as corrupted rather than misread.
const currentVersion = 1

// Store loads and saves preferences.
type Store interface {
	Load() (intent.Prefs, error)
	Save(p intent.Prefs) error
}

type envelope struct {
	Version int          `json:"version"`
	Prefs   intent.Prefs `json:"prefs"`
}

// FileStore keeps preferences as JSON in a single file on an afero.Fs.
type FileStore struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store writing {dir}/state.json on fs.
func NewFileStore(fs afero.Fs, dir string) *FileStore {
	return &FileStore{fs: fs, path: filepath.Join(dir, FileName)}
}

// NewOSFileStore returns a FileStore on the real filesystem.
func NewOSFileStore(dir string) *FileStore {
	return NewFileStore(afero.NewOsFs(), dir)
}

// Path returns the preferences file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads saved preferences. A missing file yields the defaults and no
// error. An unreadable or undecodable file yields the defaults together
// with a PrefsError so the caller can log it and carry on.
func (s *FileStore) Load() (intent.Prefs, error) {
	p, _, err := s.LoadSaved()
	return p, err
}

// LoadSaved is Load that also reports whether a preferences file was
// found.
func (s *FileStore) LoadSaved() (p intent.Prefs, found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return intent.DefaultPrefs(), false, nil
		}
		return intent.DefaultPrefs(), false, errors.NewPrefsError("failed to read preferences", err).WithPath(s.path)
	}

	env := envelope{Prefs: intent.DefaultPrefs()}
	if err := json.Unmarshal(data, &env); err != nil {
		return intent.DefaultPrefs(), false, errors.NewPrefsError("failed to decode preferences",
			fmt.Errorf("%w: %w", errors.ErrPrefsCorrupted, err)).WithPath(s.path)
	}
	if env.Version > currentVersion {
		return intent.DefaultPrefs(), false, errors.NewPrefsError(
			fmt.Sprintf("unsupported preferences version %d", env.Version),
			errors.ErrPrefsCorrupted).WithPath(s.path)
	}
	return env.Prefs, true, nil
}

// Save writes p atomically: to a temp file in the same directory, then a
// rename over the target.
func (s *FileStore) Save(p intent.Prefs) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(envelope{Version: currentVersion, Prefs: p}, "", "  ")
	if err != nil {
		return errors.NewPrefsError("failed to encode preferences", err).WithPath(s.path)
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.NewPrefsError("failed to create data directory", err).WithPath(s.path)
	}
	if err := atomicWriteFile(s.fs, s.path, data, 0644); err != nil {
		return errors.NewPrefsError("failed to save preferences", err).WithPath(s.path)
	}
	return nil
}

// Reset removes the preferences file. Removing a missing file is not an
// error.
func (s *FileStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.NewPrefsError("failed to remove preferences", err).WithPath(s.path)
	}
	return nil
}

func atomicWriteFile(fs afero.Fs, path string, data []byte, perm os.FileMode) error {
	tmp, err := afero.TempFile(fs, filepath.Dir(path), ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = fs.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := fs.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}
