// Package lock implements the LockStore port over Pipfile.lock JSON files.
package lock

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"

	"github.com/pipkin/pipkin/internal/core/domain"
	"github.com/pipkin/pipkin/internal/core/ports"
)

// Store reads and writes Pipfile.lock files.
type Store struct{}

var _ ports.LockStore = (*Store)(nil)

// NewStore creates a new LockStore.
func NewStore() *Store {
	return &Store{}
}

// Read loads the lockfile at the given path. A missing file yields
// domain.ErrLockNotFound so callers can distinguish "never locked" from a
// corrupt lockfile.
func (s *Store) Read(path string) (*domain.Lockfile, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(domain.ErrLockNotFound, "path", path)
		}
		return nil, zerr.Wrap(err, "failed to read lockfile")
	}

	var lock domain.Lockfile
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, zerr.Wrap(err, "failed to unmarshal lockfile")
	}

	return &lock, nil
}

// Write serializes the lockfile and writes it atomically, so a concurrent
// reader never observes a truncated lockfile.
func (s *Store) Write(path string, lock *domain.Lockfile) error {
	data, err := json.MarshalIndent(lock, "", "    ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal lockfile")
	}
	data = append(data, '\n')

	if err := atomicWriteFile(filepath.Clean(path), data); err != nil {
		return zerr.Wrap(err, "failed to write lockfile")
	}

	return nil
}

// atomicWriteFile writes data to a file atomically by writing to a temp file
// and renaming it.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, "pipkin-lock-*.json")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()

	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}

	if err := tmpFile.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
