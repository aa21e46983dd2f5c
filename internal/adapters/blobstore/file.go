// Package blobstore implements ports.Persister on the local filesystem and in memory.
package blobstore

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
)

// FileStore keeps the blob in a single JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore for <dir>/<key>.json.
func NewFileStore(dir, key string) *FileStore {
	return &FileStore{path: filepath.Join(filepath.Clean(dir), key+".json")}
}

// Path returns the location of the blob file.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the blob. A missing file yields nil.
func (s *FileStore) Load(_ context.Context) ([]byte, error) {
	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read cache blob"), "path", s.path)
	}
	return data, nil
}

// Save replaces the blob atomically: it writes a temporary file next to the
// target and renames it into place.
func (s *FileStore) Save(_ context.Context, blob []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory for cache blob"), "path", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create temporary cache blob"), "path", dir)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(blob); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, "failed to write cache blob"), "path", tmpName)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, "failed to close cache blob"), "path", tmpName)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, "failed to replace cache blob"), "path", s.path)
	}
	return nil
}

// Remove deletes the blob file. A missing file is not an error.
func (s *FileStore) Remove(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, "failed to remove cache blob"), "path", s.path)
	}
	return nil
}
