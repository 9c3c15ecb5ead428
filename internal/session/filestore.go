package session

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore persists the session record as a JSON file. Writes go through
// a temp file and rename so a crash mid-write can never leave a
// half-written record.
type FileStore struct {
	path string
}

// NewFileStore builds a file-backed persistence at the given path,
// creating parent directories as needed.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("session file path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	return &FileStore{path: path}, nil
}

// Save writes the whole record in one atomic replace.
func (f *FileStore) Save(_ context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

// Load reads the persisted record. A missing or unreadable file counts as
// no session rather than an error worth surfacing.
func (f *FileStore) Load(_ context.Context) (Record, bool, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Record{}, false, nil
		}
		return Record{}, false, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		// Corrupt file: fail safe, treat as logged out.
		return Record{}, true, nil
	}
	return rec, true, nil
}

// Clear removes the record file. Removing an absent file succeeds.
func (f *FileStore) Clear(_ context.Context) error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
