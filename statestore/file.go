package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	uuid "github.com/ClydeShen/Angular2-UUIID"
)

// FileStore keeps the clock state as a JSON document on the local disk.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the saved state.
func (s *FileStore) Load(ctx context.Context) (uuid.ClockState, error) {
	if err := ctx.Err(); err != nil {
		return uuid.ClockState{}, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return uuid.ClockState{}, ErrNotFound
	}
	if err != nil {
		return uuid.ClockState{}, fmt.Errorf("statestore: read %s: %w", s.path, err)
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return uuid.ClockState{}, fmt.Errorf("%w: %s: %v", ErrCorruptState, s.path, err)
	}
	return rec.state(), nil
}

// Save replaces the file contents. The write goes to a temporary file in
// the same directory which is then renamed over the old one.
func (s *FileStore) Save(ctx context.Context, st uuid.ClockState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(newRecord(st))
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("statestore: save %s: %w", s.path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("statestore: save %s: %w", s.path, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("statestore: save %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("statestore: save %s: %w", s.path, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("statestore: save %s: %w", s.path, err)
	}
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error {
	return nil
}
