package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ArtifactStore manages the transient image artifact written for a single
// publish cycle. Write returns a handle (a path) unique to this run so that
// concurrent runs never touch each other's artifacts.
type ArtifactStore interface {
	Write(data []byte) (string, error)
	Remove(handle string) error
}

// TempFileStore writes artifacts to uniquely named files under dir
// (os.TempDir when empty).
type TempFileStore struct {
	dir string
}

func NewTempFileStore(dir string) *TempFileStore {
	if dir == "" {
		dir = os.TempDir()
	}
	return &TempFileStore{dir: dir}
}

func (s *TempFileStore) Write(data []byte) (string, error) {
	path := filepath.Join(s.dir, fmt.Sprintf("weather-widget-%s.png", uuid.NewString()))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

func (s *TempFileStore) Remove(handle string) error {
	if handle == "" {
		return nil
	}
	err := os.Remove(handle)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
