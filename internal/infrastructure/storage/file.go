package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/floramarket/storefront/internal/domain"
)

// FileStore is a durable key-value store keeping one JSON document per
// key in a single directory. The filesystem is injected so tests can
// run on afero.NewMemMapFs().
type FileStore struct {
	fs    afero.Fs
	dir   string
	mutex sync.RWMutex
}

// NewFileStore creates the backing directory if needed and returns the store.
func NewFileStore(fs afero.Fs, dir string) (*FileStore, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return &FileStore{fs: fs, dir: dir}, nil
}

// NewMemory returns a FileStore backed by an in-memory filesystem.
// Used as the storage fake in tests.
func NewMemory() *FileStore {
	store, _ := NewFileStore(afero.NewMemMapFs(), "storefront")
	return store
}

// Get retrieves the value stored under key.
// Returns domain.ErrNotFound when the key has never been written.
func (s *FileStore) Get(key string) ([]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	data, err := afero.ReadFile(s.fs, s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return data, nil
}

// Set stores value under key. The write goes to a temp file first and
// is renamed into place, so a crash mid-write never leaves a truncated
// document behind.
func (s *FileStore) Set(key string, value []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	target := s.path(key)
	tmp := target + ".tmp"

	if err := afero.WriteFile(s.fs, tmp, value, 0o644); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	if err := s.fs.Rename(tmp, target); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Delete removes the value stored under key. Deleting a missing key is not an error.
func (s *FileStore) Delete(key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.fs.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
