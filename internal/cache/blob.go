package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// BlobStore holds downloaded bytes under opaque keys. Write must be
// durable before it returns so a metadata record never points at bytes
// that were not stored; Delete of an absent key is a no-op.
type BlobStore interface {
	// Write stores data under key and returns the local URI for the
	// stored bytes.
	Write(key string, data []byte) (string, error)

	// Read returns the bytes stored under key.
	Read(key string) ([]byte, error)

	// Delete removes the bytes stored under key. Absent keys are a
	// successful no-op.
	Delete(key string) error
}

// DiskBlobStore implements BlobStore on the local filesystem.
type DiskBlobStore struct {
	root string
}

// NewDiskBlobStore creates a blob store rooted at dir, creating it if
// needed.
func NewDiskBlobStore(dir string) (*DiskBlobStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	return &DiskBlobStore{root: dir}, nil
}

func (s *DiskBlobStore) path(key string) string {
	// Keys are manager-generated (kind prefix + UUID); Clean guards
	// against separators sneaking into a key.
	return filepath.Join(s.root, filepath.Clean(key))
}

// Write stores data under key. The bytes go to a temp file first and
// are renamed into place, so a crashed write never leaves a partial
// blob under the final key.
func (s *DiskBlobStore) Write(key string, data []byte) (string, error) {
	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create blob subdirectory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to sync blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to close blob: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to finalize blob: %w", err)
	}

	return path, nil
}

// Read returns the bytes stored under key.
func (s *DiskBlobStore) Read(key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}
	return data, nil
}

// Delete removes the blob for key. A missing file is a no-op.
func (s *DiskBlobStore) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}
