// Package storage implements media file persistence behind a small interface
// so services can treat uploads and deletions uniformly.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// PublicPrefix is the URL prefix under which stored media is served.
const PublicPrefix = "/public/"

// ErrInvalidPath is returned for paths that escape the media root.
var ErrInvalidPath = errors.New("storage: invalid media path")

// MediaStore persists uploaded media addressed by a relative public path.
// Delete is idempotent: removing an absent file is not an error.
type MediaStore interface {
	Save(relPath string, r io.Reader) (string, error)
	Delete(publicPath string) error
}

// LocalMediaStore stores media on the local filesystem under a root directory
// and serves it under PublicPrefix.
type LocalMediaStore struct {
	root string
}

// NewLocalMediaStore returns a store rooted at dir.
func NewLocalMediaStore(dir string) *LocalMediaStore {
	return &LocalMediaStore{root: dir}
}

// Root returns the filesystem directory backing the store.
func (s *LocalMediaStore) Root() string {
	return s.root
}

// Save writes the reader's content to relPath under the root and returns the
// public URL path ("/public/<relPath>").
func (s *LocalMediaStore) Save(relPath string, r io.Reader) (string, error) {
	abs, err := s.resolve(relPath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o750); err != nil {
		return "", fmt.Errorf("storage: create media dir: %w", err)
	}

	f, err := os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return "", fmt.Errorf("storage: create media file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("storage: write media file: %w", err)
	}

	return PublicPrefix + filepath.ToSlash(relPath), nil
}

// Delete removes the file behind a public URL path. A missing file is a
// no-op so repeated deletions and already-cleaned media do not fail callers.
func (s *LocalMediaStore) Delete(publicPath string) error {
	// Only paths under the public prefix belong to this store.
	if !strings.HasPrefix(publicPath, PublicPrefix) {
		return ErrInvalidPath
	}
	rel := strings.TrimPrefix(publicPath, PublicPrefix)

	abs, err := s.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: delete media file: %w", err)
	}
	return nil
}

// resolve maps a relative path to an absolute one inside the root, rejecting
// traversal attempts.
func (s *LocalMediaStore) resolve(relPath string) (string, error) {
	rel := filepath.ToSlash(relPath)
	if rel == "" || strings.HasPrefix(rel, "/") {
		return "", ErrInvalidPath
	}
	for _, part := range strings.Split(rel, "/") {
		if part == ".." {
			return "", ErrInvalidPath
		}
	}
	return filepath.Join(s.root, filepath.FromSlash(rel)), nil
}
