// SPDX-License-Identifier: EPL-2.0

// Package cache owns the directory that holds canonical PCM artifacts.
//
// Every artifact gets a fresh name, so an artifact is never shared between
// tracks and never aliases the file it was converted from. Remove refuses
// to delete anything outside the store directory.
package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Ext is the extension of every artifact.
const Ext = ".wav"

// ErrNotOwned is returned by Remove for paths outside the store directory.
var ErrNotOwned = errors.New("path is not owned by the cache store")

type Store struct {
	dir string
}

// NewStore creates dir if needed and returns a store rooted at its absolute path.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("cache directory must not be empty")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving cache directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	return &Store{dir: abs}, nil
}

func (s *Store) Dir() string { return s.dir }

// NewPath returns an unused artifact path derived from source's base name.
func (s *Store) NewPath(source string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "track"
	}
	id := strings.ReplaceAll(uuid.NewString(), "-", "")

	return filepath.Join(s.dir, base+"_"+id+Ext)
}

// Create opens a new artifact file for writing. It never truncates an
// existing file.
func (s *Store) Create(source string) (*os.File, error) {
	path := s.NewPath(source)

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("creating artifact: %w", err)
	}

	return f, nil
}

// Owns reports whether path lies inside the store directory.
func (s *Store) Owns(path string) bool {
	if path == "" {
		return false
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	rel, err := filepath.Rel(s.dir, abs)
	if err != nil || rel == "." {
		return false
	}

	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Remove deletes an owned artifact. A missing file is not an error.
func (s *Store) Remove(path string) error {
	if !s.Owns(path) {
		return fmt.Errorf("%w: %s", ErrNotOwned, path)
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing artifact: %w", err)
	}

	return nil
}
