package storage

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// LocalStorage archives reports under a directory on local disk. It is the
// default backend when no Azure storage account is configured.
type LocalStorage struct {
	dir string
}

// Ensure LocalStorage implements StorageInterface
var _ StorageInterface = (*LocalStorage)(nil)

// NewLocalStorage creates an archive rooted at dir, creating it if needed.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if dir == "" {
		dir = "reports"
	}
	dir = filepath.Clean(dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create reports directory %s: %w", dir, err)
	}
	return &LocalStorage{dir: dir}, nil
}

// Store writes a report artifact, creating company subdirectories as needed.
func (s *LocalStorage) Store(filename string, data []byte) error {
	path, err := s.path(filename)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", filename, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}

	logrus.Infof("Archived %s to %s", filename, s.dir)
	return nil
}

// Retrieve reads an archived artifact.
func (s *LocalStorage) Retrieve(filename string) ([]byte, error) {
	path, err := s.path(filename)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return data, nil
}

// List returns archive keys under the prefix in lexical order, so keys built
// by BlobName come back oldest first.
func (s *LocalStorage) List(prefix string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

// Delete removes an archived artifact.
func (s *LocalStorage) Delete(filename string) error {
	path, err := s.path(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete %s: %w", filename, err)
	}
	return nil
}

// path resolves an archive key to a filesystem path, rejecting keys that
// would escape the archive root.
func (s *LocalStorage) path(filename string) (string, error) {
	path := filepath.Join(s.dir, filepath.FromSlash(filename))
	if path == s.dir || !strings.HasPrefix(path, s.dir+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid blob name %q", filename)
	}
	return path, nil
}
