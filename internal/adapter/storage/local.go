package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// LocalStorage is the folder holding the archives of one backup type.
type LocalStorage struct {
	fs       afero.Fs
	basePath string
}

// NewLocal does not create basePath; provisioning happens before the first write.
func NewLocal(fsys afero.Fs, basePath string) *LocalStorage {
	return &LocalStorage{fs: fsys, basePath: basePath}
}

// List returns the names of the files in the folder. A missing folder holds no archives.
func (l *LocalStorage) List(ctx context.Context) ([]string, error) {
	exists, err := afero.DirExists(l.fs, l.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	if !exists {
		return nil, nil
	}

	entries, err := afero.ReadDir(l.fs, l.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}

	return files, nil
}

func (l *LocalStorage) Delete(ctx context.Context, name string) error {
	if filepath.Base(name) != name {
		return fmt.Errorf("failed to delete file: invalid archive name %q", name)
	}
	if err := l.fs.Remove(l.GetPath(name)); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (l *LocalStorage) GetPath(name string) string {
	return filepath.Join(l.basePath, name)
}
