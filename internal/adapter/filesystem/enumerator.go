package filesystem

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/semmidev/archivist/internal/domain"
	"github.com/spf13/afero"
)

type Enumerator struct {
	fs     afero.Fs
	logger Logger
}

func NewEnumerator(fsys afero.Fs, logger Logger) *Enumerator {
	return &Enumerator{fs: fsys, logger: logger}
}

// Enumerate lists every regular file under dataRoot in a single lexical walk.
// Paths are relative to dataRoot and slash-separated. A symlinked dataRoot is
// followed; symlinks below it are not.
func (e *Enumerator) Enumerate(dataRoot string) (domain.Manifest, error) {
	isDir, err := afero.DirExists(e.fs, dataRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read folder %s: %w", domain.ErrDataSource, dataRoot, err)
	}
	if !isDir {
		return nil, emptyDataSource(dataRoot)
	}

	walkRoot, err := e.resolveRoot(dataRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to resolve folder %s: %w", domain.ErrDataSource, dataRoot, err)
	}

	var manifest domain.Manifest
	err = afero.Walk(e.fs, walkRoot, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(walkRoot, path)
		if err != nil {
			return err
		}
		manifest = append(manifest, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read folder %s: %w", domain.ErrDataSource, dataRoot, err)
	}

	e.logger.Debugf("All files in data folder %s: %v", dataRoot, manifest)

	if len(manifest) == 0 {
		return nil, emptyDataSource(dataRoot)
	}
	return manifest, nil
}

func emptyDataSource(dataRoot string) error {
	return fmt.Errorf("%w: the data folder %s is empty or does not exist, check the relative data path in the config file",
		domain.ErrEmptyDataSource, dataRoot)
}

// resolveRoot follows symlinks in dataRoot on the OS filesystem, since the walk
// lstats its root.
func (e *Enumerator) resolveRoot(dataRoot string) (string, error) {
	if _, ok := e.fs.(*afero.OsFs); !ok {
		return dataRoot, nil
	}
	return filepath.EvalSymlinks(dataRoot)
}
