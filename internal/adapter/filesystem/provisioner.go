package filesystem

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/semmidev/archivist/internal/domain"
	"github.com/spf13/afero"
)

type Logger interface {
	Debugf(template string, args ...interface{})
	Warnf(template string, args ...interface{})
}

// Provisioner creates missing backup directories one level at a time.
type Provisioner struct {
	fs     afero.Fs
	logger Logger
}

func NewProvisioner(fsys afero.Fs, logger Logger) *Provisioner {
	return &Provisioner{fs: fsys, logger: logger}
}

// EnsureDirectory is a no-op when path already exists. Otherwise it creates
// path, whose parent must exist.
func (p *Provisioner) EnsureDirectory(path string) error {
	exists, err := afero.Exists(p.fs, path)
	if err != nil {
		return fmt.Errorf("%w: unable to check backup directory %s: %w", domain.ErrConfiguration, path, err)
	}
	if exists {
		return nil
	}

	parent := filepath.Dir(path)
	parentExists, err := afero.DirExists(p.fs, parent)
	if err != nil {
		return fmt.Errorf("%w: unable to check backup directory %s: %w", domain.ErrConfiguration, parent, err)
	}
	if !parentExists {
		return fmt.Errorf("%w: unable to create missing backup directory %s: %w",
			domain.ErrConfiguration, path, &fs.PathError{Op: "mkdir", Path: path, Err: fs.ErrNotExist})
	}

	if err := p.fs.Mkdir(path, 0755); err != nil {
		return fmt.Errorf("%w: unable to create missing backup directory %s: %w", domain.ErrConfiguration, path, err)
	}

	p.logger.Warnf("No backup folder with name %s, it has been created", path)
	return nil
}
