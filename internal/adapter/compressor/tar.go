package compressor

import (
	"archive/tar"
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/semmidev/archivist/internal/domain"
	"github.com/spf13/afero"
)

const (
	writeBufferSize = 1 << 20
	archiveFileMode = 0644
)

type Logger interface {
	Debugf(template string, args ...interface{})
}

// TarArchiver writes compressed tar archives. Content goes to a temporary file
// next to the destination, which is renamed into place only after every member
// has been written and all writers are flushed.
type TarArchiver struct {
	fs     afero.Fs
	logger Logger
}

func NewTar(fsys afero.Fs, logger Logger) *TarArchiver {
	return &TarArchiver{fs: fsys, logger: logger}
}

func (a *TarArchiver) Write(ctx context.Context, destination, dataRoot string, manifest domain.Manifest, format domain.Format) (size int64, retErr error) {
	if err := a.ensureAbsent(destination); err != nil {
		return 0, err
	}

	tmp, err := afero.TempFile(a.fs, filepath.Dir(destination), "."+filepath.Base(destination)+".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("%w: unable to open archive %s: %w", domain.ErrArchiveIO, destination, err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if retErr != nil {
			tmp.Close()
			a.fs.Remove(tmpPath)
		}
	}()

	if err := a.writeTar(ctx, tmp, destination, dataRoot, manifest, format); err != nil {
		return 0, err
	}

	info, err := tmp.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: unable to stat archive %s: %w", domain.ErrArchiveIO, destination, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("%w: unable to close archive %s: %w", domain.ErrArchiveIO, destination, err)
	}

	if err := a.fs.Chmod(tmpPath, archiveFileMode); err != nil {
		return 0, fmt.Errorf("%w: unable to set mode on archive %s: %w", domain.ErrArchiveIO, destination, err)
	}
	if err := a.ensureAbsent(destination); err != nil {
		return 0, err
	}
	if err := a.fs.Rename(tmpPath, destination); err != nil {
		return 0, fmt.Errorf("%w: unable to move archive into place %s: %w", domain.ErrArchiveIO, destination, err)
	}

	return info.Size(), nil
}

// ensureAbsent refuses to overwrite an archive produced earlier in the same second.
func (a *TarArchiver) ensureAbsent(destination string) error {
	exists, err := afero.Exists(a.fs, destination)
	if err != nil {
		return fmt.Errorf("%w: unable to check archive %s: %w", domain.ErrArchiveIO, destination, err)
	}
	if exists {
		return fmt.Errorf("%w: archive %s already exists: %w", domain.ErrArchiveIO, destination, os.ErrExist)
	}
	return nil
}

func (a *TarArchiver) writeTar(ctx context.Context, w io.Writer, destination, dataRoot string, manifest domain.Manifest, format domain.Format) (retErr error) {
	bufWriter := bufio.NewWriterSize(w, writeBufferSize)

	codecWriter, err := newCodecWriter(bufWriter, format)
	if err != nil {
		return fmt.Errorf("%w: unable to use archive %s: %w", domain.ErrArchiveIO, destination, err)
	}
	tarWriter := tar.NewWriter(codecWriter)

	defer func() {
		if err := tarWriter.Close(); err != nil && retErr == nil {
			retErr = fmt.Errorf("%w: tar writer close failed for %s: %w", domain.ErrArchiveIO, destination, err)
		}
		if err := codecWriter.Close(); err != nil && retErr == nil {
			retErr = fmt.Errorf("%w: %s writer close failed for %s: %w", domain.ErrArchiveIO, format, destination, err)
		}
		if err := bufWriter.Flush(); err != nil && retErr == nil {
			retErr = fmt.Errorf("%w: buffer flush failed for %s: %w", domain.ErrArchiveIO, destination, err)
		}
	}()

	for _, rel := range manifest {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: archiving %s interrupted: %w", domain.ErrArchiveIO, destination, err)
		}
		a.logger.Debugf("Add file %s to archive %s", rel, destination)
		if err := a.addMember(tarWriter, dataRoot, rel); err != nil {
			return fmt.Errorf("%w: unable to add %s to archive %s: %w", domain.ErrArchiveIO, rel, destination, err)
		}
	}

	return nil
}

func (a *TarArchiver) addMember(tw *tar.Writer, dataRoot, rel string) error {
	f, err := a.fs.Open(filepath.Join(dataRoot, filepath.FromSlash(rel)))
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file: %s", info.Mode().Type())
	}

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	header.Name = rel

	if err := tw.WriteHeader(header); err != nil {
		return err
	}
	if _, err := io.Copy(tw, f); err != nil {
		return err
	}
	return nil
}
