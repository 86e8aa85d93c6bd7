package usecase

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/juju/clock"
	"github.com/semmidev/archivist/internal/domain"
)

type Logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
}

// Backup produces one full archive of a job's data folder per Execute.
type Backup struct {
	job         domain.BackupJob
	provisioner domain.Provisioner
	enumerator  domain.Enumerator
	archiver    domain.ArchiveWriter
	clock       clock.Clock
	logger      Logger
}

func NewBackup(
	job domain.BackupJob,
	provisioner domain.Provisioner,
	enumerator domain.Enumerator,
	archiver domain.ArchiveWriter,
	clk clock.Clock,
	logger Logger,
) *Backup {
	return &Backup{
		job:         job,
		provisioner: provisioner,
		enumerator:  enumerator,
		archiver:    archiver,
		clock:       clk,
		logger:      logger,
	}
}

// Execute runs every step in order. Any failure is returned as a
// *domain.StageError naming the last state reached.
func (uc *Backup) Execute(ctx context.Context) (domain.Result, error) {
	start := uc.clock.Now()
	state := domain.StateInit
	fail := func(err error) (domain.Result, error) {
		return domain.Result{}, &domain.StageError{State: state, Err: err}
	}

	dataRoot := uc.job.DataRoot()
	backupRoot := uc.job.BackupRoot()
	archiveDir := uc.job.ArchiveDir()
	uc.logger.Debugf("[%s] Root folder is %s, data folder is %s", uc.job.Type, uc.job.RootFolder, dataRoot)
	state = domain.StateDirectoryResolved

	for _, dir := range []string{backupRoot, archiveDir} {
		if err := uc.provisioner.EnsureDirectory(dir); err != nil {
			return fail(err)
		}
	}
	state = domain.StateDirectoriesProvisioned

	files, err := uc.enumerator.Enumerate(dataRoot)
	if err != nil {
		return fail(err)
	}
	state = domain.StateFilesEnumerated

	if uc.job.Filters.IsAll() {
		uc.logger.Debugf("[%s] No effective filter string, archiving all files in data folder", uc.job.Type)
	} else {
		uc.logger.Debugf("[%s] Filtering files with filter strings: %s", uc.job.Type, uc.job.Filters)
	}
	files = FilterManifest(files, uc.job.Filters)
	uc.logger.Debugf("[%s] Files to archive: %v", uc.job.Type, files)
	if len(files) == 0 {
		return fail(fmt.Errorf("%w: no file in %s matches filters %s", domain.ErrEmptyDataSource, dataRoot, uc.job.Filters))
	}
	uc.logger.Infof("[%s] Number of files to archive: %d", uc.job.Type, len(files))
	state = domain.StateFilesFiltered

	destination := filepath.Join(archiveDir, ArchiveName(uc.job.Type, uc.clock.Now(), uc.job.Format))
	state = domain.StateNamed

	size, err := uc.archiver.Write(ctx, destination, dataRoot, files, uc.job.Format)
	if err != nil {
		return fail(err)
	}
	state = domain.StateWritten

	result := domain.Result{
		Destination: destination,
		Files:       len(files),
		Size:        size,
		Duration:    uc.clock.Now().Sub(start),
	}
	uc.logger.Infof("[%s] Archive saved successfully: %s (%s)", uc.job.Type, destination, humanize.Bytes(uint64(size)))

	return result, nil
}
