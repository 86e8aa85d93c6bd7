package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks a required directory that is missing and cannot be created.
	ErrConfiguration = errors.New("configuration error")

	// ErrDataSource marks an unreadable data folder.
	ErrDataSource = errors.New("data source error")

	// ErrEmptyDataSource marks a data folder with nothing to archive. It matches ErrDataSource.
	ErrEmptyDataSource = fmt.Errorf("%w: nothing to archive", ErrDataSource)

	// ErrArchiveIO marks an archive that cannot be written or a member that cannot be added.
	ErrArchiveIO = errors.New("archive io error")
)

// State is a step of a backup run.
type State string

const (
	StateInit                   State = "init"
	StateDirectoryResolved      State = "directory-resolved"
	StateDirectoriesProvisioned State = "directories-provisioned"
	StateFilesEnumerated        State = "files-enumerated"
	StateFilesFiltered          State = "files-filtered"
	StateNamed                  State = "named"
	StateWritten                State = "written"
	StateDone                   State = "done"
)

// StageError is the Failed state: it records the state the run had reached.
type StageError struct {
	State State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("backup failed after %s: %v", e.State, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
