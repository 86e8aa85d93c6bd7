package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// BackupJob describes one archive-creation run. Build it once and pass it by value.
type BackupJob struct {
	Type             string
	RootFolder       string
	DataRelativePath string
	BackupFolder     string
	Filters          Filters
	Format           Format
}

// DataRoot is the directory whose files get archived.
func (j BackupJob) DataRoot() string {
	return filepath.Join(j.RootFolder, j.DataRelativePath)
}

// BackupRoot is the type-partitioned backup folder.
func (j BackupJob) BackupRoot() string {
	return filepath.Join(j.RootFolder, j.BackupFolder)
}

// ArchiveDir is the folder holding the archives of this job's type.
func (j BackupJob) ArchiveDir() string {
	return filepath.Join(j.RootFolder, j.BackupFolder, j.Type)
}

// Manifest is an ordered list of slash-separated paths relative to the data root.
type Manifest []string

// Result summarizes a successful run.
type Result struct {
	Destination string
	Files       int
	Size        int64
	Duration    time.Duration
}

// AllFilesPattern is the configuration sentinel meaning "archive everything".
const AllFilesPattern = "*"

// Filters selects which manifest entries are archived. The zero value selects all files.
type Filters struct {
	patterns []string
}

// AllFiles returns filters that keep the manifest unchanged.
func AllFiles() Filters {
	return Filters{}
}

// Subset returns filters keeping entries that contain at least one of the
// patterns, case-insensitively. Empty patterns are dropped; whitespace is a
// valid substring.
func Subset(patterns ...string) Filters {
	kept := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p == "" {
			continue
		}
		kept = append(kept, p)
	}
	return Filters{patterns: kept}
}

// ParseFilters converts configured filter strings. An empty list, or any
// occurrence of the "*" sentinel, selects all files. An empty list would
// otherwise select nothing and could only end in an empty-data-source failure.
func ParseFilters(values []string) Filters {
	if len(values) == 0 {
		return AllFiles()
	}
	for _, v := range values {
		if v == AllFilesPattern {
			return AllFiles()
		}
	}
	return Subset(values...)
}

// IsAll reports whether the filters select every file.
func (f Filters) IsAll() bool {
	return f.patterns == nil
}

// Patterns returns a copy of the subset patterns in order. It is nil for AllFiles.
func (f Filters) Patterns() []string {
	if f.patterns == nil {
		return nil
	}
	out := make([]string, len(f.patterns))
	copy(out, f.patterns)
	return out
}

func (f Filters) String() string {
	if f.IsAll() {
		return AllFilesPattern
	}
	return "[" + strings.Join(f.patterns, ", ") + "]"
}
