package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/semmidev/archivist/internal/domain"
)

const archiveTimestampLayout = "2006_01_02_15_04_05"

// ArchiveName formats {type}_backup_{YYYY_MM_DD_HH_MM_SS}.tar.{ext}.
func ArchiveName(backupType string, timestamp time.Time, format domain.Format) string {
	return fmt.Sprintf("%s_backup_%s.tar.%s", backupType, timestamp.Format(archiveTimestampLayout), format.Extension())
}

// archiveTimestamp recovers the timestamp from a name produced by ArchiveName
// for backupType, in any format.
func archiveTimestamp(backupType, name string) (time.Time, error) {
	prefix := backupType + "_backup_"
	if !strings.HasPrefix(name, prefix) {
		return time.Time{}, fmt.Errorf("invalid filename format: missing %q prefix", prefix)
	}

	rest := strings.TrimPrefix(name, prefix)
	if len(rest) <= len(archiveTimestampLayout) || !strings.HasPrefix(rest[len(archiveTimestampLayout):], ".tar.") {
		return time.Time{}, fmt.Errorf("invalid filename format: no timestamp found")
	}

	return time.ParseInLocation(archiveTimestampLayout, rest[:len(archiveTimestampLayout)], time.Local)
}
