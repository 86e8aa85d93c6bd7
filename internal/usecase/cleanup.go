package usecase

import (
	"context"
	"fmt"

	"github.com/juju/clock"
	"github.com/semmidev/archivist/internal/domain"
)

// Cleanup removes archives of one backup type older than the retention period.
// Only names with a recognizable archive timestamp are considered.
type Cleanup struct {
	store         domain.ArchiveStore
	backupType    string
	retentionDays int
	clock         clock.Clock
	logger        Logger
}

func NewCleanup(
	store domain.ArchiveStore,
	backupType string,
	retentionDays int,
	clk clock.Clock,
	logger Logger,
) *Cleanup {
	return &Cleanup{
		store:         store,
		backupType:    backupType,
		retentionDays: retentionDays,
		clock:         clk,
		logger:        logger,
	}
}

// Execute returns an error only when the archives cannot be listed; failed
// deletions are logged and skipped.
func (uc *Cleanup) Execute(ctx context.Context) error {
	if uc.retentionDays <= 0 {
		return nil
	}
	uc.logger.Infof("[%s] Starting cleanup, retention: %d days", uc.backupType, uc.retentionDays)

	cutoff := uc.clock.Now().AddDate(0, 0, -uc.retentionDays)

	files, err := uc.store.List(ctx)
	if err != nil {
		return fmt.Errorf("list archives: %w", err)
	}

	deleted := 0
	for _, name := range files {
		timestamp, err := archiveTimestamp(uc.backupType, name)
		if err != nil {
			uc.logger.Debugf("[%s] Skipping %s: %v", uc.backupType, name, err)
			continue
		}
		if !timestamp.Before(cutoff) {
			continue
		}

		uc.logger.Infof("[%s] Deleting old backup: %s", uc.backupType, name)
		if err := uc.store.Delete(ctx, name); err != nil {
			uc.logger.Warnf("[%s] Failed to delete %s: %v", uc.backupType, name, err)
			continue
		}
		deleted++
	}

	uc.logger.Infof("[%s] Deleted %d old backup(s)", uc.backupType, deleted)
	return nil
}
