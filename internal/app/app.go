package app

import (
	"context"
	"fmt"

	"github.com/juju/clock"
	"github.com/semmidev/archivist/internal/adapter/compressor"
	"github.com/semmidev/archivist/internal/adapter/filesystem"
	"github.com/semmidev/archivist/internal/adapter/storage"
	"github.com/semmidev/archivist/internal/config"
	"github.com/semmidev/archivist/internal/domain"
	"github.com/semmidev/archivist/internal/infrastructure/logger"
	"github.com/semmidev/archivist/internal/infrastructure/scheduler"
	"github.com/semmidev/archivist/internal/usecase"
	"github.com/spf13/afero"
)

type App struct {
	config    *config.Config
	job       domain.BackupJob
	logger    *logger.Logger
	scheduler *scheduler.Scheduler
	backupUC  *usecase.Backup
	cleanupUC *usecase.Cleanup
}

func New(cfg *config.Config) (*App, error) {
	log, err := logger.New(cfg.App.Name, cfg.App.LogLevel, cfg.App.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return newApp(cfg, afero.NewOsFs(), clock.WallClock, log.WithBackupType(cfg.Backup.Type)), nil
}

func newApp(cfg *config.Config, fsys afero.Fs, clk clock.Clock, log *logger.Logger) *App {
	job := cfg.Job()

	backupUC := usecase.NewBackup(
		job,
		filesystem.NewProvisioner(fsys, log),
		filesystem.NewEnumerator(fsys, log),
		compressor.NewTar(fsys, log),
		clk,
		log,
	)

	cleanupUC := usecase.NewCleanup(
		storage.NewLocal(fsys, job.ArchiveDir()),
		job.Type,
		cfg.Backup.RetentionDays,
		clk,
		log,
	)

	return &App{
		config:    cfg,
		job:       job,
		logger:    log,
		scheduler: scheduler.New(log),
		backupUC:  backupUC,
		cleanupUC: cleanupUC,
	}
}

// RunOnce performs a single backup followed by retention cleanup.
func (a *App) RunOnce(ctx context.Context) error {
	a.logger.Infof("Starting %s backup of %s (%s, filters %s)", a.job.Type, a.job.DataRoot(), a.job.Format, a.job.Filters)

	result, err := a.backupUC.Execute(ctx)
	if err != nil {
		a.logger.Criticalf("%v", err)
		return err
	}

	if err := a.cleanupUC.Execute(ctx); err != nil {
		a.logger.Warnf("Cleanup failed for %s: %v", a.job.ArchiveDir(), err)
	}

	a.logger.Infof("Backup completed in %s: %s", result.Duration, result.Destination)
	return nil
}

// Run performs one backup, or, when a schedule is configured, runs backups on
// that schedule until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.config.Backup.Schedule == "" {
		return a.RunOnce(ctx)
	}

	if err := a.scheduler.AddJob(a.job.Type, a.config.Backup.Schedule, a.RunOnce); err != nil {
		return fmt.Errorf("failed to schedule backup for %s: %w", a.job.Type, err)
	}

	a.scheduler.Start()
	a.logger.Infof("Scheduler started, %s backup runs on %q", a.job.Type, a.config.Backup.Schedule)

	<-ctx.Done()
	return nil
}

func (a *App) Shutdown() {
	a.logger.Infof("Shutting down application...")
	a.scheduler.Stop()
	a.logger.Close()
}
