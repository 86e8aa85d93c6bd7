package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/semmidev/archivist/internal/config"
	"github.com/semmidev/archivist/internal/domain"
	"github.com/semmidev/archivist/internal/infrastructure/logger"
	"github.com/spf13/afero"

	. "github.com/smartystreets/goconvey/convey"
)

func TestApp(t *testing.T) {
	Convey("Given an app over an in-memory filesystem", t, func() {
		memFs := afero.NewMemMapFs()
		So(memFs.MkdirAll("/srv/data", 0755), ShouldBeNil)

		log, err := logger.New("test", "error", "")
		So(err, ShouldBeNil)

		clk := testclock.NewClock(time.Date(2024, time.March, 5, 7, 8, 9, 0, time.Local))
		cfg := &config.Config{Backup: config.BackupConfig{
			Type:             "daily",
			RootFolder:       "/srv",
			DataRelativePath: "data",
			BackupFolder:     "backups",
			Filters:          []string{"*"},
			ArchiveType:      "gz",
			RetentionDays:    7,
		}}

		Convey("When the data folder has files and an expired archive exists", func() {
			So(afero.WriteFile(memFs, "/srv/data/a.txt", []byte("a"), 0644), ShouldBeNil)
			So(afero.WriteFile(memFs, "/srv/backups/daily/daily_backup_2024_01_01_00_00_00.tar.gz", []byte("old"), 0644), ShouldBeNil)

			err := newApp(cfg, memFs, clk, log).Run(context.Background())

			Convey("It should write the new archive and remove the expired one", func() {
				So(err, ShouldBeNil)

				exists, _ := afero.Exists(memFs, "/srv/backups/daily/daily_backup_2024_03_05_07_08_09.tar.gz")
				So(exists, ShouldBeTrue)
				exists, _ = afero.Exists(memFs, "/srv/backups/daily/daily_backup_2024_01_01_00_00_00.tar.gz")
				So(exists, ShouldBeFalse)
			})
		})

		Convey("When the data folder is empty", func() {
			err := newApp(cfg, memFs, clk, log).RunOnce(context.Background())

			Convey("It should return the data source error", func() {
				So(errors.Is(err, domain.ErrEmptyDataSource), ShouldBeTrue)
			})
		})

		Convey("When a schedule is configured", func() {
			So(afero.WriteFile(memFs, "/srv/data/a.txt", []byte("a"), 0644), ShouldBeNil)
			cfg.Backup.Schedule = "@every 1h"
			application := newApp(cfg, memFs, clk, log)

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			err := application.Run(ctx)
			application.Shutdown()

			Convey("It should return once the context is done", func() {
				So(err, ShouldBeNil)
			})
		})
	})
}
