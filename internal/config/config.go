package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/semmidev/archivist/internal/domain"
	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Backup BackupConfig `mapstructure:"backup"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
}

type BackupConfig struct {
	Type             string   `mapstructure:"type"`
	RootFolder       string   `mapstructure:"root_folder"`
	DataRelativePath string   `mapstructure:"data_relative_path"`
	BackupFolder     string   `mapstructure:"backup_folder"`
	Filters          []string `mapstructure:"filters"`
	ArchiveType      string   `mapstructure:"archive_type"`
	RetentionDays    int      `mapstructure:"retention_days"`

	// Six-field cron expression; empty runs a single backup.
	Schedule string `mapstructure:"schedule"`
}

// envKeys are bound explicitly so overrides apply even when a key is absent
// from the file.
var envKeys = []string{
	"app.name",
	"app.log_level",
	"app.log_file",
	"backup.type",
	"backup.root_folder",
	"backup.data_relative_path",
	"backup.backup_folder",
	"backup.filters",
	"backup.archive_type",
	"backup.retention_days",
	"backup.schedule",
}

var scheduleParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("ARCHIVIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	v.SetDefault("app.name", "archivist")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("backup.filters", []string{domain.AllFilesPattern})
	v.SetDefault("backup.archive_type", string(domain.DefaultFormat))
	v.SetDefault("backup.retention_days", 0)
	v.SetDefault("backup.schedule", "")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	b := c.Backup

	if b.Type == "" {
		return fmt.Errorf("backup.type is required")
	}
	if strings.ContainsAny(b.Type, `/\`) || b.Type == "." || b.Type == ".." {
		return fmt.Errorf("backup.type %q must be a plain folder name", b.Type)
	}
	if b.RootFolder == "" {
		return fmt.Errorf("backup.root_folder is required")
	}
	if !filepath.IsAbs(b.RootFolder) {
		return fmt.Errorf("backup.root_folder %q must be an absolute path", b.RootFolder)
	}
	if b.DataRelativePath == "" {
		return fmt.Errorf("backup.data_relative_path is required")
	}
	if filepath.IsAbs(b.DataRelativePath) {
		return fmt.Errorf("backup.data_relative_path %q must be relative to backup.root_folder", b.DataRelativePath)
	}
	if b.BackupFolder == "" {
		return fmt.Errorf("backup.backup_folder is required")
	}
	if filepath.IsAbs(b.BackupFolder) {
		return fmt.Errorf("backup.backup_folder %q must be relative to backup.root_folder", b.BackupFolder)
	}
	if _, err := domain.ParseFormat(b.ArchiveType); err != nil {
		return fmt.Errorf("backup.archive_type: %w", err)
	}
	if b.RetentionDays < 0 {
		return fmt.Errorf("backup.retention_days must not be negative")
	}
	if b.Schedule != "" {
		if _, err := scheduleParser.Parse(b.Schedule); err != nil {
			return fmt.Errorf("backup.schedule: %w", err)
		}
	}

	return nil
}

// Job converts a validated configuration into a backup job.
func (c *Config) Job() domain.BackupJob {
	format, err := domain.ParseFormat(c.Backup.ArchiveType)
	if err != nil {
		format = domain.DefaultFormat
	}

	return domain.BackupJob{
		Type:             c.Backup.Type,
		RootFolder:       filepath.Clean(c.Backup.RootFolder),
		DataRelativePath: c.Backup.DataRelativePath,
		BackupFolder:     c.Backup.BackupFolder,
		Filters:          domain.ParseFilters(c.Backup.Filters),
		Format:           format,
	}
}
