package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// BackupConfig controls the periodic database file backup.
type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Dir           string `yaml:"dir"`
	RetentionDays int    `yaml:"retention_days"`
}

// Backup copies the sqlite file into a timestamped snapshot once a day and
// prunes snapshots past retention.
type Backup struct {
	dbPath string
	cfg    BackupConfig
	logger zerolog.Logger
}

// NewBackup constructs the backup runner for the database at dbPath.
func NewBackup(dbPath string, cfg BackupConfig, logger zerolog.Logger) *Backup {
	if cfg.Dir == "" {
		cfg.Dir = "backups"
	}
	return &Backup{dbPath: dbPath, cfg: cfg, logger: logger}
}

// Run blocks until ctx is cancelled. The first backup happens immediately.
func (b *Backup) Run(ctx context.Context) {
	if !b.cfg.Enabled {
		return
	}

	if err := b.Snapshot(); err != nil {
		b.logger.Error().Err(err).Msg("initial backup failed")
	}

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := b.Snapshot(); err != nil {
				b.logger.Error().Err(err).Msg("scheduled backup failed")
			}
			b.prune()
		}
	}
}

// Snapshot copies the database file into the backup directory.
func (b *Backup) Snapshot() error {
	if err := os.MkdirAll(b.cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	name := fmt.Sprintf("lessonbook_%s.db", time.Now().Format("20060102_150405"))
	dest := filepath.Join(b.cfg.Dir, name)

	src, err := os.Open(b.dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("copy database: %w", err)
	}

	b.logger.Info().Str("path", dest).Msg("database backup written")
	return nil
}

func (b *Backup) prune() {
	if b.cfg.RetentionDays <= 0 {
		return
	}

	entries, err := os.ReadDir(b.cfg.Dir)
	if err != nil {
		b.logger.Error().Err(err).Msg("read backup dir failed")
		return
	}

	cutoff := time.Now().AddDate(0, 0, -b.cfg.RetentionDays)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(b.cfg.Dir, e.Name())); err != nil {
			b.logger.Error().Err(err).Str("file", e.Name()).Msg("remove old backup failed")
			continue
		}
		b.logger.Info().Str("file", e.Name()).Msg("old backup removed")
	}
}
