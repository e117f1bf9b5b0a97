package store

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupSnapshot(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("sqlite bytes"), 0o644))

	backupDir := filepath.Join(dir, "backups")
	b := NewBackup(dbPath, BackupConfig{Enabled: true, Dir: backupDir, RetentionDays: 14}, zerolog.New(io.Discard))

	require.NoError(t, b.Snapshot())

	entries, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(backupDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, []byte("sqlite bytes"), data)
}

func TestBackupSnapshotMissingDatabase(t *testing.T) {
	dir := t.TempDir()
	b := NewBackup(filepath.Join(dir, "nope.db"), BackupConfig{Enabled: true, Dir: filepath.Join(dir, "backups")}, zerolog.New(io.Discard))
	assert.Error(t, b.Snapshot())
}
