package fileutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
)

// BackupSuffix is appended to a file's path to name its pristine copy.
const BackupSuffix = "_before_revision"

// ErrBackupConflict means a backup from an earlier, unfinished revision
// exists and differs from the current file.
var ErrBackupConflict = errors.New("a pending backup differs from the file")

// BackupPath returns the backup path for path.
func BackupPath(path string) string {
	return path + BackupSuffix
}

// BackupExists reports whether path has a backup.
func BackupExists(path string) bool {
	_, err := os.Stat(BackupPath(path))
	return err == nil
}

// CreateBackup copies content to the backup path with the given mode. An
// existing backup with identical content is overwritten; one that differs
// is left alone and ErrBackupConflict is returned, so that the pristine
// copy of an interrupted revision is never lost.
func CreateBackup(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	backupPath := BackupPath(path)
	existing, err := os.ReadFile(backupPath)
	switch {
	case err == nil && !bytes.Equal(existing, content):
		return fmt.Errorf("%w: %s (backup %s, file %s)", ErrBackupConflict, backupPath, HashBytes(existing), HashBytes(content))
	case err != nil && !os.IsNotExist(err):
		return fmt.Errorf("read backup: %w", err)
	}
	if err := WriteAtomic(ctx, backupPath, content, mode); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

// RestoreBackup copies the backup over path. It returns false when no
// backup exists.
func RestoreBackup(ctx context.Context, path string) (bool, error) {
	backupPath := BackupPath(path)
	content, err := os.ReadFile(backupPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read backup: %w", err)
	}
	stat, err := os.Stat(backupPath)
	if err != nil {
		return false, fmt.Errorf("stat backup: %w", err)
	}
	if err := WriteAtomic(ctx, path, content, stat.Mode().Perm()); err != nil {
		return false, fmt.Errorf("restore from backup: %w", err)
	}
	return true, nil
}

// RemoveBackup deletes the backup for path. It returns false when none existed.
func RemoveBackup(path string) (bool, error) {
	err := os.Remove(BackupPath(path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("remove backup: %w", err)
}
