package fileutil

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteAtomicPreservesMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.sh")
	if err := os.WriteFile(path, []byte("old"), 0755); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := WriteAtomic(context.Background(), path, []byte("new"), 0755); err != nil {
		t.Fatalf("WriteAtomic failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "new" {
		t.Fatalf("expected new content, got %q", data)
	}
	info, _ := os.Stat(path)
	if info.Mode().Perm() != 0755 {
		t.Fatalf("expected mode 0755, got %v", info.Mode().Perm())
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("expected temp files to be cleaned up, got %d entries", len(entries))
	}
}

func TestWriteAtomicHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path := filepath.Join(t.TempDir(), "a.txt")
	if err := WriteAtomic(ctx, path, []byte("x"), 0); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no file to be written")
	}
}

func TestBackupLifecycle(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lib.rs")
	original := []byte("fn a() {}\n")
	if err := os.WriteFile(path, original, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := CreateBackup(ctx, path, original, 0644); err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if !BackupExists(path) {
		t.Fatalf("expected backup at %s", BackupPath(path))
	}
	if !strings.HasSuffix(BackupPath(path), "lib.rs_before_revision") {
		t.Fatalf("unexpected backup path %s", BackupPath(path))
	}

	if err := os.WriteFile(path, []byte("broken"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	restored, err := RestoreBackup(ctx, path)
	if err != nil || !restored {
		t.Fatalf("expected restore, got %t %v", restored, err)
	}
	data, _ := os.ReadFile(path)
	if !bytes.Equal(data, original) {
		t.Fatalf("expected original content after restore, got %q", data)
	}

	removed, err := RemoveBackup(path)
	if err != nil || !removed {
		t.Fatalf("expected backup removal, got %t %v", removed, err)
	}
	if removed, _ := RemoveBackup(path); removed {
		t.Fatalf("expected second removal to report no backup")
	}
	if restored, _ := RestoreBackup(ctx, path); restored {
		t.Fatalf("expected restore without backup to report false")
	}
}

func TestCreateBackupRefusesToOverwriteDifferentBackup(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "app.py")
	if err := os.WriteFile(BackupPath(path), []byte("pristine"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	err := CreateBackup(ctx, path, []byte("half-edited"), 0644)
	if !errors.Is(err, ErrBackupConflict) {
		t.Fatalf("expected ErrBackupConflict, got %v", err)
	}
	if !strings.Contains(err.Error(), HashBytes([]byte("pristine"))) {
		t.Fatalf("expected conflict to name the backup fingerprint, got %v", err)
	}
	if err := CreateBackup(ctx, path, []byte("pristine"), 0644); err != nil {
		t.Fatalf("expected identical backup to be accepted, got %v", err)
	}
}

func TestUpsertManagedBlockReplacesExistingBlock(t *testing.T) {
	start, end := "# >>> revise >>>", "# <<< revise <<<"
	existing := "target/\n" + start + "\nold\n" + end + "\n\n*.log\n"
	updated := UpsertManagedBlock(existing, start, end, start+"\nnew\n"+end)

	if strings.Contains(updated, "old") || !strings.Contains(updated, "new") {
		t.Fatalf("expected block to be replaced, got:\n%s", updated)
	}
	if strings.Count(updated, start) != 1 {
		t.Fatalf("expected exactly one managed block, got:\n%s", updated)
	}
	if !strings.Contains(updated, "target/") || !strings.Contains(updated, "*.log") {
		t.Fatalf("expected unmanaged lines to be preserved, got:\n%s", updated)
	}
}

func TestWriteIfChangedTracked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.toml")
	wrote, err := WriteIfChangedTracked(path, []byte("a"))
	if err != nil || !wrote {
		t.Fatalf("expected first write, got %t %v", wrote, err)
	}
	wrote, err = WriteIfChangedTracked(path, []byte("a"))
	if err != nil || wrote {
		t.Fatalf("expected unchanged content to be skipped, got %t %v", wrote, err)
	}
}

func TestDedupeStrings(t *testing.T) {
	got := DedupeStrings([]string{"b", "a", "b", "c", "a"})
	if strings.Join(got, ",") != "b,a,c" {
		t.Fatalf("expected b,a,c, got %v", got)
	}
}

func TestHashBytes(t *testing.T) {
	a, b := HashBytes([]byte("a")), HashBytes([]byte("b"))
	if len(a) != 16 || a == b || a != HashBytes([]byte("a")) {
		t.Fatalf("unexpected fingerprints %q %q", a, b)
	}
}
