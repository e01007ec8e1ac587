package fileutil

import (
	"fmt"
	"os"
	"strings"
)

// UpsertManagedFile replaces the block between startMarker and endMarker in
// the file at path with body, appending the block when it is missing.
func UpsertManagedFile(path, startMarker, endMarker, body string) (bool, error) {
	existing := ""
	if data, err := os.ReadFile(path); err == nil {
		existing = string(data)
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	managed := fmt.Sprintf("%s\n%s\n%s", startMarker, strings.TrimSpace(body), endMarker)
	updated := UpsertManagedBlock(existing, startMarker, endMarker, managed)
	return WriteIfChangedTracked(path, []byte(updated))
}

func UpsertManagedBlock(existing, startMarker, endMarker, managedContent string) string {
	if existing == "" {
		return managedContent + "\n"
	}

	start := strings.Index(existing, startMarker)
	end := strings.Index(existing, endMarker)
	if start >= 0 && end >= start {
		end += len(endMarker)
		updated := existing[:start] + managedContent + existing[end:]
		return EnsureTrailingNewline(updated)
	}

	base := EnsureTrailingNewline(existing)
	return base + "\n" + managedContent + "\n"
}
