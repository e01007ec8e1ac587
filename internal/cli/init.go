package cli

import (
	"fmt"
	"path/filepath"

	"github.com/morozRed/revise/internal/config"
	"github.com/morozRed/revise/internal/fileutil"
	"github.com/spf13/cobra"
)

const (
	gitignoreStartMarker = "# >>> revise backups >>>"
	gitignoreEndMarker   = "# <<< revise backups <<<"
)

func RunInit(cmd *cobra.Command, args []string) error {
	rootPath, err := resolveWorkingDirectory()
	if err != nil {
		return err
	}
	force, err := OptionalBoolFlag(cmd, "force", false)
	if err != nil {
		return err
	}
	noGitignore, err := OptionalBoolFlag(cmd, "no-gitignore", false)
	if err != nil {
		return err
	}
	w := outWriter(cmd)

	configPath := filepath.Join(rootPath, config.DefaultFileName)
	var wrote bool
	if force {
		wrote, err = fileutil.WriteIfChangedTracked(configPath, []byte(config.ProjectTemplate))
	} else {
		wrote, err = fileutil.WriteIfMissing(configPath, []byte(config.ProjectTemplate), 0o644)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", config.DefaultFileName, err)
	}
	switch {
	case wrote:
		fmt.Fprintf(w, "Wrote %s\n", configPath)
	case force:
		fmt.Fprintf(w, "%s is up to date\n", configPath)
	default:
		fmt.Fprintf(w, "%s already exists (use --force to overwrite)\n", configPath)
	}

	if noGitignore {
		return nil
	}
	updated, err := upsertGitignore(rootPath)
	if err != nil {
		return err
	}
	if updated {
		fmt.Fprintf(w, "Updated %s\n", filepath.Join(rootPath, ".gitignore"))
	}
	return nil
}

// upsertGitignore keeps session backups out of version control.
func upsertGitignore(rootPath string) (bool, error) {
	body := "*" + fileutil.BackupSuffix
	updated, err := fileutil.UpsertManagedFile(filepath.Join(rootPath, ".gitignore"), gitignoreStartMarker, gitignoreEndMarker, body)
	if err != nil {
		return false, fmt.Errorf("failed to update .gitignore: %w", err)
	}
	return updated, nil
}
