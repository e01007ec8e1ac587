package cli

import (
	"fmt"

	"github.com/morozRed/revise/internal/fileutil"
	"github.com/spf13/cobra"
)

// RunRestore puts back the content saved in <file>_before_revision. It is
// the manual way out when a session was killed before it could clean up.
func RunRestore(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return &UsageError{Err: fmt.Errorf("restore takes exactly one file")}
	}
	path := args[0]
	keep, err := OptionalBoolFlag(cmd, "keep", false)
	if err != nil {
		return err
	}

	w := outWriter(cmd)
	st := newStyles(w)
	restored, err := fileutil.RestoreBackup(commandContext(cmd), path)
	if err != nil {
		return err
	}
	if !restored {
		fmt.Fprintf(w, "no backup found for %s\n", path)
		return nil
	}
	if !keep {
		if _, err := fileutil.RemoveBackup(path); err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "%s %s from %s\n", st.OK.Render("restored"), path, fileutil.BackupPath(path))
	return nil
}
