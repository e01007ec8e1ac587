package cli

import (
	"fmt"
	"strings"

	"github.com/morozRed/revise/internal/session"
	"github.com/spf13/cobra"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "revise",
		Short: "Revise one structure of a source file with a code generator",
		Long: `Revise locates a named function, class or other structure in a source
file, asks an external generator for new code, splices the answer back in
and runs your validator. Failed validations are retried with the validator
output as feedback. When the revision cannot be accepted the file is left
exactly as it was.

The instruction for the generator is read from stdin unless --instruction
is given.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to a config file (skips project config discovery)")
	flags.StringP("language", "l", "", "Language of the file (default: detect from the file)")
	flags.String("flow", "", "Generator flow for code requests")
	flags.String("generator", "", "Generator command (default: fluent)")
	flags.String("lint", "", "Validator command; {file_path} is replaced with the file")
	flags.Int("max-retries", 0, "Maximum generator calls per revision")
	flags.Bool("no-commit", false, "Do not commit the accepted revision")
	flags.Bool("strict", false, "Refuse to edit files with syntax errors")
	flags.String("log-level", "", "Log level: debug|info|warn|error")
	flags.Bool("debug", false, "Shorthand for --log-level debug")
	flags.Bool("json", false, "Print machine-readable output")

	// Revision Commands
	runCmd := &cobra.Command{
		Use:   "run <file> [structure]",
		Short: "Run a revision in the mode given by --mode",
		Args:  usageArgs(cobra.RangeArgs(1, 2)),
		RunE:  RunMode,
	}
	runCmd.Flags().String("mode", "", "Revision mode: "+strings.Join(session.ModeNames(), "|"))
	addInstructionFlag(runCmd)

	shortcuts := []struct {
		use   string
		short string
		mode  session.Mode
	}{
		{"replace <file> <structure>", "Rewrite one structure", session.ModeReplaceStructure},
		{"rewrite <file>", "Rewrite the whole file", session.ModeWholeFileRewrite},
		{"add <file>", "Add new code next to the entry point", session.ModeAddFunctionality},
		{"tests <file> <structure>", "Add tests for one structure", session.ModeAddTests},
		{"doc <file> <structure>", "Write or replace the documentation of one structure", session.ModeDocumentStructure},
		{"doc-file <file>", "Write or replace the file-level documentation", session.ModeDocumentWholeFile},
	}
	revisionCmds := make([]*cobra.Command, 0, len(shortcuts))
	for _, sc := range shortcuts {
		args := usageArgs(cobra.ExactArgs(1))
		if sc.mode.NeedsStructure() {
			args = usageArgs(cobra.ExactArgs(2))
		}
		c := &cobra.Command{
			Use:   sc.use,
			Short: sc.short,
			Args:  args,
			RunE:  RunRevisionFor(sc.mode),
		}
		addInstructionFlag(c)
		revisionCmds = append(revisionCmds, c)
	}

	// Inspect Commands
	listCmd := &cobra.Command{
		Use:   "list <file>",
		Short: "List the named structures of a file",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE:  RunList,
	}
	listCmd.Flags().Bool("names", false, "Print names only, one per line")
	listCmd.Flags().Bool("top-level", false, "Only list top-level structures")

	restoreCmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Restore a file from its pending backup",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE:  RunRestore,
	}
	restoreCmd.Flags().Bool("keep", false, "Keep the backup after restoring")

	// Setup Commands
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default .revise.toml in the current directory",
		Args:  usageArgs(cobra.NoArgs),
		RunE:  RunInit,
	}
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	initCmd.Flags().Bool("no-gitignore", false, "Do not add backup files to .gitignore")

	doctorCmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the generator, validator and git setup",
		Args:  usageArgs(cobra.NoArgs),
		RunE:  RunDoctor,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  usageArgs(cobra.NoArgs),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "revise %s\n", version)
		},
	}

	rootCmd.AddGroup(
		&cobra.Group{ID: "revise", Title: "Revision Commands:"},
		&cobra.Group{ID: "inspect", Title: "Inspect Commands:"},
		&cobra.Group{ID: "setup", Title: "Setup Commands:"},
	)
	runCmd.GroupID = "revise"
	rootCmd.AddCommand(runCmd)
	for _, c := range revisionCmds {
		c.GroupID = "revise"
		rootCmd.AddCommand(c)
	}
	listCmd.GroupID = "inspect"
	restoreCmd.GroupID = "inspect"
	initCmd.GroupID = "setup"
	doctorCmd.GroupID = "setup"
	versionCmd.GroupID = "setup"
	rootCmd.AddCommand(listCmd, restoreCmd, initCmd, doctorCmd, versionCmd)

	return rootCmd
}

func addInstructionFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("instruction", "i", "", "Instruction for the generator (default: read stdin)")
}

// usageArgs marks argument count errors as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &UsageError{Err: err}
		}
		return nil
	}
}
