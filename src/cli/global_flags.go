package cli

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"vmrotate/src/safety"
)

// addGlobalFlags adds persistent safety and logging flags to the root
// command.
func addGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().Bool("dry-run", false, "Show planned actions without making changes")
	cmd.PersistentFlags().BoolP("yes", "y", false, "Assume 'yes' to prompts and run non-interactively")
	cmd.PersistentFlags().Bool("force", false, "Skip confirmation prompts for destructive operations")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

// getSafetyOptions reads global flags into a safety.Options struct.
func getSafetyOptions(cmd *cobra.Command) safety.Options {
	dry, _ := cmd.Root().PersistentFlags().GetBool("dry-run")
	yes, _ := cmd.Root().PersistentFlags().GetBool("yes")
	force, _ := cmd.Root().PersistentFlags().GetBool("force")
	return safety.Options{DryRun: dry, Yes: yes, Force: force}
}

// newLogger builds the console logger warnings are reported on.
func newLogger(cmd *cobra.Command, w io.Writer) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose"); verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(level).With().Timestamp().Logger()
}
