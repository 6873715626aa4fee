package root

import (
	"github.com/spf13/cobra"
)

// New returns the top-level stockroom command. --json is inherited by every
// subcommand that prints data.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "stockroom",
		Short:         "Stockroom inventory CLI",
		Long:          "Command line interface for the Stockroom inventory API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().Bool("json", false, "Print raw JSON instead of a table")
	return cmd
}

// JSON reports whether --json was given.
func JSON(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}
