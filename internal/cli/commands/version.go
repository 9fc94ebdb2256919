package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, buildDate string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display jsonsql version and build information.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "jsonsql v%s (commit %s, built %s)\n", version, commit, buildDate)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "JSON to SQL schema generator for SQLite, MySQL and Postgres")
		},
	}
}
