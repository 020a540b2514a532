// internal/cli/version.go
package ecoaudit

import (
	"fmt"

	"github.com/spf13/cobra"
)

var buildInfo = struct {
	version, commit, date string
}{"dev", "none", "unknown"}

// SetVersionInfo records build metadata for the version command.
func SetVersionInfo(version, commit, date string) {
	buildInfo.version = version
	buildInfo.commit = commit
	buildInfo.date = date
	rootCmd.Version = version
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ecoaudit %s (commit %s, built %s)\n", buildInfo.version, buildInfo.commit, buildInfo.date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
