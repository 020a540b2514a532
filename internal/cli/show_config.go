// internal/cli/show_config.go
package ecoaudit

import (
	"github.com/spf13/cobra"
)

// showConfigCmd implements 'show config', which prints the merged
// configuration after flags, environment and config file are applied.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings, confirming that the config file is loaded and that flags and ECOAUDIT_* variables override it.`,
	Run: func(cmd *cobra.Command, args []string) {
		runShowConfig(cmd.OutOrStdout(), getConfig())
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
}
