// internal/cli/list_commands.go
package ecoaudit

import "github.com/spf13/cobra"

// listCmd groups the 'list' subcommands.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Group commands for listing resources",
}

// commandsCmd implements 'list commands'.
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List every command with its arguments",
	Long:  `List every ecoaudit command, indented under its group, with its arguments and a short description.`,
	Run: func(cmd *cobra.Command, args []string) {
		runListCommands(cmd.OutOrStdout(), rootCmd)
	},
}

func init() {
	listCmd.AddCommand(commandsCmd)
	rootCmd.AddCommand(listCmd)
}
