package ecoaudit

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

// commandRow is one line of the 'list commands' output.
type commandRow struct {
	usage string
	short string
}

// runListCommands prints every available command under root with its
// arguments. Commands that only group others are marked as such.
func runListCommands(w io.Writer, root *cobra.Command) {
	rows := commandRows(root, 0)

	width := 0
	for _, row := range rows {
		if n := utf8.RuneCountInString(row.usage); n > width {
			width = n
		}
	}

	fmt.Fprintln(w, "Commands:")
	for _, row := range rows {
		fmt.Fprintf(w, "  %-*s  %s\n", width, row.usage, row.short)
	}
}

func commandRows(cmd *cobra.Command, depth int) []commandRow {
	var rows []commandRow
	for _, sub := range cmd.Commands() {
		// help is already excluded by IsAvailableCommand.
		if !sub.IsAvailableCommand() || sub.Name() == "completion" {
			continue
		}
		row := commandRow{
			usage: strings.Repeat("  ", depth) + sub.CommandPath() + strings.TrimPrefix(sub.Use, sub.Name()),
			short: sub.Short,
		}
		if !sub.Runnable() {
			row.short += " (group)"
		}
		rows = append(rows, row)
		rows = append(rows, commandRows(sub, depth+1)...)
	}
	return rows
}
