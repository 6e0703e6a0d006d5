package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jakechorley/volunteer-tracker/pkg/utils/table"
)

// UndoCmd creates the undo command
func UndoCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Undo the last change made in this session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Controller.CanUndo() {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to undo")
				return nil
			}

			history := app.Controller.History()
			last := history[len(history)-1]
			if !app.Controller.Undo() {
				return fmt.Errorf("undo of %q had no effect", last.Description)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Undid %s\n", last.Description)
			return nil
		},
	}
}

// RedoCmd creates the redo command
func RedoCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "redo",
		Short: "Redo the last undone change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Controller.CanRedo() {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to redo")
				return nil
			}

			applied := app.Controller.Redo()
			history := app.Controller.History()
			last := history[len(history)-1]
			if !applied {
				return fmt.Errorf("redo of %q had no effect", last.Description)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Redid %s\n", last.Description)
			return nil
		},
	}
}

// HistoryCmd creates the history command
func HistoryCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show the changes that can be undone, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			history := app.Controller.History()

			out := cmd.OutOrStdout()
			if len(history) == 0 {
				fmt.Fprintln(out, "No changes to undo")
				return nil
			}

			rows := make([][]string, len(history))
			for i, entry := range history {
				rows[i] = []string{
					strconv.Itoa(i + 1),
					entry.ExecutedAt.Format("15:04:05"),
					entry.Description,
					entry.ID,
				}
			}
			for _, line := range table.Render([]string{"#", "TIME", "CHANGE", "COMMAND ID"}, rows) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}
