package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AssignCmd creates the assign command
func AssignCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <volunteer_id> <event_id>",
		Short: "Assign a volunteer to an event (cannot be undone)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			volunteerID, eventID, err := parseAssociationArgs(args)
			if err != nil {
				return err
			}

			if !app.Controller.AddVolunteerToEvent(volunteerID, eventID) {
				return fmt.Errorf("volunteer %d was not assigned to event %d (unknown id or already assigned)", volunteerID, eventID)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Assigned volunteer %d to event %d\n", volunteerID, eventID)
			return nil
		},
	}
}

// UnassignCmd creates the unassign command
func UnassignCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <volunteer_id> <event_id>",
		Short: "Remove a volunteer from an event (cannot be undone)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			volunteerID, eventID, err := parseAssociationArgs(args)
			if err != nil {
				return err
			}

			if !app.Controller.RemoveVolunteerFromEvent(volunteerID, eventID) {
				return fmt.Errorf("volunteer %d was not removed from event %d (unknown id or not assigned)", volunteerID, eventID)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed volunteer %d from event %d\n", volunteerID, eventID)
			return nil
		},
	}
}

func parseAssociationArgs(args []string) (int, int, error) {
	volunteerID, err := parseID("volunteer_id", args[0])
	if err != nil {
		return 0, 0, err
	}
	eventID, err := parseID("event_id", args[1])
	if err != nil {
		return 0, 0, err
	}
	return volunteerID, eventID, nil
}
