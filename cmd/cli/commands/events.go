package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jakechorley/volunteer-tracker/pkg/core/model"
	"github.com/jakechorley/volunteer-tracker/pkg/utils/table"
)

// AddEventCmd creates the addEvent command
func AddEventCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "addEvent <id> <title> <date> <location>",
		Short: "Add an event on a date (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := eventFromArgs(args)
			if err != nil {
				return err
			}

			if !app.Controller.AddEvent(e) {
				return fmt.Errorf("event %d was not added (it may already exist)", e.ID)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added event %d (%s on %s)\n", e.ID, e.Title, e.FormattedDate())
			return nil
		},
	}
}

// RemoveEventCmd creates the removeEvent command
func RemoveEventCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "removeEvent <id>",
		Short: "Remove an event and its volunteer assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}

			if !app.Controller.RemoveEvent(id) {
				return fmt.Errorf("event %d was not removed (not found)", id)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed event %d\n", id)
			return nil
		},
	}
}

// UpdateEventCmd creates the updateEvent command.
// Volunteer assignments are kept.
func UpdateEventCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "updateEvent <id> <title> <date> <location>",
		Short: "Replace an event's title, date and location",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := eventFromArgs(args)
			if err != nil {
				return err
			}

			for _, existing := range app.Controller.GetAllEvents() {
				if existing.ID == e.ID {
					e.VolunteerIDs = existing.VolunteerIDs
					break
				}
			}

			if !app.Controller.UpdateEvent(e.ID, e) {
				return fmt.Errorf("event %d was not updated (not found)", e.ID)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated event %d\n", e.ID)
			return nil
		},
	}
}

// ListEventsCmd creates the listEvents command
func ListEventsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listEvents",
		Short: "List events, optionally filtered by date and location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _ := cmd.Flags().GetString("date")
			location, _ := cmd.Flags().GetString("location")

			events := app.Controller.FilterEventsByDate(date)
			if location != "" {
				matching := make(map[int]bool)
				for _, e := range app.Controller.FilterEventsByLocation(location) {
					matching[e.ID] = true
				}

				filtered := []model.Event{}
				for _, e := range events {
					if matching[e.ID] {
						filtered = append(filtered, e)
					}
				}
				events = filtered
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nFound %d events:\n\n", len(events))
			if len(events) == 0 {
				return nil
			}

			rows := make([][]string, len(events))
			for i, e := range events {
				rows[i] = []string{strconv.Itoa(e.ID), e.FormattedDate(), e.Title, e.Location, formatIDs(e.VolunteerIDs)}
			}
			for _, line := range table.Render([]string{"ID", "DATE", "TITLE", "LOCATION", "VOLUNTEERS"}, rows) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().String("date", "", "Only events on this date (YYYY-MM-DD)")
	cmd.Flags().String("location", "", "Only events whose location contains this text (case-insensitive)")

	return cmd
}

func eventFromArgs(args []string) (model.Event, error) {
	id, err := parseID("id", args[0])
	if err != nil {
		return model.Event{}, err
	}
	date, err := parseDate(args[2])
	if err != nil {
		return model.Event{}, err
	}
	return model.NewEvent(id, args[1], date, args[3]), nil
}
