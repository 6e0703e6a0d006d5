package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jakechorley/volunteer-tracker/pkg/core/model"
	"github.com/jakechorley/volunteer-tracker/pkg/utils/table"
)

// AddVolunteerCmd creates the addVolunteer command
func AddVolunteerCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "addVolunteer <id> <name> <contact>",
		Short: "Add a volunteer",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}

			v := model.Volunteer{ID: id, Name: args[1], ContactInfo: args[2]}
			if !app.Controller.AddVolunteer(v) {
				return fmt.Errorf("volunteer %d was not added (it may already exist)", id)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added volunteer %d (%s)\n", v.ID, v.Name)
			return nil
		},
	}
}

// RemoveVolunteerCmd creates the removeVolunteer command
func RemoveVolunteerCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "removeVolunteer <id>",
		Short: "Remove a volunteer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}

			if !app.Controller.RemoveVolunteer(id) {
				return fmt.Errorf("volunteer %d was not removed (not found)", id)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed volunteer %d\n", id)
			return nil
		},
	}
}

// UpdateVolunteerCmd creates the updateVolunteer command
func UpdateVolunteerCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "updateVolunteer <id> <name> <contact>",
		Short: "Replace a volunteer's name and contact details",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}

			v := model.Volunteer{ID: id, Name: args[1], ContactInfo: args[2]}
			if !app.Controller.UpdateVolunteer(id, v) {
				return fmt.Errorf("volunteer %d was not updated (not found)", id)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated volunteer %d\n", id)
			return nil
		},
	}
}

// ListVolunteersCmd creates the listVolunteers command
func ListVolunteersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listVolunteers",
		Short: "List all volunteers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			volunteers := app.Controller.GetAllVolunteers()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nFound %d volunteers:\n\n", len(volunteers))
			if len(volunteers) == 0 {
				return nil
			}

			rows := make([][]string, len(volunteers))
			for i, v := range volunteers {
				rows[i] = []string{strconv.Itoa(v.ID), v.Name, v.ContactInfo}
			}
			for _, line := range table.Render([]string{"ID", "NAME", "CONTACT"}, rows) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}
