package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-tracker/pkg/core/model"
	"github.com/jakechorley/volunteer-tracker/pkg/core/recurrence"
)

// AddEventSeriesCmd creates the addEventSeries command
func AddEventSeriesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "addEventSeries <first_id> <title> <start_date> <location> [rrule]",
		Short: "Add one event per occurrence of a recurrence rule, with consecutive ids",
		Long: `Add one event per occurrence of an RFC 5545 recurrence rule (for example FREQ=WEEKLY;COUNT=4).
Events get consecutive ids starting at first_id. Each event is a separate change for undo.
When rrule is omitted, recurrence.defaultRule from the config is used.`,
		Args: cobra.RangeArgs(4, 5),
		RunE: func(cmd *cobra.Command, args []string) error {
			firstID, err := parseID("first_id", args[0])
			if err != nil {
				return err
			}
			start, err := parseDate(args[2])
			if err != nil {
				return err
			}

			rule := app.Cfg.Recurrence.DefaultRule
			if len(args) > 4 {
				rule = args[4]
			}
			if rule == "" {
				return fmt.Errorf("no rrule given and recurrence.defaultRule is not set")
			}

			dates, err := recurrence.Expand(rule, start, app.Cfg.Recurrence.MaxOccurrences)
			if err != nil {
				return err
			}

			app.Logger.Debug("Expanded event series",
				zap.String("rrule", rule),
				zap.Int("occurrences", len(dates)))

			out := cmd.OutOrStdout()
			for i, date := range dates {
				e := model.NewEvent(firstID+i, args[1], date, args[3])
				if !app.Controller.AddEvent(e) {
					return fmt.Errorf("event %d was not added (it may already exist); %d of %d events added", e.ID, i, len(dates))
				}
				fmt.Fprintf(out, "✓ Added event %d (%s on %s)\n", e.ID, e.Title, e.FormattedDate())
			}

			fmt.Fprintf(out, "\n%d events added\n", len(dates))
			return nil
		},
	}
}
