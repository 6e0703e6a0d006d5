package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-tracker/internal/config"
	"github.com/jakechorley/volunteer-tracker/pkg/core/controller"
	"github.com/jakechorley/volunteer-tracker/pkg/core/model"
	"github.com/jakechorley/volunteer-tracker/pkg/db"
)

func newTestApp(t *testing.T) *AppContext {
	t.Helper()
	logger := zap.NewNop()
	return &AppContext{
		Cfg:        config.Default(),
		Controller: controller.New(db.NewMemoryVolunteerRepository(logger), db.NewMemoryEventRepository(logger), logger),
		Logger:     logger,
	}
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	err := cmd.Execute()
	return buf.String(), err
}

func seed(t *testing.T, app *AppContext) {
	t.Helper()
	_, err := run(t, AddVolunteerCmd(app), "1", "Alice", "a@x.com")
	require.NoError(t, err)
	_, err = run(t, AddVolunteerCmd(app), "2", "Bob", "b@x.com")
	require.NoError(t, err)
	_, err = run(t, AddEventCmd(app), "10", "Cleanup", "2024-01-10", "New York")
	require.NoError(t, err)
	_, err = run(t, AddEventCmd(app), "11", "Gala", "2024-01-15", "Boston")
	require.NoError(t, err)
	_, err = run(t, AddEventCmd(app), "12", "Parade", "2024-01-10", "New Orleans")
	require.NoError(t, err)
}

func TestVolunteerCommands(t *testing.T) {
	app := newTestApp(t)
	seed(t, app)

	out, err := run(t, UpdateVolunteerCmd(app), "1", "Alice Smith", "alice@x.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated volunteer 1")

	out, err = run(t, RemoveVolunteerCmd(app), "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed volunteer 2")

	out, err = run(t, ListVolunteersCmd(app))
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 volunteers")
	assert.Contains(t, out, "1   Alice Smith  alice@x.com")
	assert.NotContains(t, out, "Bob")
}

func TestCommands_InvalidInput(t *testing.T) {
	app := newTestApp(t)
	seed(t, app)

	tests := []struct {
		name          string
		cmd           *cobra.Command
		args          []string
		expectedError string
	}{
		{"non-numeric id", AddVolunteerCmd(app), []string{"x", "Carol", "c@x.com"}, "id must be a number"},
		{"duplicate volunteer", AddVolunteerCmd(app), []string{"1", "Carol", "c@x.com"}, "was not added"},
		{"remove unknown volunteer", RemoveVolunteerCmd(app), []string{"99"}, "was not removed"},
		{"update unknown volunteer", UpdateVolunteerCmd(app), []string{"99", "A", "B"}, "was not updated"},
		{"bad date", AddEventCmd(app), []string{"20", "Picnic", "10/01/2024", "Lake"}, "YYYY-MM-DD"},
		{"remove unknown event", RemoveEventCmd(app), []string{"99"}, "was not removed"},
		{"update unknown event", UpdateEventCmd(app), []string{"99", "T", "2024-01-01", "L"}, "was not updated"},
		{"assign unknown volunteer", AssignCmd(app), []string{"99", "10"}, "was not assigned"},
		{"assign bad event id", AssignCmd(app), []string{"1", "ten"}, "event_id must be a number"},
		{"unassign not assigned", UnassignCmd(app), []string{"1", "10"}, "was not removed from event"},
		{"wrong arg count", AddEventCmd(app), []string{"20", "Picnic"}, "accepts 4 arg(s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.cmd, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}

	assert.Len(t, app.Controller.History(), 5)
}

func TestListEventsCmd_Filters(t *testing.T) {
	app := newTestApp(t)
	seed(t, app)

	tests := []struct {
		name     string
		args     []string
		expected []string
		excluded []string
	}{
		{"all", nil, []string{"Cleanup", "Gala", "Parade"}, nil},
		{"by date", []string{"--date", "2024-01-10"}, []string{"Cleanup", "Parade"}, []string{"Gala"}},
		{"by location", []string{"--location", "BOSTON"}, []string{"Gala"}, []string{"Cleanup", "Parade"}},
		{"by date and location", []string{"--date", "2024-01-10", "--location", "orleans"}, []string{"Parade"}, []string{"Cleanup", "Gala"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, ListEventsCmd(app), tt.args...)
			require.NoError(t, err)
			for _, title := range tt.expected {
				assert.Contains(t, out, title)
			}
			for _, title := range tt.excluded {
				assert.NotContains(t, out, title)
			}
		})
	}

	out, err := run(t, ListEventsCmd(app), "--date", "2030-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 0 events")
}

func TestAssignmentCommands(t *testing.T) {
	app := newTestApp(t)
	seed(t, app)

	_, err := run(t, AssignCmd(app), "1", "10")
	require.NoError(t, err)
	_, err = run(t, AssignCmd(app), "2", "10")
	require.NoError(t, err)

	out, err := run(t, ListEventsCmd(app), "--date", "2024-01-10", "--location", "york")
	require.NoError(t, err)
	assert.Contains(t, out, "1,2")

	// updating an event keeps its assignments
	_, err = run(t, UpdateEventCmd(app), "10", "Big Cleanup", "2024-01-11", "New York")
	require.NoError(t, err)
	events := app.Controller.FilterEventsByDate("2024-01-11")
	require.Len(t, events, 1)
	assert.Equal(t, "Big Cleanup", events[0].Title)
	assert.ElementsMatch(t, []int{1, 2}, events[0].VolunteerIDs)

	out, err = run(t, UnassignCmd(app), "1", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed volunteer 1 from event 10")
}

func TestUndoRedoHistoryCommands(t *testing.T) {
	app := newTestApp(t)

	out, err := run(t, UndoCmd(app))
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to undo")

	out, err = run(t, HistoryCmd(app))
	require.NoError(t, err)
	assert.Contains(t, out, "No changes to undo")

	seed(t, app)

	out, err = run(t, HistoryCmd(app))
	require.NoError(t, err)
	assert.Contains(t, out, "add volunteer 1")
	assert.Contains(t, out, "add event 12")

	out, err = run(t, UndoCmd(app))
	require.NoError(t, err)
	assert.Contains(t, out, "Undid add event 12")
	assert.Len(t, app.Controller.GetAllEvents(), 2)

	out, err = run(t, RedoCmd(app))
	require.NoError(t, err)
	assert.Contains(t, out, "Redid add event 12")
	assert.Len(t, app.Controller.GetAllEvents(), 3)

	out, err = run(t, RedoCmd(app))
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to redo")
}

func TestAddEventSeriesCmd(t *testing.T) {
	app := newTestApp(t)
	app.Cfg.Recurrence.MaxOccurrences = 3

	out, err := run(t, AddEventSeriesCmd(app), "100", "Soup Kitchen", "2024-01-07", "Hall", "FREQ=WEEKLY")
	require.NoError(t, err)
	assert.Contains(t, out, "3 events added")

	events := app.Controller.GetAllEvents()
	require.Len(t, events, 3)
	assert.Equal(t, []string{"2024-01-07", "2024-01-14", "2024-01-21"},
		[]string{events[0].FormattedDate(), events[1].FormattedDate(), events[2].FormattedDate()})
	assert.Equal(t, []int{100, 101, 102}, []int{events[0].ID, events[1].ID, events[2].ID})

	// each occurrence is undone separately
	_, err = run(t, UndoCmd(app))
	require.NoError(t, err)
	assert.Len(t, app.Controller.GetAllEvents(), 2)
}

func TestAddEventSeriesCmd_Errors(t *testing.T) {
	app := newTestApp(t)
	require.True(t, app.Controller.AddEvent(mustEvent(t, 101, "Existing", "2024-01-01", "Hall")))

	_, err := run(t, AddEventSeriesCmd(app), "100", "Weekly", "2024-01-07", "Hall")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recurrence.defaultRule is not set")

	app.Cfg.Recurrence.DefaultRule = "FREQ=DAILY;COUNT=3"
	_, err = run(t, AddEventSeriesCmd(app), "100", "Daily", "2024-01-07", "Hall")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3 events added")

	_, err = run(t, AddEventSeriesCmd(app), "200", "Bad", "2024-01-07", "Hall", "FREQ=NEVER")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse rrule")
}

func TestCommands_PersistWithCSVBackend(t *testing.T) {
	dir := t.TempDir()
	logger := zap.NewNop()
	opts := db.Options{
		Backend:        db.BackendCSV,
		VolunteersFile: filepath.Join(dir, "volunteers.csv"),
		EventsFile:     filepath.Join(dir, "events.csv"),
	}

	open := func() *AppContext {
		repos, err := db.Open(opts, logger)
		require.NoError(t, err)
		return &AppContext{
			Cfg:          config.Default(),
			Repositories: repos,
			Controller:   controller.New(repos.Volunteers, repos.Events, logger),
			Logger:       logger,
		}
	}

	first := open()
	_, err := run(t, AddVolunteerCmd(first), "1", "Doe, Jane", "jane@x.com")
	require.NoError(t, err)

	second := open()
	out, err := run(t, ListVolunteersCmd(second))
	require.NoError(t, err)
	assert.Contains(t, out, "Doe, Jane")
}

func TestParseCommandLine(t *testing.T) {
	tests := []struct {
		name          string
		line          string
		expected      []string
		expectedError string
	}{
		{"plain", "removeVolunteer 3", []string{"removeVolunteer", "3"}, ""},
		{"double quotes", `addVolunteer 3 "Jane Doe" jane@x.com`, []string{"addVolunteer", "3", "Jane Doe", "jane@x.com"}, ""},
		{"single quotes", `addEvent 1 'Beach Cleanup' 2024-01-10 'New York'`, []string{"addEvent", "1", "Beach Cleanup", "2024-01-10", "New York"}, ""},
		{"empty quoted argument", `addVolunteer 4 Sam ""`, []string{"addVolunteer", "4", "Sam", ""}, ""},
		{"extra whitespace", "  undo   ", []string{"undo"}, ""},
		{"unclosed quote", `addVolunteer 3 "Jane`, nil, "unclosed quote"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := parseCommandLine(tt.line)
			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, args)
		})
	}
}

func TestInteractiveCmd_KeepsUndoHistoryAcrossCommands(t *testing.T) {
	app := newTestApp(t)

	root := &cobra.Command{Use: "cli"}
	root.AddCommand(AddVolunteerCmd(app), ListVolunteersCmd(app), ListEventsCmd(app), AddEventCmd(app),
		UndoCmd(app), RedoCmd(app), InteractiveCmd(app))

	script := strings.Join([]string{
		`addVolunteer 1 "Alice A" a@x.com`,
		`addVolunteer 2 Bob b@x.com`,
		`undo`,
		`addEvent 10 Cleanup 2024-01-10 Park`,
		`addEvent 11 Gala 2024-01-15 Hall`,
		`listEvents --date 2024-01-10`,
		`listEvents`,
		`bogus`,
		`addVolunteer 3`,
		`help`,
		`exit`,
		`addVolunteer 4 Never n@x.com`,
	}, "\n")

	var buf bytes.Buffer
	root.SetIn(strings.NewReader(script))
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"interactive"})
	require.NoError(t, root.Execute())

	out := buf.String()
	assert.Contains(t, out, "Undid add volunteer 2")
	assert.Contains(t, out, "Found 1 events")
	assert.Contains(t, out, "Found 2 events")
	assert.Contains(t, out, "Unknown command: bogus")
	assert.Contains(t, out, "accepts 3 arg(s)")
	assert.Contains(t, out, "Available commands")
	assert.Contains(t, out, "Goodbye")

	volunteers := app.Controller.GetAllVolunteers()
	require.Len(t, volunteers, 1)
	assert.Equal(t, "Alice A", volunteers[0].Name)
}

func mustEvent(t *testing.T, id int, title, day, location string) model.Event {
	t.Helper()
	date, err := model.ParseDate(day)
	require.NoError(t, err)
	return model.NewEvent(id, title, date, location)
}
