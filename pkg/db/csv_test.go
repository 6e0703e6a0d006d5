package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-tracker/pkg/core/model"
)

func TestCSVVolunteerRepository_FileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "volunteers.csv")
	repo := NewCSVVolunteerRepository(path, zap.NewNop())

	require.True(t, repo.Add(model.Volunteer{ID: 1, Name: "John Doe", ContactInfo: "john@example.com"}))
	require.True(t, repo.Add(model.Volunteer{ID: 2, Name: "Jane Smith", ContactInfo: "555-1234"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1,John Doe,john@example.com\n2,Jane Smith,555-1234\n", string(data))
}

func TestCSVEventRepository_FileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.csv")
	repo := NewCSVEventRepository(path, zap.NewNop())

	require.True(t, repo.Add(testEvent(1, "Cleanup", "2024-06-15", "Central Park", 3, 5)))
	require.True(t, repo.Add(testEvent(2, "Fair", "2024-07-01", "Hall")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1,Cleanup,2024-06-15,Central Park,3,5\n2,Fair,2024-07-01,Hall\n", string(data))
}

func TestCSVRepository_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	volunteersPath := filepath.Join(dir, "volunteers.csv")
	eventsPath := filepath.Join(dir, "events.csv")

	volunteers := []model.Volunteer{
		{ID: 1, Name: "Alice", ContactInfo: "a@x.com"},
		{ID: 2, Name: "Bob, Jr.", ContactInfo: "b@x.com"},
		{ID: 3, Name: "", ContactInfo: ""},
	}
	events := []model.Event{
		testEvent(10, "Cleanup", "2024-01-10", "Park", 1, 2),
		testEvent(11, "Gala", "2024-01-15", "Town Hall, Room 2"),
	}

	vRepo := NewCSVVolunteerRepository(volunteersPath, zap.NewNop())
	for _, v := range volunteers {
		require.True(t, vRepo.Add(v))
	}
	eRepo := NewCSVEventRepository(eventsPath, zap.NewNop())
	for _, e := range events {
		require.True(t, eRepo.Add(e))
	}

	reopenedVolunteers := NewCSVVolunteerRepository(volunteersPath, zap.NewNop())
	assert.Equal(t, volunteers, reopenedVolunteers.GetAll())

	reopenedEvents := NewCSVEventRepository(eventsPath, zap.NewNop())
	assert.Equal(t, events, reopenedEvents.GetAll())
}

func TestCSVVolunteerRepository_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "volunteers.csv")
	content := "1,Alice,a@x.com\n" +
		"2,Bob\n" +
		"not-a-number,Carol,c@x.com\n" +
		"\n" +
		"4,Dave,d@x.com\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	repo := NewCSVVolunteerRepository(path, zap.NewNop())

	all := repo.GetAll()
	require.Len(t, all, 2)
	assert.Equal(t, 1, all[0].ID)
	assert.Equal(t, 4, all[1].ID)
}

func TestCSVEventRepository_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.csv")
	content := "1,Cleanup,2024-01-10,Park,1,x,2\n" +
		"2,Fair,not-a-date,Hall\n" +
		"3,Short\n" +
		"4,Gala,2024-02-01,Town Hall\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	repo := NewCSVEventRepository(path, zap.NewNop())

	all := repo.GetAll()
	require.Len(t, all, 2)
	assert.Equal(t, 1, all[0].ID)
	assert.Equal(t, []int{1, 2}, all[0].VolunteerIDs, "invalid volunteer ids are dropped, the record is kept")
	assert.Equal(t, 4, all[1].ID)
	assert.Empty(t, all[1].VolunteerIDs)
}

func TestCSVRepository_MissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "volunteers.csv")
	repo := NewCSVVolunteerRepository(path, zap.NewNop())
	assert.Empty(t, repo.GetAll())

	require.True(t, repo.Add(model.Volunteer{ID: 1, Name: "Alice"}))
	_, err := os.Stat(path)
	assert.NoError(t, err, "first save creates the file and its directory")
}

func TestCSVRepository_NoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "volunteers.csv")
	repo := NewCSVVolunteerRepository(path, zap.NewNop())

	repo.Add(model.Volunteer{ID: 1, Name: "Alice"})
	repo.Update(model.Volunteer{ID: 1, Name: "Alicia"})
	repo.Remove(1)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "volunteers.csv", entries[0].Name())
}

func TestCSVEventRepository_DuplicateVolunteersMatchReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.csv")
	repo := NewCSVEventRepository(path, zap.NewNop())

	event := testEvent(1, "Cleanup", "2024-06-15", "Park")
	event.VolunteerIDs = []int{2, 2, 3}
	require.True(t, repo.Add(event))

	event.VolunteerIDs = []int{4, 3, 4}
	require.True(t, repo.Update(event))

	inMemory := repo.GetAll()
	reloaded := NewCSVEventRepository(path, zap.NewNop()).GetAll()
	assert.Equal(t, []int{4, 3}, inMemory[0].VolunteerIDs)
	assert.Equal(t, inMemory, reloaded)
}

func TestCSVEventRepository_UnquotedLinesWithQuotes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.csv")
	content := "1,\"Quiz\" night,2024-01-10,Pub,3,4\n" +
		"2,Bob's \"party\",2024-01-11,Home\n" +
		"3,\"Open mic,2024-01-12,Cafe\n" +
		"4,Gala,2024-01-13,Town Hall\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	repo := NewCSVEventRepository(path, zap.NewNop())
	want := []model.Event{
		testEvent(1, `"Quiz" night`, "2024-01-10", "Pub", 3, 4),
		testEvent(2, `Bob's "party"`, "2024-01-11", "Home"),
		testEvent(3, `"Open mic`, "2024-01-12", "Cafe"),
		testEvent(4, "Gala", "2024-01-13", "Town Hall"),
	}
	assert.Equal(t, want, repo.GetAll())

	// the next save quotes the fields, and they read back unchanged
	require.True(t, repo.Remove(4))
	assert.Equal(t, want[:3], NewCSVEventRepository(path, zap.NewNop()).GetAll())
}

func TestCSVVolunteerRepository_QuotedFieldsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "volunteers.csv")
	repo := NewCSVVolunteerRepository(path, zap.NewNop())

	volunteers := []model.Volunteer{
		{ID: 1, Name: `"Doc" Brown`, ContactInfo: "doc@x.com"},
		{ID: 2, Name: "Line\nBreak", ContactInfo: "a, b"},
		{ID: 3, Name: "Carol", ContactInfo: "c@x.com"},
	}
	for _, v := range volunteers {
		require.True(t, repo.Add(v))
	}

	assert.Equal(t, volunteers, NewCSVVolunteerRepository(path, zap.NewNop()).GetAll())
}
