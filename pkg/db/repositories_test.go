package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-tracker/pkg/core/model"
)

func TestOpen_Backends(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		opts Options
	}{
		{"csv", Options{Backend: BackendCSV, VolunteersFile: filepath.Join(dir, "v.csv"), EventsFile: filepath.Join(dir, "e.csv")}},
		{"json", Options{Backend: BackendJSON, VolunteersFile: filepath.Join(dir, "v.json"), EventsFile: filepath.Join(dir, "e.json")}},
		{"sqlite", Options{Backend: BackendSQLite, SQLitePath: filepath.Join(dir, "tracker.db")}},
		{"memory", Options{Backend: BackendMemory}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repos, err := Open(tt.opts, zap.NewNop())
			require.NoError(t, err)
			defer repos.Close()

			assert.True(t, repos.Volunteers.Add(model.Volunteer{ID: 1, Name: "Alice"}))
			assert.True(t, repos.Events.Add(testEvent(1, "Cleanup", "2024-01-10", "Park")))
			assert.Len(t, repos.Volunteers.GetAll(), 1)
			assert.Len(t, repos.Events.GetAll(), 1)
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(Options{Backend: "xml"}, zap.NewNop())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage backend")
}

func TestMemoryRepository_Seed(t *testing.T) {
	seed := testEvent(1, "Cleanup", "2024-01-10", "Park", 3)
	repo := NewMemoryEventRepository(zap.NewNop(), seed)

	seed.AddVolunteer(4)

	all := repo.GetAll()
	require.Len(t, all, 1)
	assert.Equal(t, []int{3}, all[0].VolunteerIDs, "seed is copied, not shared")
}

func TestOpen_PostgresRequiresURL(t *testing.T) {
	_, err := Open(Options{Backend: BackendPostgres}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres connection string is required")
}
