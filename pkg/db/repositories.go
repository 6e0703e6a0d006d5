package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-tracker/pkg/core/model"
	"github.com/jakechorley/volunteer-tracker/pkg/postgres"
)

// Record kinds, used in log fields
const (
	KindVolunteer = "volunteer"
	KindEvent     = "event"
)

// Storage backends
const (
	BackendCSV      = "csv"
	BackendJSON     = "json"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// NewCSVVolunteerRepository loads volunteers from a CSV file with lines `id,name,contactInfo`
func NewCSVVolunteerRepository(path string, logger *zap.Logger) *Collection[model.Volunteer] {
	store := newCSVStore(path, VolunteerToRow, VolunteerFromRow, logger)
	return NewCollection[model.Volunteer](KindVolunteer, store, logger)
}

// NewCSVEventRepository loads events from a CSV file with lines
// `id,title,date,location,volunteerId1,volunteerId2,...`
func NewCSVEventRepository(path string, logger *zap.Logger) *Collection[model.Event] {
	store := newCSVStore(path, EventToRow, EventFromRow, logger)
	return NewCollection[model.Event](KindEvent, store, logger)
}

// NewJSONVolunteerRepository loads volunteers from a JSON array file
func NewJSONVolunteerRepository(path string, logger *zap.Logger) *Collection[model.Volunteer] {
	store := newJSONStore(path, VolunteerToRow, VolunteerFromRow, logger)
	return NewCollection[model.Volunteer](KindVolunteer, store, logger)
}

// NewJSONEventRepository loads events from a JSON array file
func NewJSONEventRepository(path string, logger *zap.Logger) *Collection[model.Event] {
	store := newJSONStore(path, EventToRow, EventFromRow, logger)
	return NewCollection[model.Event](KindEvent, store, logger)
}

// NewSQLiteVolunteerRepository loads volunteers from the volunteers bucket of db
func NewSQLiteVolunteerRepository(db *SQLiteDB, logger *zap.Logger) *Collection[model.Volunteer] {
	store := newSQLiteStore(db, VolunteersBucket, VolunteerToRow, VolunteerFromRow, logger)
	return NewCollection[model.Volunteer](KindVolunteer, store, logger)
}

// NewSQLiteEventRepository loads events from the events bucket of db
func NewSQLiteEventRepository(db *SQLiteDB, logger *zap.Logger) *Collection[model.Event] {
	store := newSQLiteStore(db, EventsBucket, EventToRow, EventFromRow, logger)
	return NewCollection[model.Event](KindEvent, store, logger)
}

// NewPostgresVolunteerRepository loads volunteers from the volunteer table of pg
func NewPostgresVolunteerRepository(pg *postgres.DB, logger *zap.Logger) *Collection[model.Volunteer] {
	return NewCollection[model.Volunteer](KindVolunteer, pg.Volunteers(), logger)
}

// NewPostgresEventRepository loads events from the event tables of pg
func NewPostgresEventRepository(pg *postgres.DB, logger *zap.Logger) *Collection[model.Event] {
	return NewCollection[model.Event](KindEvent, pg.Events(), logger)
}

// NewMemoryVolunteerRepository creates a non-persistent volunteer repository
func NewMemoryVolunteerRepository(logger *zap.Logger, seed ...model.Volunteer) *Collection[model.Volunteer] {
	return NewCollection[model.Volunteer](KindVolunteer, newMemoryStore(seed), logger)
}

// NewMemoryEventRepository creates a non-persistent event repository
func NewMemoryEventRepository(logger *zap.Logger, seed ...model.Event) *Collection[model.Event] {
	return NewCollection[model.Event](KindEvent, newMemoryStore(seed), logger)
}

// Options selects and locates the storage backend
type Options struct {
	Backend        string
	VolunteersFile string
	EventsFile     string
	SQLitePath     string
	PostgresURL    string
}

// Repositories holds the pair of repositories opened for one backend
type Repositories struct {
	Volunteers Repository[model.Volunteer]
	Events     Repository[model.Event]
	sqlite     *SQLiteDB
	postgres   *postgres.DB
}

// Close releases any resources held by the backend
func (r *Repositories) Close() error {
	if r.postgres != nil {
		r.postgres.Close()
	}
	if r.sqlite != nil {
		return r.sqlite.Close()
	}
	return nil
}

// Open creates the volunteer and event repositories for the configured backend
func Open(opts Options, logger *zap.Logger) (*Repositories, error) {
	logger.Debug("Opening repositories", zap.String("backend", opts.Backend))

	switch opts.Backend {
	case BackendCSV:
		return &Repositories{
			Volunteers: NewCSVVolunteerRepository(opts.VolunteersFile, logger),
			Events:     NewCSVEventRepository(opts.EventsFile, logger),
		}, nil

	case BackendJSON:
		return &Repositories{
			Volunteers: NewJSONVolunteerRepository(opts.VolunteersFile, logger),
			Events:     NewJSONEventRepository(opts.EventsFile, logger),
		}, nil

	case BackendSQLite:
		sqliteDB, err := OpenSQLite(opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Repositories{
			Volunteers: NewSQLiteVolunteerRepository(sqliteDB, logger),
			Events:     NewSQLiteEventRepository(sqliteDB, logger),
			sqlite:     sqliteDB,
		}, nil

	case BackendPostgres:
		ctx := context.Background()
		pg, err := postgres.NewDB(ctx, opts.PostgresURL, logger)
		if err != nil {
			return nil, err
		}
		if err := pg.RunMigrations(ctx); err != nil {
			pg.Close()
			return nil, fmt.Errorf("failed to migrate postgres: %w", err)
		}
		return &Repositories{
			Volunteers: NewPostgresVolunteerRepository(pg, logger),
			Events:     NewPostgresEventRepository(pg, logger),
			postgres:   pg,
		}, nil

	case BackendMemory:
		return &Repositories{
			Volunteers: NewMemoryVolunteerRepository(logger),
			Events:     NewMemoryEventRepository(logger),
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
