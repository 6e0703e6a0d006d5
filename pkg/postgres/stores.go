package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/volunteer-tracker/pkg/core/model"
)

// VolunteerStore keeps the volunteer collection in the volunteer table.
// Every Save rewrites the whole table in one transaction.
type VolunteerStore struct {
	db *DB
}

// EventStore keeps the event collection in the event and event_volunteer tables.
// Every Save rewrites both tables in one transaction.
type EventStore struct {
	db *DB
}

// Volunteers returns the store for volunteers
func (db *DB) Volunteers() *VolunteerStore {
	return &VolunteerStore{db: db}
}

// Events returns the store for events
func (db *DB) Events() *EventStore {
	return &EventStore{db: db}
}

func (s *VolunteerStore) Location() string {
	return "postgres:volunteer"
}

// Load retrieves all volunteers in insertion order
func (s *VolunteerStore) Load() ([]model.Volunteer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := s.db.pool.Query(ctx, `
		SELECT id, name, contact_info
		FROM volunteer
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query volunteers: %w", err)
	}
	defer rows.Close()

	var volunteers []model.Volunteer
	for rows.Next() {
		var v model.Volunteer
		if err := rows.Scan(&v.ID, &v.Name, &v.ContactInfo); err != nil {
			return nil, fmt.Errorf("failed to scan volunteer: %w", err)
		}
		volunteers = append(volunteers, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating volunteers: %w", err)
	}

	return volunteers, nil
}

// Save replaces every volunteer row with volunteers
func (s *VolunteerStore) Save(volunteers []model.Volunteer) error {
	rows := make([][]any, len(volunteers))
	for i, v := range volunteers {
		rows[i] = []any{v.ID, v.Name, v.ContactInfo, i}
	}

	return s.db.replace(func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM volunteer`); err != nil {
			return fmt.Errorf("failed to clear volunteers: %w", err)
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"volunteer"},
			[]string{"id", "name", "contact_info", "position"}, pgx.CopyFromRows(rows)); err != nil {
			return fmt.Errorf("failed to insert volunteers: %w", err)
		}
		return nil
	})
}

func (s *EventStore) Location() string {
	return "postgres:event"
}

// Load retrieves all events in insertion order, with their volunteer assignments
func (s *EventStore) Load() ([]model.Event, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := s.db.pool.Query(ctx, `
		SELECT id, title, event_date, location
		FROM event
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}

	var events []model.Event
	index := make(map[int]int)
	for rows.Next() {
		var id int
		var title, location string
		var date time.Time
		if err := rows.Scan(&id, &title, &date, &location); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		index[id] = len(events)
		events = append(events, model.NewEvent(id, title, date.UTC(), location))
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	assignments, err := s.db.pool.Query(ctx, `
		SELECT event_id, volunteer_id
		FROM event_volunteer
		ORDER BY event_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query event volunteers: %w", err)
	}
	defer assignments.Close()

	for assignments.Next() {
		var eventID, volunteerID int
		if err := assignments.Scan(&eventID, &volunteerID); err != nil {
			return nil, fmt.Errorf("failed to scan event volunteer: %w", err)
		}
		if i, ok := index[eventID]; ok {
			events[i].AddVolunteer(volunteerID)
		}
	}

	if err := assignments.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event volunteers: %w", err)
	}

	return events, nil
}

// Save replaces every event and assignment row with events
func (s *EventStore) Save(events []model.Event) error {
	eventRows := make([][]any, len(events))
	var assignmentRows [][]any
	for i, e := range events {
		eventRows[i] = []any{e.ID, e.Title, e.Date, e.Location, i}
		for j, volunteerID := range e.VolunteerIDs {
			assignmentRows = append(assignmentRows, []any{e.ID, volunteerID, j})
		}
	}

	return s.db.replace(func(ctx context.Context, tx pgx.Tx) error {
		// event_volunteer rows go with their events (ON DELETE CASCADE)
		if _, err := tx.Exec(ctx, `DELETE FROM event`); err != nil {
			return fmt.Errorf("failed to clear events: %w", err)
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"event"},
			[]string{"id", "title", "event_date", "location", "position"}, pgx.CopyFromRows(eventRows)); err != nil {
			return fmt.Errorf("failed to insert events: %w", err)
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"event_volunteer"},
			[]string{"event_id", "volunteer_id", "position"}, pgx.CopyFromRows(assignmentRows)); err != nil {
			return fmt.Errorf("failed to insert event volunteers: %w", err)
		}
		return nil
	})
}

// replace runs fn in a transaction, committing only if it succeeds
func (db *DB) replace(fn func(ctx context.Context, tx pgx.Tx) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
