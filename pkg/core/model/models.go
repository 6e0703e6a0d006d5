package model

import (
	"slices"
	"time"
)

// DateLayout is the calendar date format used for events everywhere (ISO 8601)
const DateLayout = "2006-01-02"

// Volunteer represents a person who can be assigned to events
type Volunteer struct {
	ID          int
	Name        string
	ContactInfo string
}

// RecordID returns the volunteer identifier
func (v Volunteer) RecordID() int {
	return v.ID
}

// Clone returns an independent copy of the volunteer
func (v Volunteer) Clone() Volunteer {
	return v
}

// Event represents a dated event with a set of assigned volunteers
type Event struct {
	ID           int
	Title        string
	Date         time.Time
	Location     string
	VolunteerIDs []int // set semantics, order irrelevant
}

// NewEvent creates an event with no assigned volunteers
func NewEvent(id int, title string, date time.Time, location string) Event {
	return Event{
		ID:       id,
		Title:    title,
		Date:     date,
		Location: location,
	}
}

// RecordID returns the event identifier
func (e Event) RecordID() int {
	return e.ID
}

// Clone returns a deep copy of the event so the volunteer set is not shared.
// Duplicate volunteer ids collapse to their first occurrence.
func (e Event) Clone() Event {
	clone := e
	if e.VolunteerIDs != nil {
		clone.VolunteerIDs = make([]int, 0, len(e.VolunteerIDs))
		for _, id := range e.VolunteerIDs {
			clone.AddVolunteer(id)
		}
	}
	return clone
}

// FormattedDate returns the event date in DateLayout
func (e Event) FormattedDate() string {
	return e.Date.Format(DateLayout)
}

// HasVolunteer reports whether the volunteer is assigned to the event
func (e Event) HasVolunteer(volunteerID int) bool {
	return slices.Contains(e.VolunteerIDs, volunteerID)
}

// AddVolunteer assigns a volunteer to the event.
// Returns false if the volunteer was already assigned.
func (e *Event) AddVolunteer(volunteerID int) bool {
	if e.HasVolunteer(volunteerID) {
		return false
	}
	e.VolunteerIDs = append(e.VolunteerIDs, volunteerID)
	return true
}

// RemoveVolunteer unassigns a volunteer from the event.
// Returns false if the volunteer was not assigned.
func (e *Event) RemoveVolunteer(volunteerID int) bool {
	idx := slices.Index(e.VolunteerIDs, volunteerID)
	if idx < 0 {
		return false
	}
	e.VolunteerIDs = slices.Delete(e.VolunteerIDs, idx, idx+1)
	return true
}

// ParseDate parses a calendar date in DateLayout
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}
