package db

import (
	"fmt"
	"slices"

	"github.com/jakechorley/volunteer-tracker/pkg/core/model"
)

// VolunteerRow is the persisted shape of a volunteer
type VolunteerRow struct {
	ID          int    `json:"id" row_header:"id" row_type:"int"`
	Name        string `json:"name" row_header:"name" row_type:"text"`
	ContactInfo string `json:"contactInfo" row_header:"contact_info" row_type:"text"`
}

// EventRow is the persisted shape of an event
type EventRow struct {
	ID           int    `json:"id" row_header:"id" row_type:"int"`
	Title        string `json:"title" row_header:"title" row_type:"text"`
	Date         string `json:"date" row_header:"date" row_type:"date"`
	Location     string `json:"location" row_header:"location" row_type:"text"`
	VolunteerIDs []int  `json:"volunteerIds" row_header:"volunteer_ids" row_type:"intlist"`
}

// VolunteerToRow converts a volunteer to its persisted shape
func VolunteerToRow(v model.Volunteer) VolunteerRow {
	return VolunteerRow{
		ID:          v.ID,
		Name:        v.Name,
		ContactInfo: v.ContactInfo,
	}
}

// VolunteerFromRow converts a persisted volunteer back to the domain type
func VolunteerFromRow(row VolunteerRow) (model.Volunteer, error) {
	return model.Volunteer{
		ID:          row.ID,
		Name:        row.Name,
		ContactInfo: row.ContactInfo,
	}, nil
}

// EventToRow converts an event to its persisted shape
func EventToRow(e model.Event) EventRow {
	ids := slices.Clone(e.VolunteerIDs)
	if ids == nil {
		ids = []int{}
	}
	return EventRow{
		ID:           e.ID,
		Title:        e.Title,
		Date:         e.FormattedDate(),
		Location:     e.Location,
		VolunteerIDs: ids,
	}
}

// EventFromRow converts a persisted event back to the domain type.
// Duplicate volunteer ids collapse to one entry.
func EventFromRow(row EventRow) (model.Event, error) {
	date, err := model.ParseDate(row.Date)
	if err != nil {
		return model.Event{}, fmt.Errorf("invalid date %q: %w", row.Date, err)
	}

	event := model.NewEvent(row.ID, row.Title, date, row.Location)
	for _, id := range row.VolunteerIDs {
		event.AddVolunteer(id)
	}
	return event, nil
}
