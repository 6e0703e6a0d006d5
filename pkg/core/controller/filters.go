package controller

import (
	"strings"

	"github.com/jakechorley/volunteer-tracker/pkg/core/model"
)

// FilterEventsByDate returns the events whose formatted date (YYYY-MM-DD) equals
// dateText, in repository order. An empty dateText matches every event.
func (c *Controller) FilterEventsByDate(dateText string) []model.Event {
	return filterEvents(c.GetAllEvents(), dateText == "", func(e model.Event) bool {
		return e.FormattedDate() == dateText
	})
}

// FilterEventsByLocation returns the events whose location contains text,
// ignoring case. An empty text matches every event.
func (c *Controller) FilterEventsByLocation(text string) []model.Event {
	needle := strings.ToLower(text)
	return filterEvents(c.GetAllEvents(), text == "", func(e model.Event) bool {
		return strings.Contains(strings.ToLower(e.Location), needle)
	})
}

func filterEvents(events []model.Event, matchAll bool, match func(model.Event) bool) []model.Event {
	if matchAll {
		return events
	}

	filtered := []model.Event{}
	for _, e := range events {
		if match(e) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
