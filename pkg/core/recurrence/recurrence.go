package recurrence

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// Validate checks that rule is a parseable RRULE
func Validate(rule string) error {
	if _, err := parse(rule); err != nil {
		return err
	}
	return nil
}

// Expand returns the occurrences of rule starting at dtstart, at most max of them.
// The rule may carry its own COUNT or UNTIL; max caps open-ended rules.
func Expand(rule string, dtstart time.Time, max int) ([]time.Time, error) {
	if max < 1 {
		return nil, fmt.Errorf("max occurrences must be at least 1, got %d", max)
	}

	r, err := parse(rule)
	if err != nil {
		return nil, err
	}
	r.DTStart(dtstart)

	next := r.Iterator()
	occurrences := make([]time.Time, 0, max)
	for len(occurrences) < max {
		occurrence, ok := next()
		if !ok {
			break
		}
		occurrences = append(occurrences, occurrence)
	}
	return occurrences, nil
}

func parse(rule string) (*rrule.RRule, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(rule), "RRULE:")
	if trimmed == "" {
		return nil, fmt.Errorf("rrule is empty")
	}

	r, err := rrule.StrToRRule(trimmed)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rrule %q: %w", rule, err)
	}
	return r, nil
}
