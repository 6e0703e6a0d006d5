package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(value string) time.Time {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return d
}

func formatted(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format("2006-01-02")
	}
	return out
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name     string
		rule     string
		start    string
		max      int
		expected []string
	}{
		{
			name:     "weekly with count",
			rule:     "FREQ=WEEKLY;COUNT=3",
			start:    "2024-01-10",
			max:      52,
			expected: []string{"2024-01-10", "2024-01-17", "2024-01-24"},
		},
		{
			name:     "open-ended rule is capped",
			rule:     "FREQ=DAILY;INTERVAL=2",
			start:    "2024-01-01",
			max:      4,
			expected: []string{"2024-01-01", "2024-01-03", "2024-01-05", "2024-01-07"},
		},
		{
			name:     "until is inclusive",
			rule:     "FREQ=MONTHLY;UNTIL=20240310T000000Z",
			start:    "2024-01-10",
			max:      52,
			expected: []string{"2024-01-10", "2024-02-10", "2024-03-10"},
		},
		{
			name:     "prefixed rule",
			rule:     "RRULE:FREQ=WEEKLY;BYDAY=SU;COUNT=2",
			start:    "2024-01-01",
			max:      52,
			expected: []string{"2024-01-07", "2024-01-14"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates, err := Expand(tt.rule, day(tt.start), tt.max)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, formatted(dates))
		})
	}
}

func TestExpand_Errors(t *testing.T) {
	tests := []struct {
		name          string
		rule          string
		max           int
		expectedError string
	}{
		{"invalid rule", "FREQ=SOMETIMES", 10, "failed to parse rrule"},
		{"empty rule", "  ", 10, "rrule is empty"},
		{"zero max", "FREQ=DAILY", 0, "max occurrences must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Expand(tt.rule, day("2024-01-01"), tt.max)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("FREQ=WEEKLY;BYDAY=MO,WE"))
	assert.Error(t, Validate("not a rule"))
}
