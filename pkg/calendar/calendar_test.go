package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotLabel(t *testing.T) {
	assert.Equal(t, "08:00-09:30", SlotLabel(1))
	assert.Equal(t, "13:15-14:45", SlotLabel(4))
	assert.Equal(t, "18:30-20:00", SlotLabel(7))
	assert.Equal(t, "slot 9", SlotLabel(9))
}

func TestWeekStartsAlignToMonday(t *testing.T) {
	// 2025-10-08 is a Wednesday.
	cal := New(map[string]time.Time{"WINTER": time.Date(2025, 10, 8, 0, 0, 0, 0, time.UTC)})

	weeks, err := cal.WeekStarts("WINTER")
	require.NoError(t, err)
	require.Len(t, weeks, WeeksPerSemester)
	assert.Equal(t, time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC), weeks[0])
	assert.Equal(t, time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC), weeks[1])
	for _, w := range weeks {
		assert.Equal(t, time.Monday, w.Weekday())
	}
}

func TestSession(t *testing.T) {
	cal := New(map[string]time.Time{"SUMMER": time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)})

	start, end, err := cal.Session("SUMMER", 2, 4, 3)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 6, 11, 30, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 6, 13, 0, 0, 0, time.UTC), end)
}

func TestCalendarErrors(t *testing.T) {
	cal := New(map[string]time.Time{"WINTER": {}})

	_, err := cal.WeekStarts("WINTER")
	assert.Error(t, err)

	cal = New(map[string]time.Time{"WINTER": time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)})
	_, err = cal.Date("WINTER", 16, 0)
	assert.Error(t, err)
	_, err = cal.Date("WINTER", 1, 5)
	assert.Error(t, err)
	_, _, err = cal.Session("WINTER", 1, 0, 8)
	assert.Error(t, err)
}
