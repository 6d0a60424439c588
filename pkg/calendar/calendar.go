package calendar

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// WeeksPerSemester is the number of teaching weeks anchored by a semester start.
const WeeksPerSemester = 15

type slotWindow struct {
	startHour, startMinute int
}

// Each slot lasts 90 minutes.
const slotLength = 90 * time.Minute

var slotWindows = map[int]slotWindow{
	1: {8, 0},
	2: {9, 45},
	3: {11, 30},
	4: {13, 15},
	5: {15, 0},
	6: {16, 45},
	7: {18, 30},
}

var dayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// SlotLabel renders the clock range of a slot, e.g. "08:00-09:30".
func SlotLabel(slot int) string {
	w, ok := slotWindows[slot]
	if !ok {
		return fmt.Sprintf("slot %d", slot)
	}
	start := time.Date(0, 1, 1, w.startHour, w.startMinute, 0, 0, time.UTC)
	end := start.Add(slotLength)
	return start.Format("15:04") + "-" + end.Format("15:04")
}

// DayName returns the weekday name for a 0-based teaching day.
func DayName(day int) string {
	if day < 0 || day >= len(dayNames) {
		return fmt.Sprintf("day %d", day)
	}
	return dayNames[day]
}

// Calendar maps semester grid coordinates to calendar dates.
type Calendar struct {
	starts map[string]time.Time
}

// New builds a calendar from semester start dates keyed by semester name.
// Zero dates are ignored.
func New(starts map[string]time.Time) *Calendar {
	cal := &Calendar{starts: make(map[string]time.Time, len(starts))}
	for name, start := range starts {
		if start.IsZero() {
			continue
		}
		cal.starts[name] = mondayOf(start)
	}
	return cal
}

// WeekStarts returns the Monday of every teaching week of the semester.
func (c *Calendar) WeekStarts(semester string) ([]time.Time, error) {
	start, ok := c.starts[semester]
	if !ok {
		return nil, fmt.Errorf("no start date configured for semester %s", semester)
	}
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.WEEKLY,
		Count:   WeeksPerSemester,
		Dtstart: start,
	})
	if err != nil {
		return nil, fmt.Errorf("build weekly rule: %w", err)
	}
	return rule.All(), nil
}

// Date resolves a 1-based week and 0-based day into a calendar date.
func (c *Calendar) Date(semester string, week, day int) (time.Time, error) {
	if week < 1 || week > WeeksPerSemester {
		return time.Time{}, fmt.Errorf("week %d outside semester", week)
	}
	if day < 0 || day >= len(dayNames) {
		return time.Time{}, fmt.Errorf("day %d outside teaching week", day)
	}
	weeks, err := c.WeekStarts(semester)
	if err != nil {
		return time.Time{}, err
	}
	return weeks[week-1].AddDate(0, 0, day), nil
}

// Session returns the wall clock start and end of one block.
func (c *Calendar) Session(semester string, week, day, slot int) (time.Time, time.Time, error) {
	w, ok := slotWindows[slot]
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("slot %d outside teaching day", slot)
	}
	date, err := c.Date(semester, week, day)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(date.Year(), date.Month(), date.Day(), w.startHour, w.startMinute, 0, 0, date.Location())
	return start, start.Add(slotLength), nil
}

func mondayOf(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}
