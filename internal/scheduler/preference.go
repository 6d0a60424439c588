package scheduler

import "github.com/noah-isme/sparx-api/internal/models"

// PreferenceScorer answers priority lookups for teacher time preferences.
type PreferenceScorer struct {
	byTeacher map[string][]models.Preference
	max       map[string]int
}

// NewPreferenceScorer indexes preferences by teacher, keeping input order.
func NewPreferenceScorer(prefs []models.Preference) *PreferenceScorer {
	scorer := &PreferenceScorer{
		byTeacher: make(map[string][]models.Preference),
		max:       make(map[string]int),
	}
	for _, p := range prefs {
		scorer.byTeacher[p.TeacherID] = append(scorer.byTeacher[p.TeacherID], p)
		if p.Priority > scorer.max[p.TeacherID] {
			scorer.max[p.TeacherID] = p.Priority
		}
	}
	return scorer
}

// Score returns the priority of the first preference matching the slot, or 0.
func (s *PreferenceScorer) Score(teacherID string, day, slot int) int {
	for _, p := range s.byTeacher[teacherID] {
		if p.DayOfWeek == day && p.TimeSlot == slot {
			return p.Priority
		}
	}
	return 0
}

// Matches reports whether the teacher declared any preference for the slot.
func (s *PreferenceScorer) Matches(teacherID string, day, slot int) bool {
	for _, p := range s.byTeacher[teacherID] {
		if p.DayOfWeek == day && p.TimeSlot == slot {
			return true
		}
	}
	return false
}

// MaxPriority is the highest priority the teacher holds anywhere.
func (s *PreferenceScorer) MaxPriority(teacherID string) int {
	return s.max[teacherID]
}
