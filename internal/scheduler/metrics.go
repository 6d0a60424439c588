package scheduler

import (
	"fmt"
	"math"
	"sort"

	"github.com/samber/lo"

	"github.com/noah-isme/sparx-api/internal/models"
)

// Metrics summarises the quality of a placement set.
type Metrics struct {
	PreferenceScore float64 `json:"preferenceScore"`
	TeacherGaps     int     `json:"teacherGaps"`
	StudentGaps     int     `json:"studentGaps"`
}

// CalculateMetrics scores entries against preferences and counts idle slots between classes.
// teacherOf maps obligation id to teacher id; entries with an unknown obligation count as unmatched.
func CalculateMetrics(entries []models.ScheduleEntry, teacherOf map[string]string, scorer *PreferenceScorer) Metrics {
	return Metrics{
		PreferenceScore: PreferenceScore(entries, teacherOf, scorer),
		TeacherGaps: countGaps(entries, func(e models.ScheduleEntry) string {
			return teacherOf[e.TeacherSubjectID]
		}),
		StudentGaps: countGaps(entries, func(e models.ScheduleEntry) string {
			return e.GroupID
		}),
	}
}

// PreferenceScore is the share of entries sitting on a declared preference, in percent
// with one decimal. Ties round half to even.
func PreferenceScore(entries []models.ScheduleEntry, teacherOf map[string]string, scorer *PreferenceScorer) float64 {
	if len(entries) == 0 {
		return 0
	}
	matched := lo.CountBy(entries, func(e models.ScheduleEntry) bool {
		teacherID, ok := teacherOf[e.TeacherSubjectID]
		return ok && scorer.Matches(teacherID, e.DayOfWeek, e.TimeSlot)
	})
	return math.RoundToEven(float64(matched)/float64(len(entries))*1000) / 10
}

func countGaps(entries []models.ScheduleEntry, partyOf func(models.ScheduleEntry) string) int {
	byParty := lo.GroupBy(lo.Filter(entries, func(e models.ScheduleEntry, _ int) bool {
		return partyOf(e) != ""
	}), partyOf)

	total := 0
	for _, partyEntries := range byParty {
		byDay := lo.GroupBy(partyEntries, func(e models.ScheduleEntry) string {
			return fmt.Sprintf("%d-%d", e.WeekNumber, e.DayOfWeek)
		})
		for _, dayEntries := range byDay {
			slots := lo.Map(dayEntries, func(e models.ScheduleEntry, _ int) int { return e.TimeSlot })
			sort.Ints(slots)
			for i := 0; i+1 < len(slots); i++ {
				if gap := slots[i+1] - slots[i] - 1; gap > 0 {
					total += gap
				}
			}
		}
	}
	return total
}
