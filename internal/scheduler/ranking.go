package scheduler

import (
	"fmt"
	"sort"
)

const (
	adjacencyBonus = 40
	gapPenalty     = 30
)

// Weights tunes the dynamic candidate score.
type Weights struct {
	Preferences float64 `json:"preferences"`
	TeacherGaps float64 `json:"teacherGaps"`
	StudentGaps float64 `json:"studentGaps"`
}

// DefaultWeights returns the 2/2/2 triple.
func DefaultWeights() Weights {
	return Weights{Preferences: 2, TeacherGaps: 2, StudentGaps: 2}
}

// Validate rejects negative weights.
func (w Weights) Validate() error {
	if w.Preferences < 0 || w.TeacherGaps < 0 || w.StudentGaps < 0 {
		return fmt.Errorf("weights must not be negative: %+v", w)
	}
	return nil
}

// Candidate is a (day, slot) pair with its week independent base score.
type Candidate struct {
	Day   int
	Slot  int
	Score float64
}

// RankSlots orders every weekly (day, slot) pair for a teacher: preference first,
// earlier slots on ties.
func RankSlots(scorer *PreferenceScorer, teacherID string) []Candidate {
	ranked := make([]Candidate, 0, DaysPerWeek*SlotsPerDay)
	for day := 0; day < DaysPerWeek; day++ {
		for slot := 1; slot <= SlotsPerDay; slot++ {
			score := float64(scorer.Score(teacherID, day, slot))*10 - float64(slot-1)*0.1
			ranked = append(ranked, Candidate{Day: day, Slot: slot, Score: score})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// dynamicScore weighs a base score against teacher and group compactness on the candidate day.
func dynamicScore(base float64, w Weights, occ *Occupancy, teacherID, groupID string, key SlotKey) float64 {
	score := base * w.Preferences * 2
	score += compactness(occ.teachers, teacherID, key, w.TeacherGaps)
	score += compactness(occ.groups, groupID, key, w.StudentGaps)
	return score
}

func compactness(idx partyIndex, id string, key SlotKey, weight float64) float64 {
	if !idx.busyOn(id, key.Week, key.Day) {
		return 0
	}
	if idx.adjacent(id, key) {
		return adjacencyBonus * weight
	}
	return -gapPenalty * weight
}
