// Package scheduler places teaching obligations onto the semester grid.
//
// A run is synchronous and owns its occupancy state; callers build a fresh
// Input per generation and serialise runs that share a semester.
package scheduler

import (
	"sort"

	"go.uber.org/zap"

	"github.com/noah-isme/sparx-api/internal/models"
)

const (
	WeeksPerSemester = 15
	DaysPerWeek      = 5
	SlotsPerDay      = 7
	BlockHours       = 1.5

	MaxDailyBlocksPerObligation = 2
	MaxDailyBlocksPerGroup      = 5
	MaxSuggestedSlots           = 8

	maxWeekOffset = 2 * WeeksPerSemester
)

// ResolvedSlot is an operator chosen placement applied before the greedy pass.
type ResolvedSlot struct {
	Week   int
	Day    int
	Slot   int
	RoomID string
}

// Input is everything one generation run needs.
type Input struct {
	Semester    models.Semester
	BatchID     string
	Group       models.StudentGroup
	Obligations []models.TeacherSubjectDetail
	Rooms       []models.Room
	Preferences []models.Preference
	// Occupied holds entries of published batches and other groups' drafts.
	Occupied []models.OccupiedSlot
	// Resolved is keyed by obligation id.
	Resolved map[string][]ResolvedSlot
	Weights  Weights
}

// PlacementSummary reports how one obligation fared.
type PlacementSummary struct {
	TeacherSubjectID string `json:"teacherSubjectId"`
	BlocksNeeded     int    `json:"blocksNeeded"`
	BlocksScheduled  int    `json:"blocksScheduled"`
	HoursNeeded      int    `json:"hoursNeeded"`
	HoursScheduled   int    `json:"hoursScheduled"`
	ResolvedApplied  int    `json:"resolvedApplied"`
	FallbackUsed     bool   `json:"fallbackUsed"`
}

// Result is the outcome of a run. Conflicts are warnings, not failures.
type Result struct {
	Entries   []models.ScheduleEntry
	Conflicts []Conflict
	Summaries []PlacementSummary
	Metrics   Metrics
}

// FallbackCount returns how many obligations needed the relaxed group cap.
func (r *Result) FallbackCount() int {
	count := 0
	for _, s := range r.Summaries {
		if s.FallbackUsed {
			count++
		}
	}
	return count
}

// Engine runs placements.
type Engine struct {
	logger *zap.Logger
}

// New constructs an engine.
func New(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// run is the request scoped state of one Engine.Run call.
type run struct {
	input     Input
	occ       *Occupancy
	scorer    *PreferenceScorer
	weights   Weights
	groupSize int
	counts    counters
	entries   []models.ScheduleEntry
	logger    *zap.Logger
}

// Run places every obligation of the input group and scores the outcome.
func (e *Engine) Run(in Input) *Result {
	r := &run{
		input:     in,
		occ:       NewOccupancy(),
		scorer:    NewPreferenceScorer(in.Preferences),
		weights:   in.Weights,
		groupSize: in.Group.Size,
		counts:    newCounters(),
		logger:    e.logger.With(zap.String("group_id", in.Group.ID), zap.String("semester", string(in.Semester))),
	}
	if r.groupSize <= 0 {
		r.groupSize = 1
	}
	r.occ.Seed(in.Occupied)

	resolved := r.applyResolved()
	obligations := r.sortedObligations()

	result := &Result{}
	for _, ob := range obligations {
		required := RequiredBlocks(ob.HoursPerSemester)
		placed, fallback := r.placeObligation(ob, resolved[ob.ID])
		summary := PlacementSummary{
			TeacherSubjectID: ob.ID,
			BlocksNeeded:     required,
			BlocksScheduled:  placed,
			HoursNeeded:      blocksToHours(required),
			HoursScheduled:   blocksToHours(placed),
			ResolvedApplied:  resolved[ob.ID],
			FallbackUsed:     fallback,
		}
		result.Summaries = append(result.Summaries, summary)
		r.logger.Debug("obligation placed",
			zap.String("teacher_subject_id", ob.ID),
			zap.Int("blocks_needed", required),
			zap.Int("blocks_scheduled", placed),
			zap.Bool("fallback", fallback),
		)
		if placed < required {
			result.Conflicts = append(result.Conflicts, r.reportConflict(ob, placed, required))
		}
	}

	sort.SliceStable(r.entries, func(i, j int) bool {
		a, b := r.entries[i], r.entries[j]
		if a.WeekNumber != b.WeekNumber {
			return a.WeekNumber < b.WeekNumber
		}
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek < b.DayOfWeek
		}
		return a.TimeSlot < b.TimeSlot
	})
	result.Entries = r.entries
	result.Metrics = CalculateMetrics(r.entries, teacherLookup(in.Obligations), r.scorer)

	r.logger.Info("schedule run finished",
		zap.Int("obligations", len(obligations)),
		zap.Int("entries", len(result.Entries)),
		zap.Int("conflicts", len(result.Conflicts)),
		zap.Float64("preference_score", result.Metrics.PreferenceScore),
	)
	return result
}

// applyResolved inserts operator placements verbatim. Placements for unknown obligations
// or rooms, outside the grid, or colliding with existing bookings are skipped.
func (r *run) applyResolved() map[string]int {
	applied := make(map[string]int)
	if len(r.input.Resolved) == 0 {
		return applied
	}
	byID := make(map[string]models.TeacherSubjectDetail, len(r.input.Obligations))
	for _, ob := range r.input.Obligations {
		byID[ob.ID] = ob
	}
	rooms := make(map[string]struct{}, len(r.input.Rooms))
	for _, room := range r.input.Rooms {
		rooms[room.ID] = struct{}{}
	}

	// Iterate obligations in input order so the outcome does not depend on map order.
	for _, ob := range r.input.Obligations {
		for _, slot := range r.input.Resolved[ob.ID] {
			key := SlotKey{Week: slot.Week, Day: slot.Day, Slot: slot.Slot}
			_, knownRoom := rooms[slot.RoomID]
			if !key.inGrid() || !knownRoom || r.occ.IsOccupied(ob.TeacherID, ob.GroupID, key) || r.occ.RoomTaken(slot.RoomID, key) {
				r.logger.Warn("skipping resolved placement",
					zap.String("teacher_subject_id", ob.ID),
					zap.Int("week", slot.Week),
					zap.Int("day", slot.Day),
					zap.Int("slot", slot.Slot),
					zap.String("room_id", slot.RoomID),
				)
				continue
			}
			r.place(ob, key, slot.RoomID)
			applied[ob.ID]++
		}
	}
	for id := range r.input.Resolved {
		if _, ok := byID[id]; !ok {
			r.logger.Warn("resolved placements reference unknown obligation", zap.String("teacher_subject_id", id))
		}
	}
	return applied
}

// sortedObligations orders obligations by the teacher's highest preference priority,
// keeping input order on ties.
func (r *run) sortedObligations() []models.TeacherSubjectDetail {
	sorted := make([]models.TeacherSubjectDetail, len(r.input.Obligations))
	copy(sorted, r.input.Obligations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return r.scorer.MaxPriority(sorted[i].TeacherID) > r.scorer.MaxPriority(sorted[j].TeacherID)
	})
	return sorted
}

func (r *run) newEntry(ob models.TeacherSubjectDetail, key SlotKey, roomID string) models.ScheduleEntry {
	entry := models.ScheduleEntry{
		Semester:         r.input.Semester,
		WeekNumber:       key.Week,
		DayOfWeek:        key.Day,
		TimeSlot:         key.Slot,
		RoomID:           roomID,
		TeacherSubjectID: ob.ID,
		SubjectID:        ob.SubjectID,
		GroupID:          ob.GroupID,
	}
	if r.input.BatchID != "" {
		batchID := r.input.BatchID
		entry.BatchID = &batchID
	}
	return entry
}

func teacherLookup(obligations []models.TeacherSubjectDetail) map[string]string {
	lookup := make(map[string]string, len(obligations))
	for _, ob := range obligations {
		lookup[ob.ID] = ob.TeacherID
	}
	return lookup
}
