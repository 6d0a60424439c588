package scheduler

import (
	"math"

	"github.com/noah-isme/sparx-api/internal/models"
)

// RequiredBlocks converts semester hours into 1.5h blocks, rounding up.
func RequiredBlocks(hoursPerSemester int) int {
	if hoursPerSemester <= 0 {
		return 0
	}
	return int(math.Ceil(float64(hoursPerSemester) / BlockHours))
}

// weeklyCap bounds how many blocks of one obligation land in a single week.
func weeklyCap(required int) int {
	limit := int(math.Ceil(float64(required) / WeeksPerSemester))
	if limit < 1 {
		return 1
	}
	return limit
}

// weekStride spreads light obligations across the semester.
func weekStride(required int) int {
	if required <= 0 || required >= WeeksPerSemester {
		return 1
	}
	return int(math.Ceil(float64(WeeksPerSemester) / float64(required)))
}

type obligationWeek struct {
	ObligationID string
	Week         int
}

type obligationDay struct {
	ObligationID string
	Week         int
	Day          int
}

type groupDay struct {
	GroupID string
	Week    int
	Day     int
}

// counters tally the entries produced by the current run.
type counters struct {
	obligationWeekly map[obligationWeek]int
	obligationDaily  map[obligationDay]int
	groupDaily       map[groupDay]int
}

func newCounters() counters {
	return counters{
		obligationWeekly: make(map[obligationWeek]int),
		obligationDaily:  make(map[obligationDay]int),
		groupDaily:       make(map[groupDay]int),
	}
}

func (c counters) add(obligationID, groupID string, key SlotKey) {
	c.obligationWeekly[obligationWeek{ObligationID: obligationID, Week: key.Week}]++
	c.obligationDaily[obligationDay{ObligationID: obligationID, Week: key.Week, Day: key.Day}]++
	c.groupDaily[groupDay{GroupID: groupID, Week: key.Week, Day: key.Day}]++
}

type placementCandidate struct {
	key   SlotKey
	room  *models.Room
	score float64
}

// placementLimits are derived once per obligation.
type placementLimits struct {
	required  int
	weeklyCap int
	stride    int
}

func limitsFor(required int) placementLimits {
	return placementLimits{
		required:  required,
		weeklyCap: weeklyCap(required),
		stride:    weekStride(required),
	}
}

// placeObligation greedily fills the obligation's remaining blocks. It returns the number
// of blocks placed in total and whether the group daily cap had to be relaxed.
func (r *run) placeObligation(ob models.TeacherSubjectDetail, alreadyPlaced int) (int, bool) {
	limits := limitsFor(RequiredBlocks(ob.HoursPerSemester))
	placed := alreadyPlaced
	if placed >= limits.required {
		return placed, false
	}

	ranked := RankSlots(r.scorer, ob.TeacherID)
	roomType := ob.SubjectType.RequiredRoomType()
	fallback := false
	offset := 0

	for placed < limits.required && offset < maxWeekOffset {
		best, found := r.bestCandidate(ob, ranked, roomType, limits, offset, fallback)
		if !found {
			if !fallback {
				// Relaxation stays on for the rest of this obligation.
				fallback = true
				continue
			}
			offset++
			continue
		}
		r.place(ob, best.key, best.room.ID)
		placed++
	}
	return placed, fallback
}

func (r *run) bestCandidate(
	ob models.TeacherSubjectDetail,
	ranked []Candidate,
	roomType models.RoomType,
	limits placementLimits,
	offset int,
	fallback bool,
) (placementCandidate, bool) {
	var (
		best  placementCandidate
		found bool
	)
	for week := 1 + offset; week <= WeeksPerSemester; week += limits.stride {
		if r.counts.obligationWeekly[obligationWeek{ObligationID: ob.ID, Week: week}] >= limits.weeklyCap {
			continue
		}
		for _, cand := range ranked {
			if r.counts.obligationDaily[obligationDay{ObligationID: ob.ID, Week: week, Day: cand.Day}] >= MaxDailyBlocksPerObligation {
				continue
			}
			if !fallback && r.counts.groupDaily[groupDay{GroupID: ob.GroupID, Week: week, Day: cand.Day}] >= MaxDailyBlocksPerGroup {
				continue
			}
			key := SlotKey{Week: week, Day: cand.Day, Slot: cand.Slot}
			if r.occ.IsOccupied(ob.TeacherID, ob.GroupID, key) {
				continue
			}
			room := FindRoom(r.input.Rooms, roomType, r.groupSize, r.occ.OccupiedRoomsAt(key))
			if room == nil {
				continue
			}
			score := dynamicScore(cand.Score, r.weights, r.occ, ob.TeacherID, ob.GroupID, key)
			if !found || score > best.score {
				best = placementCandidate{key: key, room: room, score: score}
				found = true
			}
		}
	}
	return best, found
}

func (r *run) place(ob models.TeacherSubjectDetail, key SlotKey, roomID string) {
	r.entries = append(r.entries, r.newEntry(ob, key, roomID))
	r.occ.MarkOccupied(ob.TeacherID, ob.GroupID, roomID, key)
	r.counts.add(ob.ID, ob.GroupID, key)
}
