package scheduler

import (
	"fmt"

	"github.com/noah-isme/sparx-api/internal/models"
)

// ConflictTypeUnscheduled marks an obligation with blocks left unplaced.
const ConflictTypeUnscheduled = "UNSCHEDULED"

// SuggestedSlot is a free slot an operator may use to resolve a conflict by hand.
type SuggestedSlot struct {
	Week     int    `json:"week"`
	Day      int    `json:"day"`
	Slot     int    `json:"slot"`
	RoomID   string `json:"roomId"`
	RoomName string `json:"roomName"`
}

// Conflict describes an obligation that could not be fully placed.
type Conflict struct {
	ID               string          `json:"id"`
	Type             string          `json:"type"`
	Description      string          `json:"description"`
	TeacherSubjectID string          `json:"teacherSubjectId"`
	SubjectName      string          `json:"subjectName"`
	TeacherName      string          `json:"teacherName"`
	GroupName        string          `json:"groupName"`
	BlocksScheduled  int             `json:"blocksScheduled"`
	BlocksNeeded     int             `json:"blocksNeeded"`
	HoursScheduled   int             `json:"hoursScheduled"`
	HoursNeeded      int             `json:"hoursNeeded"`
	SuggestedSlots   []SuggestedSlot `json:"suggestedSlots"`
}

// blocksToHours truncates like the reporting layer always has.
func blocksToHours(blocks int) int {
	return int(float64(blocks) * BlockHours)
}

func (r *run) reportConflict(ob models.TeacherSubjectDetail, placed, required int) Conflict {
	return Conflict{
		ID:               "conflict-" + ob.ID,
		Type:             ConflictTypeUnscheduled,
		Description:      fmt.Sprintf("unable to schedule all blocks (%d/%d)", placed, required),
		TeacherSubjectID: ob.ID,
		SubjectName:      ob.SubjectName,
		TeacherName:      ob.TeacherName,
		GroupName:        ob.GroupName,
		BlocksScheduled:  placed,
		BlocksNeeded:     required,
		HoursScheduled:   blocksToHours(placed),
		HoursNeeded:      blocksToHours(required),
		SuggestedSlots:   r.suggestSlots(ob),
	}
}

// suggestSlots scans the grid in natural order ignoring daily caps.
func (r *run) suggestSlots(ob models.TeacherSubjectDetail) []SuggestedSlot {
	roomType := ob.SubjectType.RequiredRoomType()
	suggestions := make([]SuggestedSlot, 0, MaxSuggestedSlots)
	for week := 1; week <= WeeksPerSemester; week++ {
		for day := 0; day < DaysPerWeek; day++ {
			for slot := 1; slot <= SlotsPerDay; slot++ {
				if len(suggestions) >= MaxSuggestedSlots {
					return suggestions
				}
				key := SlotKey{Week: week, Day: day, Slot: slot}
				if r.occ.IsOccupied(ob.TeacherID, ob.GroupID, key) {
					continue
				}
				room := FindRoom(r.input.Rooms, roomType, r.groupSize, r.occ.OccupiedRoomsAt(key))
				if room == nil {
					continue
				}
				suggestions = append(suggestions, SuggestedSlot{
					Week:     week,
					Day:      day,
					Slot:     slot,
					RoomID:   room.ID,
					RoomName: room.Name,
				})
			}
		}
	}
	return suggestions
}
