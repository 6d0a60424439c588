package scheduler

import "github.com/noah-isme/sparx-api/internal/models"

// SlotKey addresses one teaching block in the semester grid.
type SlotKey struct {
	Week int
	Day  int
	Slot int
}

func (k SlotKey) inGrid() bool {
	return k.Week >= 1 && k.Week <= WeeksPerSemester &&
		k.Day >= 0 && k.Day < DaysPerWeek &&
		k.Slot >= 1 && k.Slot <= SlotsPerDay
}

type weekDay struct {
	Week int
	Day  int
}

// partyIndex tracks the slots held by teachers or groups, with a per-day counter
// so "has a class that day" is answered without scanning.
type partyIndex struct {
	slots map[string]map[SlotKey]struct{}
	days  map[string]map[weekDay]int
}

func newPartyIndex() partyIndex {
	return partyIndex{
		slots: make(map[string]map[SlotKey]struct{}),
		days:  make(map[string]map[weekDay]int),
	}
}

func (p partyIndex) has(id string, key SlotKey) bool {
	_, ok := p.slots[id][key]
	return ok
}

func (p partyIndex) busyOn(id string, week, day int) bool {
	return p.days[id][weekDay{Week: week, Day: day}] > 0
}

func (p partyIndex) adjacent(id string, key SlotKey) bool {
	before := SlotKey{Week: key.Week, Day: key.Day, Slot: key.Slot - 1}
	after := SlotKey{Week: key.Week, Day: key.Day, Slot: key.Slot + 1}
	return p.has(id, before) || p.has(id, after)
}

func (p partyIndex) add(id string, key SlotKey) {
	if p.has(id, key) {
		return
	}
	if p.slots[id] == nil {
		p.slots[id] = make(map[SlotKey]struct{})
		p.days[id] = make(map[weekDay]int)
	}
	p.slots[id][key] = struct{}{}
	p.days[id][weekDay{Week: key.Week, Day: key.Day}]++
}

// Occupancy records which teachers, groups and rooms are taken at each slot.
// It is owned by a single generation run and is not safe for concurrent use.
type Occupancy struct {
	teachers partyIndex
	groups   partyIndex
	rooms    map[SlotKey]map[string]struct{}
}

// NewOccupancy returns an empty tracker.
func NewOccupancy() *Occupancy {
	return &Occupancy{
		teachers: newPartyIndex(),
		groups:   newPartyIndex(),
		rooms:    make(map[SlotKey]map[string]struct{}),
	}
}

// Seed replays already committed entries into the tracker.
func (o *Occupancy) Seed(slots []models.OccupiedSlot) {
	for _, s := range slots {
		key := SlotKey{Week: s.WeekNumber, Day: s.DayOfWeek, Slot: s.TimeSlot}
		o.MarkOccupied(s.TeacherID, s.GroupID, s.RoomID, key)
	}
}

// IsOccupied reports whether the teacher or the group already holds the slot.
func (o *Occupancy) IsOccupied(teacherID, groupID string, key SlotKey) bool {
	return o.teachers.has(teacherID, key) || o.groups.has(groupID, key)
}

// OccupiedRoomsAt returns the rooms taken at the slot. The map must not be modified.
func (o *Occupancy) OccupiedRoomsAt(key SlotKey) map[string]struct{} {
	return o.rooms[key]
}

// RoomTaken reports whether the room is booked at the slot.
func (o *Occupancy) RoomTaken(roomID string, key SlotKey) bool {
	_, ok := o.rooms[key][roomID]
	return ok
}

// MarkOccupied books the teacher, group and room at the slot.
func (o *Occupancy) MarkOccupied(teacherID, groupID, roomID string, key SlotKey) {
	o.teachers.add(teacherID, key)
	o.groups.add(groupID, key)
	if o.rooms[key] == nil {
		o.rooms[key] = make(map[string]struct{})
	}
	o.rooms[key][roomID] = struct{}{}
}
