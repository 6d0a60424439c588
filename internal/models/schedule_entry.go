package models

import "time"

// ScheduleEntry is one placed session block of a batch.
type ScheduleEntry struct {
	ID               string    `db:"id" json:"id"`
	BatchID          *string   `db:"batch_id" json:"batch_id,omitempty"`
	Semester         Semester  `db:"semester" json:"semester"`
	WeekNumber       int       `db:"week_number" json:"week_number"`
	DayOfWeek        int       `db:"day_of_week" json:"day_of_week"`
	TimeSlot         int       `db:"time_slot" json:"time_slot"`
	RoomID           string    `db:"room_id" json:"room_id"`
	TeacherSubjectID string    `db:"teacher_subject_id" json:"teacher_subject_id"`
	SubjectID        string    `db:"subject_id" json:"subject_id"`
	GroupID          string    `db:"group_id" json:"group_id"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// ScheduleEntryDetail enriches an entry with names for read views.
type ScheduleEntryDetail struct {
	ScheduleEntry
	TeacherID   string              `db:"teacher_id" json:"teacher_id"`
	TeacherName string              `db:"teacher_name" json:"teacher_name"`
	SubjectName string              `db:"subject_name" json:"subject_name"`
	SubjectType SubjectType         `db:"subject_type" json:"subject_type"`
	RoomName    string              `db:"room_name" json:"room_name"`
	RoomType    RoomType            `db:"room_type" json:"room_type"`
	GroupName   string              `db:"group_name" json:"group_name"`
	BatchStatus ScheduleBatchStatus `db:"batch_status" json:"batch_status"`
}

// IsPublished reports whether the owning batch is published.
func (d ScheduleEntryDetail) IsPublished() bool {
	return d.BatchStatus == ScheduleBatchStatusPublished
}

// OccupiedSlot is the minimal projection used to seed occupancy.
type OccupiedSlot struct {
	WeekNumber int    `db:"week_number"`
	DayOfWeek  int    `db:"day_of_week"`
	TimeSlot   int    `db:"time_slot"`
	RoomID     string `db:"room_id"`
	TeacherID  string `db:"teacher_id"`
	GroupID    string `db:"group_id"`
}

// ScheduleEntryFilter describes query params for listing entries.
type ScheduleEntryFilter struct {
	Semester  Semester
	Status    ScheduleBatchStatus
	GroupID   string
	TeacherID string
	BatchID   string
}
