package models

import "time"

// Preference is a teacher's declared priority for one day and slot.
type Preference struct {
	ID               string    `db:"id" json:"id"`
	TeacherID        string    `db:"teacher_id" json:"teacher_id"`
	TeacherSubjectID *string   `db:"teacher_subject_id" json:"teacher_subject_id,omitempty"`
	DayOfWeek        int       `db:"day_of_week" json:"day_of_week"`
	TimeSlot         int       `db:"time_slot" json:"time_slot"`
	Priority         int       `db:"priority" json:"priority"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}
