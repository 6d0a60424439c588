package models

import "time"

// Semester identifies one half of the academic year.
type Semester string

const (
	SemesterWinter Semester = "WINTER"
	SemesterSummer Semester = "SUMMER"
)

// Valid reports whether the semester is one of the known values.
func (s Semester) Valid() bool {
	return s == SemesterWinter || s == SemesterSummer
}

// CurrentSemester derives the running semester from a calendar date.
func CurrentSemester(now time.Time) Semester {
	month := now.Month()
	switch {
	case month >= time.October || month <= time.February:
		return SemesterWinter
	case month >= time.March && month <= time.July:
		return SemesterSummer
	default:
		return SemesterWinter
	}
}

// ScheduleBatchStatus represents lifecycle phases for generated schedules.
type ScheduleBatchStatus string

const (
	ScheduleBatchStatusDraft     ScheduleBatchStatus = "DRAFT"
	ScheduleBatchStatusPublished ScheduleBatchStatus = "PUBLISHED"
)

// ScheduleBatch groups the entries produced by one generation run for a group and semester.
type ScheduleBatch struct {
	ID              string              `db:"id" json:"id"`
	Semester        Semester            `db:"semester" json:"semester"`
	GroupID         string              `db:"group_id" json:"group_id"`
	GroupName       string              `db:"group_name" json:"group_name,omitempty"`
	Status          ScheduleBatchStatus `db:"status" json:"status"`
	PreferenceScore float64             `db:"preference_score" json:"preference_score"`
	TeacherGaps     int                 `db:"teacher_gaps" json:"teacher_gaps"`
	StudentGaps     int                 `db:"student_gaps" json:"student_gaps"`
	EntriesCount    int                 `db:"entries_count" json:"entries_count"`
	CreatedAt       time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time           `db:"updated_at" json:"updated_at"`
	PublishedAt     *time.Time          `db:"published_at" json:"published_at,omitempty"`
}

// IsDraft reports whether the batch can still be replaced or deleted.
func (b ScheduleBatch) IsDraft() bool {
	return b.Status == ScheduleBatchStatusDraft
}

// ScheduleBatchFilter narrows batch listings.
type ScheduleBatchFilter struct {
	Semester Semester
	Status   ScheduleBatchStatus
	GroupID  string
}
