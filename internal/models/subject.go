package models

// SubjectType classifies how a subject is taught.
type SubjectType string

const (
	SubjectTypeLecture  SubjectType = "LECTURE"
	SubjectTypeLab      SubjectType = "LAB"
	SubjectTypeSeminar  SubjectType = "SEMINAR"
	SubjectTypeExercise SubjectType = "EXERCISE"
)

// Subject represents an academic subject.
type Subject struct {
	ID               string      `db:"id" json:"id"`
	Name             string      `db:"name" json:"name"`
	Type             SubjectType `db:"type" json:"type"`
	HoursPerSemester int         `db:"hours_per_semester" json:"hours_per_semester"`
}

// RequiredRoomType maps the subject type to the room category it needs.
func (t SubjectType) RequiredRoomType() RoomType {
	if t == SubjectTypeLab {
		return RoomTypeLab
	}
	return RoomTypeLecture
}
