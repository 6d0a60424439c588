package models

// TeacherSubject links a teacher to a subject taught to one student group.
type TeacherSubject struct {
	ID        string `db:"id" json:"id"`
	TeacherID string `db:"teacher_id" json:"teacher_id"`
	SubjectID string `db:"subject_id" json:"subject_id"`
	GroupID   string `db:"group_id" json:"group_id"`
}

// TeacherSubjectDetail enriches the obligation with the fields the scheduler needs.
type TeacherSubjectDetail struct {
	TeacherSubject
	TeacherName      string      `db:"teacher_name" json:"teacher_name"`
	SubjectName      string      `db:"subject_name" json:"subject_name"`
	SubjectType      SubjectType `db:"subject_type" json:"subject_type"`
	HoursPerSemester int         `db:"hours_per_semester" json:"hours_per_semester"`
	GroupName        string      `db:"group_name" json:"group_name"`
}
