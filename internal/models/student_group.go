package models

// StudentGroup is a cohort of students scheduled together.
type StudentGroup struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Size int    `db:"size" json:"size"`
}
