package models

// RoomType is the category of a teaching room.
type RoomType string

const (
	RoomTypeLecture RoomType = "LECTURE"
	RoomTypeLab     RoomType = "LAB"
)

// Room is a bookable teaching space.
type Room struct {
	ID       string   `db:"id" json:"id"`
	Name     string   `db:"name" json:"name"`
	Type     RoomType `db:"type" json:"type"`
	Capacity int      `db:"capacity" json:"capacity"`
}
