package scheduler

import "github.com/noah-isme/sparx-api/internal/models"

// FindRoom returns the first room in input order with the right category,
// enough capacity and no booking in the occupied set.
func FindRoom(rooms []models.Room, category models.RoomType, minCapacity int, occupied map[string]struct{}) *models.Room {
	for i := range rooms {
		room := &rooms[i]
		if room.Type != category || room.Capacity < minCapacity {
			continue
		}
		if _, taken := occupied[room.ID]; taken {
			continue
		}
		return room
	}
	return nil
}
