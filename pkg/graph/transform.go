package graph

import "github.com/matzehuels/lobbymap/pkg/level"

// ToMapSpace converts a room-local position to level coordinates.
func ToMapSpace(p level.Vec2, r *level.Room) level.Vec2 {
	return p.Add(r.Bounds.Origin())
}

// ToExportSpace converts a room-local position to image coordinates, whose
// origin is the top-left corner of the level's bounding box.
func ToExportSpace(p level.Vec2, r *level.Room, m *level.Map) level.Vec2 {
	return ToMapSpace(p, r).Sub(m.Bounds().Origin())
}
