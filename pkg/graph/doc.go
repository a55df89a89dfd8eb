// Package graph extracts a labeled spatial graph from a decoded level.
//
// A lobby level contains four kinds of anchors:
//
//   - the spawn point: the default player entity of the start room
//   - chapter panels: CollabUtils2/ChapterPanelTrigger triggers
//   - map warps: CollabUtils2/LobbyMapWarp entities
//   - the heart door: the first CollabUtils2/MiniHeartDoor entity
//
// Chapters and warps are ordered by (id, squared distance of the room-local
// position from the room origin, room name), so repeated runs over the same
// level always assign the same labels. [BuildNodeMap] runs extraction and
// labeling and returns positions in export space:
//
//	export = room-local + room origin - level bounding-box origin
//
// # Labels
//
// The spawn is labeled [SpawnLabel], the door [DoorLabel], chapters "1",
// "2", ... and warps with words over A-Z in shortlex order starting at "B":
//
//	nm, err := graph.BuildNodeMap(root, m)
//	// nm["↺"], nm["1"], nm["B"], nm["♥"]
package graph
