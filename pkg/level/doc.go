// Package level models a decoded game level.
//
// A level arrives as a generic [Element] tree (see package decode for the
// binary, YAML and XML readers). [Load] turns that tree into a [Map]: an
// ordered list of rectangular [Room] values, each with its own origin offset
// and local entity and trigger lists.
//
// # Coordinates
//
// Entity positions are room-local. A room's origin is the top-left corner of
// its [Rect] in map space, and [Map.Bounds] is the union of all room
// rectangles. Package graph converts between these spaces.
//
// # Element layout
//
// The tree follows the Celeste map layout:
//
//	Map
//	├── levels
//	│   └── level (name, x, y, width, height)
//	│       ├── entities
//	│       │   └── <entity name> (id, x, y, ...)
//	│       └── triggers
//	│           └── <trigger name> (id, x, y, ...)
//	└── meta / Style / Filler ...
//
// Elements other than levels are kept on [Map.Root] for callers that need
// them (for example the StartLevel lookup).
package level
