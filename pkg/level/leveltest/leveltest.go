// Package leveltest builds level element trees for tests.
package leveltest

import "github.com/matzehuels/lobbymap/pkg/level"

// Attrs is shorthand for an attribute map.
type Attrs = map[string]any

// El builds an element.
func El(name string, attrs Attrs, children ...*level.Element) *level.Element {
	return &level.Element{Name: name, Attributes: attrs, Children: children}
}

// Entity builds an entity or trigger element at a room-local position.
// A negative id omits the id attribute.
func Entity(name string, id int, x, y float64, extra ...Attrs) *level.Element {
	attrs := Attrs{"x": x, "y": y}
	if id >= 0 {
		attrs["id"] = id
	}
	for _, e := range extra {
		for k, v := range e {
			attrs[k] = v
		}
	}
	return El(name, attrs)
}

// RoomSpec describes one room for [Map].
type RoomSpec struct {
	Name     string
	X, Y     int
	W, H     int
	Entities []*level.Element
	Triggers []*level.Element
}

// Room builds a level element.
func Room(s RoomSpec) *level.Element {
	return El("level",
		Attrs{"name": "lvl_" + s.Name, "x": s.X, "y": s.Y, "width": s.W, "height": s.H},
		El("entities", nil, s.Entities...),
		El("triggers", nil, s.Triggers...),
	)
}

// Map builds a root element holding the given rooms. Extra children (for
// example a meta element) are appended after the levels element.
func Map(rooms []RoomSpec, extra ...*level.Element) *level.Element {
	levels := El("levels", nil)
	for _, r := range rooms {
		levels.Children = append(levels.Children, Room(r))
	}
	return El("Map", Attrs{"package": "test"}, append([]*level.Element{levels}, extra...)...)
}

// MustLoad loads a tree built with [Map], panicking on error.
func MustLoad(root *level.Element) *level.Map {
	m, err := level.Load(root)
	if err != nil {
		panic(err)
	}
	return m
}
