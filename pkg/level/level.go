package level

import (
	"strings"

	"github.com/matzehuels/lobbymap/pkg/errors"
)

// roomPrefix is prepended to room names in the binary map format.
const roomPrefix = "lvl_"

// Vec2 is a position in level pixels.
type Vec2 struct {
	X, Y float32
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X, Y int
	W, H int
}

// Origin returns the top-left corner as a Vec2.
func (r Rect) Origin() Vec2 { return Vec2{float32(r.X), float32(r.Y)} }

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1, y1 := max(r.X+r.W, o.X+o.W), max(r.Y+r.H, o.Y+o.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Entity is a placed object inside a room. Triggers use the same shape.
type Entity struct {
	Name     string
	ID       *int // nil when the element carries no id attribute
	Position Vec2 // room-local
	Raw      *Element
}

// Room is a rectangular sub-region of a level with its own origin.
type Room struct {
	Name     string
	Bounds   Rect
	Entities []Entity
	Triggers []Entity
	Raw      *Element
}

// EntitiesNamed returns the room's entities of the given kind in file order.
func (r *Room) EntitiesNamed(name string) []Entity {
	var out []Entity
	for _, e := range r.Entities {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

// TriggersNamed returns the room's triggers of the given kind in file order.
func (r *Room) TriggersNamed(name string) []Entity {
	var out []Entity
	for _, t := range r.Triggers {
		if t.Name == name {
			out = append(out, t)
		}
	}
	return out
}

// FindEntity returns the first entity of the given kind.
func (r *Room) FindEntity(name string) (Entity, bool) {
	for _, e := range r.Entities {
		if e.Name == name {
			return e, true
		}
	}
	return Entity{}, false
}

// Map is a decoded level: its rooms in file order plus the raw tree.
type Map struct {
	Package string
	Rooms   []*Room
	Root    *Element
}

// Bounds returns the union of all room rectangles. An empty map has a zero
// rectangle.
func (m *Map) Bounds() Rect {
	if len(m.Rooms) == 0 {
		return Rect{}
	}
	b := m.Rooms[0].Bounds
	for _, r := range m.Rooms[1:] {
		b = b.Union(r.Bounds)
	}
	return b
}

// Room looks a room up by name. Names stored with the binary "lvl_" prefix
// match either form.
func (m *Map) Room(name string) *Room {
	name = strings.TrimPrefix(name, roomPrefix)
	for _, r := range m.Rooms {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// Load builds a Map from a decoded element tree. A tree without a levels
// element yields a map with zero rooms; callers decide whether that is fatal.
func Load(root *Element) (*Map, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeMalformedInput, "level tree is empty")
	}
	m := &Map{Root: root}
	m.Package, _ = root.String("package")

	levels := root.Child("levels")
	if levels == nil {
		return m, nil
	}
	for i, el := range levels.Children {
		if el.Name != "level" {
			continue
		}
		room, err := loadRoom(el)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "level #%d", i)
		}
		m.Rooms = append(m.Rooms, room)
	}
	return m, nil
}

func loadRoom(el *Element) (*Room, error) {
	name, ok := el.String("name")
	if !ok {
		return nil, errors.New(errors.ErrCodeMalformedInput, "level has no name attribute")
	}
	r := &Room{Name: strings.TrimPrefix(name, roomPrefix), Raw: el}
	r.Bounds.X, _ = el.Int("x")
	r.Bounds.Y, _ = el.Int("y")
	r.Bounds.W, _ = el.Int("width")
	r.Bounds.H, _ = el.Int("height")

	var err error
	if r.Entities, err = loadEntities(el.Child("entities")); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "room %q entities", r.Name)
	}
	if r.Triggers, err = loadEntities(el.Child("triggers")); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "room %q triggers", r.Name)
	}
	return r, nil
}

func loadEntities(list *Element) ([]Entity, error) {
	if list == nil {
		return nil, nil
	}
	out := make([]Entity, 0, len(list.Children))
	for _, el := range list.Children {
		x, okX := el.Float("x")
		y, okY := el.Float("y")
		if !okX || !okY {
			return nil, errors.New(errors.ErrCodeMalformedInput, "%s has no position", el.Name)
		}
		e := Entity{
			Name:     el.Name,
			Position: Vec2{X: float32(x), Y: float32(y)},
			Raw:      el,
		}
		if id, ok := el.Int("id"); ok {
			e.ID = &id
		}
		out = append(out, e)
	}
	return out, nil
}
