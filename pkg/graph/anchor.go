package graph

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/lobbymap/pkg/errors"
	"github.com/matzehuels/lobbymap/pkg/level"
)

// Entity and trigger names recognised in lobby levels.
const (
	EntityPlayer   = "player"
	EntityDoor     = "CollabUtils2/MiniHeartDoor"
	EntityWarp     = "CollabUtils2/LobbyMapWarp"
	TriggerChapter = "CollabUtils2/ChapterPanelTrigger"

	AttrDefaultSpawn = "isDefaultSpawn"
	AttrStartLevel   = "StartLevel"
)

// Kind identifies what an anchor marks.
type Kind int

const (
	KindSpawn Kind = iota
	KindChapter
	KindWarp
	KindDoor
)

func (k Kind) String() string {
	switch k {
	case KindSpawn:
		return "spawn"
	case KindChapter:
		return "chapter"
	case KindWarp:
		return "warp"
	case KindDoor:
		return "door"
	}
	return "unknown"
}

// Anchor is a point of interest together with the room it sits in.
type Anchor struct {
	Kind     Kind
	ID       *int
	Position level.Vec2 // room-local
	Room     *level.Room
}

func anchorOf(kind Kind, e level.Entity, r *level.Room) Anchor {
	return Anchor{Kind: kind, ID: e.ID, Position: e.Position, Room: r}
}

// FindDoor returns the first heart door in room order.
func FindDoor(m *level.Map) (Anchor, bool) {
	for _, r := range m.Rooms {
		if e, ok := r.FindEntity(EntityDoor); ok {
			return anchorOf(KindDoor, e, r), true
		}
	}
	return Anchor{}, false
}

// Warps returns every map warp, sorted. A warp without an id is MISSING_DATA.
func Warps(m *level.Map) ([]Anchor, error) {
	var out []Anchor
	for _, r := range m.Rooms {
		for _, e := range r.EntitiesNamed(EntityWarp) {
			out = append(out, anchorOf(KindWarp, e, r))
		}
	}
	return sortAnchors(out)
}

// Chapters returns every chapter panel trigger, sorted. A trigger without an
// id is MISSING_DATA.
func Chapters(m *level.Map) ([]Anchor, error) {
	var out []Anchor
	for _, r := range m.Rooms {
		for _, t := range r.TriggersNamed(TriggerChapter) {
			out = append(out, anchorOf(KindChapter, t, r))
		}
	}
	return sortAnchors(out)
}

func sortAnchors(as []Anchor) ([]Anchor, error) {
	for _, a := range as {
		if a.ID == nil {
			return nil, errors.MissingData("%s in room %q has no id", a.Kind, a.Room.Name)
		}
	}
	slices.SortStableFunc(as, compareAnchors)
	return as, nil
}

// compareAnchors orders by id, then squared distance from the room origin,
// then room name.
func compareAnchors(a, b Anchor) int {
	if c := cmp.Compare(*a.ID, *b.ID); c != 0 {
		return c
	}
	if c := totalCompare(sqNorm(a.Position), sqNorm(b.Position)); c != 0 {
		return c
	}
	return cmp.Compare(a.Room.Name, b.Room.Name)
}

func sqNorm(v level.Vec2) float32 {
	return v.X*v.X + v.Y*v.Y
}

// totalCompare orders floats the IEEE 754 totalOrder way: -NaN < -Inf < ...
// < -0 < +0 < ... < +Inf < +NaN.
func totalCompare(a, b float32) int {
	return cmp.Compare(totalKey(a), totalKey(b))
}

func totalKey(f float32) int32 {
	k := int32(math.Float32bits(f))
	return k ^ int32(uint32(k>>31)>>1)
}

// DefaultSpawn returns the player entity flagged isDefaultSpawn, or the first
// player entity in the room.
func DefaultSpawn(r *level.Room) (Anchor, error) {
	players := r.EntitiesNamed(EntityPlayer)
	for _, p := range players {
		if ok, _ := p.Raw.Bool(AttrDefaultSpawn); ok {
			return anchorOf(KindSpawn, p, r), nil
		}
	}
	if len(players) == 0 {
		return Anchor{}, errors.MissingData("room %q has no %s entity", r.Name, EntityPlayer)
	}
	return anchorOf(KindSpawn, players[0], r), nil
}

// StartRoom finds the first element carrying a StartLevel attribute in
// breadth-first order and returns the room it names. Without one, or when the
// name matches no room, the first room is used. A level with no rooms is
// MISSING_DATA.
func StartRoom(root *level.Element, m *level.Map) (*level.Room, error) {
	if len(m.Rooms) == 0 {
		return nil, errors.MissingData("level has no rooms")
	}
	for el := range Walk(root) {
		v, ok := el.Attr(AttrStartLevel)
		if !ok {
			continue
		}
		name, ok := v.(string)
		if !ok {
			return nil, errors.New(errors.ErrCodeMalformedInput, "%s is %T, want string", AttrStartLevel, v)
		}
		if r := m.Room(name); r != nil {
			return r, nil
		}
		break
	}
	return m.Rooms[0], nil
}
