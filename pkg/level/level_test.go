package level_test

import (
	"testing"

	"github.com/matzehuels/lobbymap/pkg/errors"
	"github.com/matzehuels/lobbymap/pkg/level"
	lt "github.com/matzehuels/lobbymap/pkg/level/leveltest"
)

func TestLoad(t *testing.T) {
	root := lt.Map([]lt.RoomSpec{
		{Name: "a-00", X: 0, Y: 0, W: 320, H: 184,
			Entities: []*level.Element{lt.Entity("player", 1, 16, 160)},
			Triggers: []*level.Element{lt.Entity("CollabUtils2/ChapterPanelTrigger", 7, 40, 80)}},
		{Name: "a-01", X: 320, Y: -184, W: 320, H: 368},
	})

	m, err := level.Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Package != "test" {
		t.Errorf("Package = %q, want %q", m.Package, "test")
	}
	if len(m.Rooms) != 2 {
		t.Fatalf("rooms = %d, want 2", len(m.Rooms))
	}

	r := m.Rooms[0]
	if r.Name != "a-00" {
		t.Errorf("room name = %q, want lvl_ prefix stripped", r.Name)
	}
	if len(r.Entities) != 1 || r.Entities[0].Position != (level.Vec2{X: 16, Y: 160}) {
		t.Errorf("entities = %+v", r.Entities)
	}
	if id := r.Triggers[0].ID; id == nil || *id != 7 {
		t.Errorf("trigger id = %v, want 7", id)
	}

	want := level.Rect{X: 0, Y: -184, W: 640, H: 368}
	if got := m.Bounds(); got != want {
		t.Errorf("Bounds() = %+v, want %+v", got, want)
	}
}

func TestLoadEntityWithoutID(t *testing.T) {
	root := lt.Map([]lt.RoomSpec{{Name: "a", Entities: []*level.Element{lt.Entity("player", -1, 0, 0)}}})
	m := lt.MustLoad(root)
	if m.Rooms[0].Entities[0].ID != nil {
		t.Error("ID should be nil when the attribute is absent")
	}
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name string
		root *level.Element
	}{
		{"nil tree", nil},
		{"level without name", lt.El("Map", nil, lt.El("levels", nil, lt.El("level", lt.Attrs{"x": 0})))},
		{"entity without position", lt.El("Map", nil, lt.El("levels", nil,
			lt.El("level", lt.Attrs{"name": "a"}, lt.El("entities", nil, lt.El("player", lt.Attrs{"x": 1})))))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := level.Load(tt.root)
			if !errors.Is(err, errors.ErrCodeMalformedInput) {
				t.Errorf("Load() error = %v, want MALFORMED_INPUT", err)
			}
		})
	}
}

func TestLoadWithoutLevels(t *testing.T) {
	m, err := level.Load(lt.El("Map", nil))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(m.Rooms) != 0 {
		t.Errorf("rooms = %d, want 0", len(m.Rooms))
	}
	if m.Bounds() != (level.Rect{}) {
		t.Errorf("Bounds() = %+v, want zero", m.Bounds())
	}
}

func TestMapRoomLookup(t *testing.T) {
	m := lt.MustLoad(lt.Map([]lt.RoomSpec{{Name: "hub"}, {Name: "side"}}))
	for _, name := range []string{"side", "lvl_side"} {
		if r := m.Room(name); r == nil || r.Name != "side" {
			t.Errorf("Room(%q) = %v", name, r)
		}
	}
	if m.Room("missing") != nil {
		t.Error("Room(missing) should be nil")
	}
}

func TestElementAccessors(t *testing.T) {
	el := lt.El("e", lt.Attrs{
		"i": 3, "f": 2.5, "whole": 4.0, "s": "12", "b": true, "bs": "true", "txt": "hi",
	})

	if v, ok := el.Int("i"); !ok || v != 3 {
		t.Errorf("Int(i) = %v, %v", v, ok)
	}
	if v, ok := el.Int("whole"); !ok || v != 4 {
		t.Errorf("Int(whole) = %v, %v", v, ok)
	}
	if _, ok := el.Int("f"); ok {
		t.Error("Int(f) should fail for a fractional value")
	}
	if v, ok := el.Int("s"); !ok || v != 12 {
		t.Errorf("Int(s) = %v, %v", v, ok)
	}
	if v, ok := el.Float("i"); !ok || v != 3 {
		t.Errorf("Float(i) = %v, %v", v, ok)
	}
	if v, ok := el.Bool("bs"); !ok || !v {
		t.Errorf("Bool(bs) = %v, %v", v, ok)
	}
	if _, ok := el.String("i"); ok {
		t.Error("String(i) should not convert numbers")
	}
	if _, ok := el.Bool("txt"); ok {
		t.Error("Bool(txt) should fail")
	}
	var nilEl *level.Element
	if _, ok := nilEl.Attr("x"); ok {
		t.Error("nil element should have no attributes")
	}
}
