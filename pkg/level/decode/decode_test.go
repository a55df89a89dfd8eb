package decode

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/matzehuels/lobbymap/pkg/errors"
	"github.com/matzehuels/lobbymap/pkg/level"
)

// mapWriter encodes element trees in the binary map format.
type mapWriter struct {
	lookup map[string]int16
	names  []string
}

func newMapWriter() *mapWriter {
	return &mapWriter{lookup: map[string]int16{}}
}

func (w *mapWriter) intern(s string) int16 {
	if i, ok := w.lookup[s]; ok {
		return i
	}
	i := int16(len(w.names))
	w.lookup[s] = i
	w.names = append(w.names, s)
	return i
}

func writeString(b *bytes.Buffer, s string) {
	n := uint(len(s))
	for n >= 0x80 {
		b.WriteByte(byte(n) | 0x80)
		n >>= 7
	}
	b.WriteByte(byte(n))
	b.WriteString(s)
}

func writeInt16(b *bytes.Buffer, v int16) {
	_ = binary.Write(b, binary.LittleEndian, v)
}

// element writes el. Attribute keys are written in the given order so the
// output is deterministic.
func (w *mapWriter) element(b *bytes.Buffer, name string, attrs [][2]any, children ...func(*bytes.Buffer)) {
	writeInt16(b, w.intern(name))
	b.WriteByte(byte(len(attrs)))
	for _, kv := range attrs {
		writeInt16(b, w.intern(kv[0].(string)))
		switch v := kv[1].(type) {
		case bool:
			b.WriteByte(tagBool)
			if v {
				b.WriteByte(1)
			} else {
				b.WriteByte(0)
			}
		case uint8:
			b.WriteByte(tagUint8)
			b.WriteByte(v)
		case int16:
			b.WriteByte(tagInt16)
			writeInt16(b, v)
		case int32:
			b.WriteByte(tagInt32)
			_ = binary.Write(b, binary.LittleEndian, v)
		case float32:
			b.WriteByte(tagFloat32)
			_ = binary.Write(b, binary.LittleEndian, math.Float32bits(v))
		case string:
			b.WriteByte(tagString)
			writeString(b, v)
		case rleString:
			b.WriteByte(tagRLE)
			writeInt16(b, int16(len(v)))
			b.WriteString(string(v))
		}
	}
	writeInt16(b, int16(len(children)))
	for _, c := range children {
		c(b)
	}
}

type rleString string

// finish prepends the header and lookup table to body.
func (w *mapWriter) finish(pkg string, body []byte) []byte {
	var out bytes.Buffer
	writeString(&out, Header)
	writeString(&out, pkg)
	writeInt16(&out, int16(len(w.names)))
	for _, s := range w.names {
		writeString(&out, s)
	}
	out.Write(body)
	return out.Bytes()
}

func sampleBinary() []byte {
	w := newMapWriter()
	var body bytes.Buffer
	w.element(&body, "Map", nil, func(b *bytes.Buffer) {
		w.element(b, "levels", nil, func(b *bytes.Buffer) {
			w.element(b, "level", [][2]any{
				{"name", "lvl_a-00"}, {"x", int32(0)}, {"y", int16(-184)},
				{"width", int16(320)}, {"height", int16(184)},
			}, func(b *bytes.Buffer) {
				w.element(b, "entities", nil, func(b *bytes.Buffer) {
					w.element(b, "player", [][2]any{
						{"id", uint8(3)}, {"x", float32(16.5)}, {"y", int16(160)},
						{"isDefaultSpawn", true},
					})
				})
			}, func(b *bytes.Buffer) {
				w.element(b, "solids", [][2]any{{"innerText", rleString("\x030\x021")}})
			})
		})
	})
	return w.finish("MyCollab/Lobby", body.Bytes())
}

func TestBinary(t *testing.T) {
	root, err := Binary(bytes.NewReader(sampleBinary()))
	if err != nil {
		t.Fatalf("Binary: %v", err)
	}
	if pkg, _ := root.String("package"); pkg != "MyCollab/Lobby" {
		t.Errorf("package = %q", pkg)
	}

	lvl := root.Child("levels").Children[0]
	if name, _ := lvl.String("name"); name != "lvl_a-00" {
		t.Errorf("level name = %q", name)
	}
	if y, _ := lvl.Int("y"); y != -184 {
		t.Errorf("level y = %d, want -184", y)
	}

	player := lvl.Child("entities").Children[0]
	if x, _ := player.Float("x"); x != 16.5 {
		t.Errorf("player x = %v, want 16.5", x)
	}
	if id, _ := player.Int("id"); id != 3 {
		t.Errorf("player id = %d, want 3", id)
	}
	if spawn, _ := player.Bool("isDefaultSpawn"); !spawn {
		t.Error("isDefaultSpawn should be true")
	}

	if s, _ := lvl.Child("solids").String("innerText"); s != "00011" {
		t.Errorf("rle text = %q, want %q", s, "00011")
	}

	m, err := level.Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Rooms[0].Name != "a-00" {
		t.Errorf("room name = %q", m.Rooms[0].Name)
	}
}

func TestBinaryMalformed(t *testing.T) {
	valid := sampleBinary()

	var wrongHeader bytes.Buffer
	writeString(&wrongHeader, "NOT A MAP")

	// header string claiming 2^28-1 bytes
	forged := []byte{0xff, 0xff, 0xff, 0x7f, 'C', 'E'}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"wrong header", wrongHeader.Bytes()},
		{"truncated", valid[:len(valid)-3]},
		{"forged string length", forged},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Binary(bytes.NewReader(tt.data))
			if !errors.Is(err, errors.ErrCodeMalformedInput) {
				t.Errorf("Binary() error = %v, want MALFORMED_INPUT", err)
			}
		})
	}
}

func TestBinaryForgedLengthAllocation(t *testing.T) {
	forged := []byte{0xff, 0xff, 0xff, 0x7f, 'C', 'E'}
	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	if _, err := Binary(bytes.NewReader(forged)); err == nil {
		t.Fatal("Binary of a forged string length should fail")
	}
	runtime.ReadMemStats(&after)
	if grew := after.TotalAlloc - before.TotalAlloc; grew > 1<<20 {
		t.Errorf("Binary allocated %d bytes for a %d byte input", grew, len(forged))
	}
}

func TestBinaryLongString(t *testing.T) {
	long := strings.Repeat("x", 300)
	w := newMapWriter()
	var body bytes.Buffer
	w.element(&body, "Map", [][2]any{{"note", long}})
	root, err := Binary(bytes.NewReader(w.finish("p", body.Bytes())))
	if err != nil {
		t.Fatalf("Binary: %v", err)
	}
	if s, _ := root.String("note"); s != long {
		t.Errorf("note length = %d, want 300", len(s))
	}
}

const sampleYAML = `name: Map
attributes: {package: MyCollab/Lobby}
children:
  - name: levels
    children:
      - name: level
        attributes: {name: lvl_hub, x: 0, y: 0, width: 320, height: 184}
        children:
          - name: entities
            children:
              - name: player
                attributes: {x: 8, y: 16.5, isDefaultSpawn: true}
`

func TestYAML(t *testing.T) {
	root, err := YAML(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("YAML: %v", err)
	}
	m, err := level.Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Package != "MyCollab/Lobby" {
		t.Errorf("package = %q", m.Package)
	}
	r := m.Room("hub")
	if r == nil {
		t.Fatal("room hub not found")
	}
	if r.Bounds.W != 320 {
		t.Errorf("width = %d, want 320", r.Bounds.W)
	}
	p := r.Entities[0]
	if p.Position != (level.Vec2{X: 8, Y: 16.5}) {
		t.Errorf("position = %+v", p.Position)
	}
	if spawn, _ := p.Raw.Bool("isDefaultSpawn"); !spawn {
		t.Error("isDefaultSpawn should be true")
	}
}

func TestYAMLMalformed(t *testing.T) {
	docs := []string{
		"name: [unclosed",
		"name: Map\nchildren:\n  - \n",
		"name: Map\nchildren:\n  - name: levels\n    children:\n      - ~\n",
	}
	for _, doc := range docs {
		if _, err := YAML(strings.NewReader(doc)); !errors.Is(err, errors.ErrCodeMalformedInput) {
			t.Errorf("YAML(%q) error = %v, want MALFORMED_INPUT", doc, err)
		}
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	root, err := Binary(bytes.NewReader(sampleBinary()))
	if err != nil {
		t.Fatalf("Binary: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteYAML(&buf, root); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := YAML(&buf)
	if err != nil {
		t.Fatalf("YAML: %v", err)
	}
	player := back.Child("levels").Children[0].Child("entities").Children[0]
	if x, _ := player.Float("x"); x != 16.5 {
		t.Errorf("player x = %v, want 16.5", x)
	}
	if id, _ := player.Int("id"); id != 3 {
		t.Errorf("player id = %d, want 3", id)
	}
}

func TestXML(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<Map package="MyCollab/Lobby">
  <levels>
    <level name="lvl_hub" x="-320" y="0" width="320" height="184">
      <entities>
        <player id="1" x="8" y="16"/>
      </entities>
      <triggers/>
    </level>
  </levels>
</Map>`

	root, err := XML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("XML: %v", err)
	}
	m, err := level.Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	r := m.Room("hub")
	if r == nil {
		t.Fatal("room hub not found")
	}
	if r.Bounds.X != -320 {
		t.Errorf("x = %d, want -320", r.Bounds.X)
	}
	if id := r.Entities[0].ID; id == nil || *id != 1 {
		t.Errorf("id = %v, want 1", id)
	}
}

func TestXMLMalformed(t *testing.T) {
	for _, doc := range []string{"", "<Map><levels></Map>"} {
		if _, err := XML(strings.NewReader(doc)); !errors.Is(err, errors.ErrCodeMalformedInput) {
			t.Errorf("XML(%q) error = %v, want MALFORMED_INPUT", doc, err)
		}
	}
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "lobby.bin")
	if err := os.WriteFile(bin, sampleBinary(), 0o644); err != nil {
		t.Fatal(err)
	}
	yml := filepath.Join(dir, "lobby.yaml")
	if err := os.WriteFile(yml, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{bin, yml} {
		root, err := File(path)
		if err != nil {
			t.Errorf("File(%s): %v", filepath.Base(path), err)
			continue
		}
		if root.Name != "Map" {
			t.Errorf("File(%s) root = %q", filepath.Base(path), root.Name)
		}
	}

	_, err := File(filepath.Join(dir, "missing.bin"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
}
