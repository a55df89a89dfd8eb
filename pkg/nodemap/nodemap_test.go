package nodemap

import (
	"bytes"
	"compress/zlib"
	"image"
	"image/color"
	"image/png"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/matzehuels/lobbymap/pkg/errors"
)

func sample() NodeMap {
	return NodeMap{
		"↺": {40, 310},
		"1": {412, 96},
		"B": {130.5, 288},
		"♥": {600, 20.25},
	}
}

func TestMarshalCanonical(t *testing.T) {
	data, err := Marshal(sample())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"1":[412,96],"B":[130.5,288],"↺":[40,310],"♥":[600,20.25]}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	again, _ := Marshal(sample())
	if !bytes.Equal(data, again) {
		t.Error("Marshal is not deterministic")
	}
}

func TestRoundTrip(t *testing.T) {
	data, err := Marshal(sample())
	if err != nil {
		t.Fatal(err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(got, sample()) {
		t.Errorf("round trip = %v, want %v", got, sample())
	}
}

func TestUnmarshalKeyOrder(t *testing.T) {
	got, err := Unmarshal([]byte(`{"♥":[1,2], "1":[3,4]}`))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got["1"] != (Position{3, 4}) || got["♥"] != (Position{1, 2}) {
		t.Errorf("Unmarshal() = %v", got)
	}
}

func TestUnmarshalMalformed(t *testing.T) {
	tests := []string{
		``,
		`null`,
		`[1,2]`,
		`{"1":[1]}`,
		`{"1":[1,2,3]}`,
		`{"1":["a","b"]}`,
		`{"1":[1,2]`,
	}
	for _, in := range tests {
		if _, err := Unmarshal([]byte(in)); !errors.Is(err, errors.ErrCodeMalformedInput) {
			t.Errorf("Unmarshal(%q) error = %v, want MALFORMED_INPUT", in, err)
		}
	}
}

func TestLabels(t *testing.T) {
	got := sample().Labels()
	want := []string{"1", "B", "↺", "♥"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Labels() = %v, want %v", got, want)
	}
}

func TestWriteAndReadJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample()); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(buf.String(), "}\n") {
		t.Errorf("Write output = %q, want trailing newline", buf.String())
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if !reflect.DeepEqual(got, sample()) {
		t.Errorf("ReadJSON() = %v", got)
	}
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	for y := range 3 {
		for x := range 4 {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 60), uint8(y * 80), 200, uint8(100 + x*y*10)})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestEmbedExtract(t *testing.T) {
	src := testPNG(t)

	var out bytes.Buffer
	if err := WritePNG(&out, bytes.NewReader(src), sample()); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}

	got, err := ReadPNG(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("ReadPNG: %v", err)
	}
	if !reflect.DeepEqual(got, sample()) {
		t.Errorf("ReadPNG() = %v", got)
	}

	before, err := png.Decode(bytes.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	after, err := png.Decode(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("embedded png no longer decodes: %v", err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Error("pixel data changed")
	}
}

func TestEmbedReplacesExisting(t *testing.T) {
	var first, second bytes.Buffer
	if err := Embed(&first, bytes.NewReader(testPNG(t)), "old"); err != nil {
		t.Fatal(err)
	}
	if err := Embed(&second, bytes.NewReader(first.Bytes()), "new"); err != nil {
		t.Fatal(err)
	}
	if n := bytes.Count(second.Bytes(), []byte(Keyword)); n != 1 {
		t.Errorf("keyword occurs %d times, want 1", n)
	}
	text, err := Extract(bytes.NewReader(second.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if text != "new" {
		t.Errorf("Extract() = %q, want %q", text, "new")
	}
}

func TestExtractCompressed(t *testing.T) {
	chunks, err := readChunks(bytes.NewReader(testPNG(t)))
	if err != nil {
		t.Fatal(err)
	}

	var z bytes.Buffer
	zw := zlib.NewWriter(&z)
	zw.Write([]byte(`{"1":[1,2]}`))
	zw.Close()
	data := append([]byte(Keyword+"\x00\x01\x00en\x00\x00"), z.Bytes()...)

	var out bytes.Buffer
	out.WriteString(pngSignature)
	writeChunk(&out, chunks[0])
	writeChunk(&out, chunk{typ: "iTXt", data: data})
	for _, c := range chunks[1:] {
		writeChunk(&out, c)
	}

	nm, err := ReadPNG(&out)
	if err != nil {
		t.Fatalf("ReadPNG: %v", err)
	}
	if nm["1"] != (Position{1, 2}) {
		t.Errorf("ReadPNG() = %v", nm)
	}
}

func TestExtractErrors(t *testing.T) {
	src := testPNG(t)
	corrupt := bytes.Clone(src)
	corrupt[len(pngSignature)+10] ^= 0xff // inside IHDR payload

	tests := []struct {
		name string
		data []byte
	}{
		{"not png", []byte("GIF89a...")},
		{"no chunk", src},
		{"bad checksum", corrupt},
		{"truncated", src[:len(src)-6]},
		{"forged length", forgedChunk()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(bytes.NewReader(tt.data))
			if !errors.Is(err, errors.ErrCodeMalformedInput) {
				t.Errorf("Extract() error = %v, want MALFORMED_INPUT", err)
			}
		})
	}
}

// forgedChunk is a PNG whose first chunk claims the largest legal length but
// carries only a few bytes.
func forgedChunk() []byte {
	b := []byte(pngSignature)
	b = append(b, 0x7f, 0xff, 0xff, 0xff)
	b = append(b, "IHDR"...)
	return append(b, 1, 2, 3, 4)
}

func TestExtractForgedLengthAllocation(t *testing.T) {
	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	if _, err := Extract(bytes.NewReader(forgedChunk())); err == nil {
		t.Fatal("Extract of a forged chunk should fail")
	}
	runtime.ReadMemStats(&after)
	if grew := after.TotalAlloc - before.TotalAlloc; grew > 1<<20 {
		t.Errorf("Extract allocated %d bytes for a %d byte input", grew, len(forgedChunk()))
	}
}

func TestResolve(t *testing.T) {
	nm := sample()
	from, to, err := nm.Resolve(Edge{From: "1", To: "B"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if from != (Position{412, 96}) || to != (Position{130.5, 288}) {
		t.Errorf("Resolve() = %v, %v", from, to)
	}

	for _, e := range []Edge{{From: "Z", To: "1"}, {From: "1", To: "Z"}} {
		if _, _, err := nm.Resolve(e); !errors.Is(err, errors.ErrCodeUnresolvedReference) {
			t.Errorf("Resolve(%v) error = %v, want UNRESOLVED_REFERENCE", e, err)
		}
	}
}
