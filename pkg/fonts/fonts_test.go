package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/lobbymap/pkg/errors"
)

func TestBundled(t *testing.T) {
	fs := Bundled()
	if len(fs) != 4 {
		t.Fatalf("Bundled() = %d fonts, want 4", len(fs))
	}
	if fs[0].Name != "Go Bold" || fs[1].Name != "DejaVu Sans Bold" {
		t.Errorf("bundled order = %q, %q; want Go Bold, DejaVu Sans Bold", fs[0].Name, fs[1].Name)
	}
	for _, f := range fs {
		if len(f.Data) < 4 || string(f.Data[:4]) != "\x00\x01\x00\x00" {
			t.Errorf("%s: not a TrueType file", f.Name)
		}
	}
}

func TestLoadPath(t *testing.T) {
	p := filepath.Join(t.TempDir(), "custom.ttf")
	if err := os.WriteFile(p, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Name != "custom.ttf" || string(f.Data) != "data" {
		t.Errorf("Load() = %+v", f)
	}
}

func TestFindMissing(t *testing.T) {
	_, err := Find("definitely-not-installed-font-4f1a.ttf")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Find() error = %v, want FILE_NOT_FOUND", err)
	}
}
