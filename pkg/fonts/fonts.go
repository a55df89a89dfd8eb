// Package fonts provides the font files used to draw labels.
//
// The bundled faces are the Go fonts shipped with golang.org/x/image plus
// DejaVu Sans Bold for the arrows and symbols blocks, compiled into the binary
// so every label the walk produces renders without installed fonts. Host
// fonts can be listed and loaded for fallback when a label uses characters
// the bundled faces lack.
package fonts

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/flopp/go-findfont"
	"github.com/go-fonts/dejavu/dejavusansbold"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/lobbymap/pkg/errors"
)

// Font is a named font file.
type Font struct {
	Name string
	Data []byte
}

// Bundled returns the embedded faces in fallback priority order. Go Bold
// comes first since labels are drawn bold; DejaVu Sans Bold supplies the
// spawn arrow.
func Bundled() []Font {
	return []Font{
		{Name: "Go Bold", Data: gobold.TTF},
		{Name: "DejaVu Sans Bold", Data: dejavusansbold.TTF},
		{Name: "Go Regular", Data: goregular.TTF},
		{Name: "Go Mono", Data: gomono.TTF},
	}
}

// fontExts are the file extensions the layout engine can parse.
var fontExts = map[string]bool{".ttf": true, ".otf": true, ".ttc": true, ".otc": true}

// System lists installed font files the layout engine can parse, sorted by
// path so fallback order is stable across runs.
func System() []string {
	var out []string
	for _, p := range findfont.List() {
		if fontExts[strings.ToLower(filepath.Ext(p))] {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// Find resolves a font file name (e.g. "DejaVuSans-Bold.ttf") or a path to
// an installed font file.
func Find(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	p, err := findfont.Find(name)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "font %s", name)
	}
	return p, nil
}

// Load reads the font file name resolves to.
func Load(name string) (Font, error) {
	p, err := Find(name)
	if err != nil {
		return Font{}, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return Font{}, errors.Wrap(errors.ErrCodeInternal, err, "read font %s", p)
	}
	return Font{Name: filepath.Base(p), Data: data}, nil
}
