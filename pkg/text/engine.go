package text

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/lobbymap/pkg/errors"
	"github.com/matzehuels/lobbymap/pkg/fonts"
)

// Config controls engine construction.
type Config struct {
	// SystemFonts adds installed fonts after the registered ones in the
	// fallback chain.
	SystemFonts bool
	// Hinting is applied to advances, metrics and glyph outlines.
	Hinting font.Hinting
}

// Face is one parsed font face.
type Face struct {
	Family string
	Font   *sfnt.Font
	System bool
}

// Engine shapes text against a fixed set of faces. It is not safe for
// concurrent use: scaling state is shared by every layout and outline
// stream it produces.
type Engine struct {
	cfg    Config
	faces  []*Face
	system []*Face
	buf    sfnt.Buffer
}

// systemFontPaths is replaced in tests.
var systemFontPaths = fonts.System

// NewEngine returns an engine with no registered faces. When cfg.SystemFonts
// is set, installed fonts are parsed now; files that fail to parse are
// skipped.
func NewEngine(cfg Config) *Engine {
	e := &Engine{cfg: cfg}
	if cfg.SystemFonts {
		for _, p := range systemFontPaths() {
			data, err := os.ReadFile(p)
			if err != nil {
				continue
			}
			faces, err := e.parse(data)
			if err != nil {
				continue
			}
			for _, f := range faces {
				f.System = true
			}
			e.system = append(e.system, faces...)
		}
	}
	return e
}

// Register adds every face in a font file or collection to the end of the
// fallback chain and returns their family names.
func (e *Engine) Register(data []byte) ([]string, error) {
	faces, err := e.parse(data)
	if err != nil {
		return nil, err
	}
	e.faces = append(e.faces, faces...)
	names := make([]string, len(faces))
	for i, f := range faces {
		names[i] = f.Family
	}
	return names, nil
}

func (e *Engine) parse(data []byte) ([]*Face, error) {
	var fs []*sfnt.Font
	if bytes.HasPrefix(data, []byte("ttcf")) {
		c, err := sfnt.ParseCollection(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "parse font collection")
		}
		for i := range c.NumFonts() {
			f, err := c.Font(i)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "parse font %d of collection", i)
			}
			fs = append(fs, f)
		}
	} else {
		f, err := sfnt.Parse(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "parse font")
		}
		fs = append(fs, f)
	}

	faces := make([]*Face, len(fs))
	for i, f := range fs {
		name, err := f.Name(&e.buf, sfnt.NameIDFamily)
		if err != nil || name == "" {
			name = fmt.Sprintf("face-%d", len(e.faces)+len(e.system)+i)
		}
		faces[i] = &Face{Family: name, Font: f}
	}
	return faces, nil
}

// Families returns the registered family names in fallback order. System
// faces are not included.
func (e *Engine) Families() []string {
	names := make([]string, len(e.faces))
	for i, f := range e.faces {
		names[i] = f.Family
	}
	return names
}

// Faces returns the full fallback chain: registered faces, then system faces.
func (e *Engine) Faces() []*Face {
	out := make([]*Face, 0, len(e.faces)+len(e.system))
	out = append(out, e.faces...)
	return append(out, e.system...)
}

// resolve picks the first face covering r. When none does, the primary
// face's .notdef glyph stands in.
func (e *Engine) resolve(r rune) (*Face, sfnt.GlyphIndex) {
	for _, chain := range [][]*Face{e.faces, e.system} {
		for _, f := range chain {
			gi, err := f.Font.GlyphIndex(&e.buf, r)
			if err == nil && gi != 0 {
				return f, gi
			}
		}
	}
	return e.primary(), 0
}

func (e *Engine) primary() *Face {
	if len(e.faces) > 0 {
		return e.faces[0]
	}
	if len(e.system) > 0 {
		return e.system[0]
	}
	return nil
}

// Covers reports whether some face other than the .notdef fallback has a
// glyph for r.
func (e *Engine) Covers(r rune) bool {
	_, gi := e.resolve(r)
	return gi != 0
}

func ppem(size float32) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(float64(size) * 64))
}

func fromFixed(v fixed.Int26_6) float32 {
	return float32(v) / 64
}

func (e *Engine) advance(f *Face, gi sfnt.GlyphIndex, size float32) (float32, error) {
	adv, err := f.Font.GlyphAdvance(&e.buf, gi, ppem(size), e.cfg.Hinting)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "advance of glyph %d in %s", gi, f.Family)
	}
	return fromFixed(adv), nil
}

// kern returns the pair adjustment, or 0 when the face has no kerning data.
func (e *Engine) kern(f *Face, a, b sfnt.GlyphIndex, size float32) float32 {
	k, err := f.Font.Kern(&e.buf, a, b, ppem(size), e.cfg.Hinting)
	if err != nil {
		return 0
	}
	return fromFixed(k)
}

func (e *Engine) metrics(f *Face, size float32) (ascent, descent float32, err error) {
	m, err := f.Font.Metrics(&e.buf, ppem(size), e.cfg.Hinting)
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeInternal, err, "metrics of %s", f.Family)
	}
	return fromFixed(m.Ascent), fromFixed(m.Descent), nil
}
