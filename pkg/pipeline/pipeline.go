// Package pipeline runs the two lobbymap stages: extracting a node map from a
// level and drawing labels and arrows onto a PNG.
//
// This package holds the logic shared by every CLI command so that walk, draw
// and dot behave the same way regardless of entry point.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Extract: Decode a level, locate its anchors and label them
//  2. Draw: Lay out each label, fill and stroke its glyphs, then stroke the
//     graph edges and the highlighted path as arrows
//
// The stages meet at a PNG: extraction embeds the node map as an iTXt chunk,
// drawing reads it back from the same image.
//
// # Usage
//
// Extract a node map from a level file:
//
//	ex := pipeline.NewExtractor(nil, logger)
//	root, m, err := ex.Load(ctx, pipeline.Source{Level: "lobby.bin"})
//	if err != nil {
//	    return err
//	}
//	nodes, err := ex.Extract(ctx, root, m)
//
// Or in one step, reusing node maps of unchanged levels:
//
//	fc, _ := cache.NewFileCache(dir)
//	nodes, err := pipeline.NewExtractor(fc, logger).Walk(ctx, src)
//
// Draw onto an annotated image:
//
//	r, err := pipeline.NewRenderer(pipeline.DefaultStyle(), logger)
//	if err != nil {
//	    return err
//	}
//	edges, err := pipeline.ParseGraph(graphJSON)
//	err = r.Run(ctx, in, out, pipeline.DrawOptions{
//	    Graph: edges,
//	    Path:  pipeline.ParsePath("!-1-B"),
//	})
package pipeline

import (
	"fmt"
	"image/color"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/lobbymap/pkg/errors"
	"github.com/matzehuels/lobbymap/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultFontSize   = 96.0
	DefaultLineHeight = 0.75
	DefaultWing       = render.DefaultWing
	DefaultEdgeWidth  = 4.0
	DefaultPathWidth  = 6.0
	DefaultMiterLimit = 4.0
)

// =============================================================================
// Style
// =============================================================================

// Color is an NRGBA color written as "#rrggbbaa" (or "#rrggbb", opaque) in
// config files.
type Color color.NRGBA

// UnmarshalText parses a hex color.
func (c *Color) UnmarshalText(b []byte) error {
	s := strings.TrimPrefix(string(b), "#")
	var r, g, bl, a uint8
	a = 0xff
	var err error
	switch len(s) {
	case 6:
		_, err = fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &bl)
	case 8:
		_, err = fmt.Sscanf(s, "%02x%02x%02x%02x", &r, &g, &bl, &a)
	default:
		err = fmt.Errorf("want 6 or 8 hex digits")
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "color %q", string(b))
	}
	*c = Color{r, g, bl, a}
	return nil
}

// MarshalText formats the color as "#rrggbbaa".
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// NRGBA converts back to the image/color type.
func (c Color) NRGBA() color.NRGBA { return color.NRGBA(c) }

// Colors are the fills and strokes of a drawing.
type Colors struct {
	Digits  Color `toml:"digits"`
	Letters Color `toml:"letters"`
	Symbols Color `toml:"symbols"`
	Outline Color `toml:"outline"`
	Edge    Color `toml:"edge"`
	Path    Color `toml:"path"`
}

// Style controls how labels and arrows are drawn. Zero numeric fields are
// replaced by their defaults in SetDefaults.
type Style struct {
	FontSize   float64 `toml:"font_size"`
	LineHeight float64 `toml:"line_height"`
	Wing       float64 `toml:"wing"`
	EdgeWidth  float64 `toml:"edge_width"`
	PathWidth  float64 `toml:"path_width"`
	MiterLimit float64 `toml:"miter_limit"`

	// Fonts are font files or installed font names tried before the
	// bundled faces.
	Fonts []string `toml:"fonts"`
	// SystemFonts appends every installed font to the fallback chain.
	SystemFonts bool `toml:"system_fonts"`

	Colors Colors `toml:"colors"`
}

// DefaultStyle returns the standard style.
func DefaultStyle() Style {
	p := render.DefaultPalette()
	return Style{
		FontSize:   DefaultFontSize,
		LineHeight: DefaultLineHeight,
		Wing:       DefaultWing,
		EdgeWidth:  DefaultEdgeWidth,
		PathWidth:  DefaultPathWidth,
		MiterLimit: DefaultMiterLimit,
		Colors: Colors{
			Digits:  Color(p[render.Digits]),
			Letters: Color(p[render.Letters]),
			Symbols: Color(p[render.Symbols]),
			Outline: Color(render.LabelOutline),
			Edge:    Color(render.EdgeColor),
			Path:    Color(render.PathColor),
		},
	}
}

// LoadStyle reads a TOML style file over the defaults. Keys absent from the
// file keep their default values; unknown keys are rejected.
func LoadStyle(path string) (Style, error) {
	s := DefaultStyle()
	md, err := toml.DecodeFile(path, &s)
	if os.IsNotExist(err) {
		return Style{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "style %s", path)
	}
	if err != nil {
		if errors.GetCode(err) != "" {
			return Style{}, err
		}
		return Style{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "style %s", path)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return Style{}, errors.New(errors.ErrCodeInvalidInput, "style %s: unknown key %q", path, undec[0].String())
	}
	if err := s.Validate(); err != nil {
		return Style{}, err
	}
	return s, nil
}

// SetDefaults fills zero numeric fields.
func (s *Style) SetDefaults() {
	if s.FontSize == 0 {
		s.FontSize = DefaultFontSize
	}
	if s.LineHeight == 0 {
		s.LineHeight = DefaultLineHeight
	}
	if s.Wing == 0 {
		s.Wing = DefaultWing
	}
	if s.EdgeWidth == 0 {
		s.EdgeWidth = DefaultEdgeWidth
	}
	if s.PathWidth == 0 {
		s.PathWidth = DefaultPathWidth
	}
	if s.MiterLimit == 0 {
		s.MiterLimit = DefaultMiterLimit
	}
}

// Validate rejects negative sizes.
func (s *Style) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"font_size", s.FontSize},
		{"line_height", s.LineHeight},
		{"wing", s.Wing},
		{"edge_width", s.EdgeWidth},
		{"path_width", s.PathWidth},
		{"miter_limit", s.MiterLimit},
	} {
		if f.v < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "%s must not be negative, got %v", f.name, f.v)
		}
	}
	return nil
}

// Palette returns the label fills keyed by class.
func (s *Style) Palette() render.Palette {
	return render.Palette{
		render.Digits:  s.Colors.Digits.NRGBA(),
		render.Letters: s.Colors.Letters.NRGBA(),
		render.Symbols: s.Colors.Symbols.NRGBA(),
	}
}

// EdgeStroke returns the stroke used for graph edges.
func (s *Style) EdgeStroke() render.StrokeStyle {
	return render.StrokeStyle{Width: s.EdgeWidth, MiterLimit: s.MiterLimit}
}

// PathStroke returns the stroke used for the highlighted path.
func (s *Style) PathStroke() render.StrokeStyle {
	return render.StrokeStyle{Width: s.PathWidth, MiterLimit: s.MiterLimit}
}
