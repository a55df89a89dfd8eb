package text

import (
	"image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/lobbymap/pkg/errors"
)

// Op is a path command.
type Op uint8

const (
	MoveTo Op = iota
	LineTo
	QuadTo
	CubeTo
	Close
)

func (o Op) String() string {
	switch o {
	case MoveTo:
		return "M"
	case LineTo:
		return "L"
	case QuadTo:
		return "Q"
	case CubeTo:
		return "C"
	case Close:
		return "Z"
	}
	return "?"
}

// Point is a 2D point in pixels.
type Point struct {
	X, Y float32
}

// Segment is one path command. MoveTo and LineTo use Args[0], QuadTo uses
// Args[0:2] (control, end) and CubeTo Args[0:3]. Close has no arguments.
type Segment struct {
	Op   Op
	Args [3]Point
}

// Outline is a glyph's contours, y axis up, origin at the pen position on
// the baseline. Every contour starts with MoveTo and ends with Close.
type Outline []Segment

// GlyphOutline is a glyph outline with its layout position.
type GlyphOutline struct {
	Outline Outline
	X, Y    float32 // pen position; Y is the baseline
	Brush   color.NRGBA
	Rune    rune
}

// OutlineStream yields the outlines of a layout's glyphs in visual order,
// line by line:
//
//	s := eng.Outlines(layout)
//	for s.Next() {
//	    g := s.Glyph()
//	}
//	err := s.Err()
//
// A stream borrows its engine's scaling buffer. Use one stream at a time per
// engine, and do not build layouts while a stream is being consumed.
type OutlineStream struct {
	e      *Engine
	l      *Layout
	line   int
	run    int
	glyph  int
	pen    float32
	cur    GlyphOutline
	err    error
	failed bool
}

// Outlines returns a stream over the glyphs of l.
func (e *Engine) Outlines(l *Layout) *OutlineStream {
	return &OutlineStream{e: e, l: l, glyph: -1}
}

// Next advances to the next glyph. It returns false at the end of the layout
// or after an error.
func (s *OutlineStream) Next() bool {
	if s.failed || s.l == nil {
		return false
	}
	for s.line < len(s.l.Lines) {
		runs := s.l.Lines[s.line].Runs
		if s.run >= len(runs) {
			s.line++
			s.run, s.glyph = 0, -1
			continue
		}
		r := &runs[s.run]
		if s.glyph < 0 {
			s.pen = r.Offset
		} else {
			s.pen += r.Glyphs[s.glyph].Advance
		}
		s.glyph++
		if s.glyph >= len(r.Glyphs) {
			s.run++
			s.glyph = -1
			continue
		}

		g := r.Glyphs[s.glyph]
		o, err := s.e.loadOutline(r.Face, g.ID, r.Size)
		if err != nil {
			s.err = err
			s.failed = true
			return false
		}
		s.cur = GlyphOutline{
			Outline: o,
			X:       s.pen + g.X,
			Y:       g.Y + r.Baseline,
			Brush:   r.Brush,
			Rune:    g.Rune,
		}
		return true
	}
	return false
}

// Glyph returns the current glyph. It is valid after Next returns true.
func (s *OutlineStream) Glyph() GlyphOutline { return s.cur }

// Err returns the error that stopped the stream, if any.
func (s *OutlineStream) Err() error { return s.err }

// Collect drains the stream.
func (s *OutlineStream) Collect() ([]GlyphOutline, error) {
	var out []GlyphOutline
	for s.Next() {
		out = append(out, s.Glyph())
	}
	return out, s.Err()
}

// loadOutline scales a glyph and converts it to an explicitly closed, y-up
// outline with the engine's hinting applied. Colour bitmap glyphs have no
// outline and yield an empty one.
func (e *Engine) loadOutline(f *Face, gi sfnt.GlyphIndex, size float32) (Outline, error) {
	segs, err := f.Font.LoadGlyph(&e.buf, gi, ppem(size), nil)
	if err == sfnt.ErrColoredGlyph {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load glyph %d from %s", gi, f.Family)
	}

	// segs aliases e.buf and is overwritten by the next call.
	out := make(Outline, 0, len(segs)+4)
	open := false
	for _, s := range segs {
		seg := Segment{Op: segmentOp(s.Op)}
		for i := range s.Args {
			seg.Args[i] = e.hint(toPoint(s.Args[i]))
		}
		if seg.Op == MoveTo {
			if open {
				out = append(out, Segment{Op: Close})
			}
			open = true
		}
		out = append(out, seg)
	}
	if open {
		out = append(out, Segment{Op: Close})
	}
	return out, nil
}

// hint snaps p to the pixel grid. sfnt loads outlines unhinted, so
// HintingVertical rounds y and HintingFull rounds both axes, matching the
// rounding sfnt applies to advances and metrics.
func (e *Engine) hint(p Point) Point {
	switch e.cfg.Hinting {
	case font.HintingFull:
		p.X = float32(math.Round(float64(p.X)))
		fallthrough
	case font.HintingVertical:
		p.Y = float32(math.Round(float64(p.Y)))
	}
	return p
}

func segmentOp(op sfnt.SegmentOp) Op {
	switch op {
	case sfnt.SegmentOpMoveTo:
		return MoveTo
	case sfnt.SegmentOpLineTo:
		return LineTo
	case sfnt.SegmentOpQuadTo:
		return QuadTo
	default:
		return CubeTo
	}
}

func toPoint(p fixed.Point26_6) Point {
	return Point{X: fromFixed(p.X), Y: -fromFixed(p.Y)}
}

// Bounds returns the outline's bounding box over all points, control points
// included. ok is false for an empty outline.
func (o Outline) Bounds() (minP, maxP Point, ok bool) {
	for _, s := range o {
		n := s.Op.Args()
		for _, p := range s.Args[:n] {
			if !ok {
				minP, maxP, ok = p, p, true
				continue
			}
			minP.X, minP.Y = min(minP.X, p.X), min(minP.Y, p.Y)
			maxP.X, maxP.Y = max(maxP.X, p.X), max(maxP.Y, p.Y)
		}
	}
	return minP, maxP, ok
}

// Args returns the number of points the op uses.
func (o Op) Args() int {
	switch o {
	case MoveTo, LineTo:
		return 1
	case QuadTo:
		return 2
	case CubeTo:
		return 3
	}
	return 0
}
