package render

import (
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/lobbymap/pkg/text"
)

// Point is a device-space position in pixels.
type Point struct {
	X, Y float64
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Mul returns p scaled by k.
func (p Point) Mul(k float64) Point { return Point{p.X * k, p.Y * k} }

// Len returns the Euclidean length of p.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// Lerp returns the point a fraction t of the way from p to q.
func (p Point) Lerp(q Point, t float64) Point { return p.Add(q.Sub(p).Mul(t)) }

// Rotate returns p rotated counter-clockwise by theta radians in a y-up
// frame.
func (p Point) Rotate(theta float64) Point {
	s, c := math.Sincos(theta)
	return Point{p.X*c - p.Y*s, p.X*s + p.Y*c}
}

// Segment is one path command; see [text.Segment] for argument use.
type Segment struct {
	Op  text.Op
	Pts [3]Point
}

// Path is a sequence of sub-paths.
type Path struct {
	Segments []Segment
}

// MoveTo starts a new sub-path.
func (p *Path) MoveTo(pt Point) { p.add(text.MoveTo, pt) }

// LineTo adds a straight line.
func (p *Path) LineTo(pt Point) { p.add(text.LineTo, pt) }

// QuadTo adds a quadratic Bézier curve.
func (p *Path) QuadTo(ctrl, pt Point) { p.add(text.QuadTo, ctrl, pt) }

// CubeTo adds a cubic Bézier curve.
func (p *Path) CubeTo(c1, c2, pt Point) { p.add(text.CubeTo, c1, c2, pt) }

// Close closes the current sub-path.
func (p *Path) Close() { p.add(text.Close) }

func (p *Path) add(op text.Op, pts ...Point) {
	s := Segment{Op: op}
	copy(s.Pts[:], pts)
	p.Segments = append(p.Segments, s)
}

// Drawable reports whether the path has any geometry beyond bare moves.
func (p Path) Drawable() bool {
	for _, s := range p.Segments {
		switch s.Op {
		case text.LineTo, text.QuadTo, text.CubeTo:
			return true
		}
	}
	return false
}

// Transform returns a copy of p with every point mapped through m.
func (p Path) Transform(m rasterx.Matrix2D) Path {
	out := Path{Segments: make([]Segment, len(p.Segments))}
	for i, s := range p.Segments {
		out.Segments[i].Op = s.Op
		for j := range s.Op.Args() {
			x, y := m.Transform(s.Pts[j].X, s.Pts[j].Y)
			out.Segments[i].Pts[j] = Point{x, y}
		}
	}
	return out
}

// FromOutline converts a glyph outline. ok is false when the outline has
// nothing to draw, as for whitespace.
func FromOutline(o text.Outline) (p Path, ok bool) {
	p.Segments = make([]Segment, len(o))
	for i, s := range o {
		p.Segments[i].Op = s.Op
		for j := range s.Op.Args() {
			p.Segments[i].Pts[j] = Point{float64(s.Args[j].X), float64(s.Args[j].Y)}
		}
	}
	return p, p.Drawable()
}

// adder is the subset of rasterx.Adder paths are fed through.
type adder interface {
	Start(a fixed.Point26_6)
	Line(b fixed.Point26_6)
	QuadBezier(b, c fixed.Point26_6)
	CubeBezier(b, c, d fixed.Point26_6)
	Stop(closeLoop bool)
}

func toFixed(p Point) fixed.Point26_6 {
	return fixed.Point26_6{
		X: fixed.Int26_6(math.Round(p.X * 64)),
		Y: fixed.Int26_6(math.Round(p.Y * 64)),
	}
}

// feed sends p, already in device space, to a rasterizer. Open sub-paths are
// ended without closing so strokes get caps.
func feed(a adder, p Path) {
	open := false
	for _, s := range p.Segments {
		switch s.Op {
		case text.MoveTo:
			if open {
				a.Stop(false)
			}
			a.Start(toFixed(s.Pts[0]))
			open = true
		case text.LineTo:
			a.Line(toFixed(s.Pts[0]))
		case text.QuadTo:
			a.QuadBezier(toFixed(s.Pts[0]), toFixed(s.Pts[1]))
		case text.CubeTo:
			a.CubeBezier(toFixed(s.Pts[0]), toFixed(s.Pts[1]), toFixed(s.Pts[2]))
		case text.Close:
			if open {
				a.Stop(true)
				open = false
			}
		}
	}
	if open {
		a.Stop(false)
	}
}
