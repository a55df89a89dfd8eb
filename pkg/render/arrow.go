package render

import "math"

// DefaultWing is the wing length of edge arrows in pixels.
const DefaultWing = 60

// WingAngle is the angle between an arrow wing and the edge.
const WingAngle = 15 * math.Pi / 180

// Arrow returns a segment from start to end with two wings of length wing
// drawn from the midpoint back toward start, each at [WingAngle] to the
// edge. A zero-length edge has no direction and gets no wings.
func Arrow(start, end Point, wing float64) Path {
	var p Path
	p.MoveTo(start)
	p.LineTo(end)

	d := end.Sub(start)
	n := d.Len()
	if n == 0 {
		return p
	}
	dir := d.Mul(1 / n)
	mid := start.Lerp(end, 0.5)
	for _, theta := range []float64{WingAngle, -WingAngle} {
		p.MoveTo(mid)
		p.LineTo(mid.Sub(dir.Rotate(theta).Mul(wing)))
	}
	return p
}
