package text

import (
	"image/color"
	"strings"
	"unicode"

	"golang.org/x/image/font/sfnt"

	"github.com/matzehuels/lobbymap/pkg/errors"
)

// Layout is shaped, broken and aligned text.
type Layout struct {
	Lines  []Line
	Width  float32 // widest line
	Height float32 // sum of line box heights
}

// Line is one line box. Runs are in visual order, left to right.
type Line struct {
	Runs     []GlyphRun
	Top      float32
	Baseline float32
	Width    float32
	Height   float32
}

// GlyphRun is a sequence of glyphs sharing a face and a direction.
type GlyphRun struct {
	Face     *Face
	Size     float32 // scaled em size in pixels
	Brush    color.NRGBA
	Offset   float32 // x of the run's left edge
	Baseline float32
	Glyphs   []Glyph // visual order
	RTL      bool
}

// Glyph is one positioned glyph. X and Y are offsets from the pen position;
// Advance moves the pen to the next glyph.
type Glyph struct {
	ID      sfnt.GlyphIndex
	X, Y    float32
	Advance float32
	Rune    rune
}

// Empty reports whether the layout has no glyphs.
func (l *Layout) Empty() bool {
	for _, ln := range l.Lines {
		if len(ln.Runs) > 0 {
			return false
		}
	}
	return true
}

// item is a shaped rune in logical order.
type item struct {
	r     rune
	face  *Face
	gi    sfnt.GlyphIndex
	adv   float32
	level uint8
	space bool
}

// BuildLayout shapes text with opts. Lines break at '\n' and, when
// opts.MaxWidth is set, at spaces. A word wider than MaxWidth overflows its
// line rather than being split.
func (e *Engine) BuildLayout(text string, opts Options) (*Layout, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if e.primary() == nil {
		return nil, errors.New(errors.ErrCodeInternal, "no fonts registered")
	}
	size := opts.FontSize * opts.Scale

	type pline struct {
		items []item
		width float32
		last  bool // last line of its paragraph
		base  direction
	}
	var plines []pline

	text = strings.ReplaceAll(text, "\r\n", "\n")
	if text != "" {
		for _, para := range strings.Split(text, "\n") {
			items, base, err := e.shape([]rune(para), size)
			if err != nil {
				return nil, err
			}
			broken := breakLines(items, opts.MaxWidth)
			for i, li := range broken {
				plines = append(plines, pline{items: li, width: width(li), last: i == len(broken)-1, base: base})
			}
		}
	}

	l := &Layout{}
	for _, pl := range plines {
		l.Width = max(l.Width, pl.width)
	}
	box := l.Width
	if opts.MaxWidth > 0 {
		box = opts.MaxWidth
	}

	lineHeight := size * opts.LineHeight
	for _, pl := range plines {
		asc, desc, err := e.lineMetrics(pl.items, size)
		if err != nil {
			return nil, err
		}
		ln := Line{
			Top:    l.Height,
			Height: lineHeight,
			Width:  pl.width,
		}
		ln.Baseline = ln.Top + (lineHeight-(asc+desc))/2 + asc

		if opts.Align == AlignJustify && !pl.last && opts.MaxWidth > 0 {
			justify(pl.items, box-pl.width)
			ln.Width = box
		}
		x := alignOffset(opts.Align, pl.base, box, ln.Width)
		ln.Runs = buildRuns(pl.items, x, ln.Baseline, size, opts.Brush)

		l.Lines = append(l.Lines, ln)
		l.Height += lineHeight
	}
	return l, nil
}

// shape maps runes to glyphs and resolves their bidi levels.
func (e *Engine) shape(rs []rune, size float32) ([]item, direction, error) {
	for i, r := range rs {
		if r == '\t' {
			rs[i] = ' '
		}
	}
	base := baseDirection(rs)
	levels := resolveLevels(rs, base)

	items := make([]item, 0, len(rs))
	for i, r := range rs {
		if unicode.IsControl(r) {
			continue
		}
		f, gi := e.resolve(r)
		adv, err := e.advance(f, gi, size)
		if err != nil {
			return nil, base, err
		}
		it := item{r: r, face: f, gi: gi, adv: adv, level: levels[i], space: unicode.IsSpace(r)}
		if n := len(items); n > 0 {
			prev := &items[n-1]
			if prev.face == f && prev.level%2 == 0 && it.level%2 == 0 {
				prev.adv += e.kern(f, prev.gi, gi, size)
			}
		}
		items = append(items, it)
	}
	return items, base, nil
}

// breakLines splits a paragraph greedily at spaces. Spaces at the end of a
// wrapped line are dropped.
func breakLines(items []item, maxWidth float32) [][]item {
	if maxWidth <= 0 {
		return [][]item{trimTrailing(items)}
	}
	var (
		lines [][]item
		cur   []item
		w     float32
	)
	for len(items) > 0 {
		// A word is its letters plus the spaces that follow.
		n := 0
		for n < len(items) && !items[n].space {
			n++
		}
		letters := n
		for n < len(items) && items[n].space {
			n++
		}
		word := items[:n]
		items = items[n:]

		if len(cur) > 0 && w+width(word[:letters]) > maxWidth {
			lines = append(lines, trimTrailing(cur))
			cur, w = nil, 0
		}
		cur = append(cur, word...)
		w += width(word)
	}
	return append(lines, trimTrailing(cur))
}

func trimTrailing(items []item) []item {
	n := len(items)
	for n > 0 && items[n-1].space {
		n--
	}
	return items[:n]
}

func width(items []item) float32 {
	var w float32
	for _, it := range items {
		w += it.adv
	}
	return w
}

func justify(items []item, extra float32) {
	if extra <= 0 {
		return
	}
	var spaces []int
	for i, it := range items {
		if it.space {
			spaces = append(spaces, i)
		}
	}
	if len(spaces) == 0 {
		return
	}
	per := extra / float32(len(spaces))
	for _, i := range spaces {
		items[i].adv += per
	}
}

func alignOffset(a Alignment, base direction, box, w float32) float32 {
	free := box - w
	switch a {
	case AlignCenter:
		return free / 2
	case AlignEnd:
		if base == dirRTL {
			return 0
		}
		return free
	default:
		if base == dirRTL {
			return free
		}
		return 0
	}
}

// lineMetrics returns the largest ascent and descent among the faces used on
// the line, or the primary face's for an empty line.
func (e *Engine) lineMetrics(items []item, size float32) (asc, desc float32, err error) {
	seen := map[*Face]bool{}
	for _, it := range items {
		if seen[it.face] {
			continue
		}
		seen[it.face] = true
		a, d, err := e.metrics(it.face, size)
		if err != nil {
			return 0, 0, err
		}
		asc, desc = max(asc, a), max(desc, d)
	}
	if len(seen) == 0 {
		return e.metrics(e.primary(), size)
	}
	return asc, desc, nil
}

// buildRuns reorders a line visually and groups it into runs.
func buildRuns(items []item, x, baseline, size float32, brush color.NRGBA) []GlyphRun {
	levels := make([]uint8, len(items))
	for i, it := range items {
		levels[i] = it.level
	}
	var runs []GlyphRun
	for _, idx := range visualOrder(levels) {
		it := items[idx]
		rtl := it.level%2 == 1
		if n := len(runs); n == 0 || runs[n-1].Face != it.face || runs[n-1].RTL != rtl {
			runs = append(runs, GlyphRun{
				Face:     it.face,
				Size:     size,
				Brush:    brush,
				Offset:   x,
				Baseline: baseline,
				RTL:      rtl,
			})
		}
		run := &runs[len(runs)-1]
		run.Glyphs = append(run.Glyphs, Glyph{ID: it.gi, Advance: it.adv, Rune: it.r})
		x += it.adv
	}
	return runs
}
