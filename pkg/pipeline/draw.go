package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/draw"
	"image/png"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lobbymap/pkg/errors"
	"github.com/matzehuels/lobbymap/pkg/fonts"
	"github.com/matzehuels/lobbymap/pkg/nodemap"
	"github.com/matzehuels/lobbymap/pkg/observability"
	"github.com/matzehuels/lobbymap/pkg/render"
	"github.com/matzehuels/lobbymap/pkg/text"
)

// DrawOptions selects the arrows drawn after the labels.
type DrawOptions struct {
	Graph []nodemap.Edge // drawn in the edge color
	Path  []nodemap.Edge // drawn over the graph in the path color
}

// Renderer draws node maps. It owns a layout engine and is not safe for
// concurrent use.
type Renderer struct {
	Style  Style
	Logger *log.Logger

	engine  *text.Engine
	palette render.Palette
}

// NewRenderer builds the layout engine for style: style fonts first, then the
// bundled faces, then installed fonts when style.SystemFonts is set.
func NewRenderer(style Style, logger *log.Logger) (*Renderer, error) {
	if logger == nil {
		logger = log.Default()
	}
	style.SetDefaults()
	if err := style.Validate(); err != nil {
		return nil, err
	}

	eng := text.NewEngine(text.Config{SystemFonts: style.SystemFonts})
	for _, name := range style.Fonts {
		f, err := fonts.Load(name)
		if err != nil {
			return nil, err
		}
		families, err := eng.Register(f.Data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "font %s", f.Name)
		}
		logger.Debug("registered font", "file", f.Name, "families", families)
	}
	for _, f := range fonts.Bundled() {
		if _, err := eng.Register(f.Data); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "bundled font %s", f.Name)
		}
	}
	if style.SystemFonts {
		logger.Debug("system fonts enabled", "faces", len(eng.Faces())-len(eng.Families()))
	}

	return &Renderer{
		Style:   style,
		Logger:  logger,
		engine:  eng,
		palette: style.Palette(),
	}, nil
}

// Engine returns the renderer's layout engine.
func (r *Renderer) Engine() *text.Engine { return r.engine }

// Draw paints every label of nodes in sorted order, then the graph edges,
// then the path. A label with no glyph geometry, such as whitespace, draws
// nothing. Edges naming a label missing from nodes fail with
// UNRESOLVED_REFERENCE; labels drawn before the failure stay on the canvas.
func (r *Renderer) Draw(ctx context.Context, c *render.Canvas, nodes nodemap.NodeMap, opts DrawOptions) (err error) {
	edges := len(opts.Graph) + len(opts.Path)
	hooks := observability.Pipeline()
	hooks.OnDrawStart(ctx, len(nodes), edges)
	start := time.Now()
	defer func() {
		hooks.OnDrawComplete(ctx, len(nodes), edges, time.Since(start), err)
	}()

	for _, label := range nodes.Labels() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.drawLabel(c, label, nodes[label]); err != nil {
			return err
		}
	}

	layers := []struct {
		name  string
		edges []nodemap.Edge
		color Color
		style render.StrokeStyle
	}{
		{"graph", opts.Graph, r.Style.Colors.Edge, r.Style.EdgeStroke()},
		{"path", opts.Path, r.Style.Colors.Path, r.Style.PathStroke()},
	}
	for _, layer := range layers {
		for _, e := range layer.edges {
			if err := ctx.Err(); err != nil {
				return err
			}
			from, to, err := nodes.Resolve(e)
			if err != nil {
				return err
			}
			arrow := render.Arrow(point(from), point(to), r.Style.Wing)
			c.Stroke(arrow, layer.color.NRGBA(), layer.style, render.Identity)
		}
		if len(layer.edges) > 0 {
			r.Logger.Debug("drew arrows", "layer", layer.name, "count", len(layer.edges))
		}
	}

	r.Logger.Info("drew node map",
		"labels", len(nodes),
		"edges", len(opts.Graph),
		"path", len(opts.Path),
		"duration", time.Since(start))
	return nil
}

func point(p nodemap.Position) render.Point {
	return render.Point{X: float64(p.X()), Y: float64(p.Y())}
}

// drawLabel fills and then strokes each glyph of label in turn, so a later
// glyph's fill covers an earlier glyph's outline where they overlap.
func (r *Renderer) drawLabel(c *render.Canvas, label string, pos nodemap.Position) error {
	l, err := r.engine.BuildLayout(label, text.Options{
		FontSize:   float32(r.Style.FontSize),
		LineHeight: float32(r.Style.LineHeight),
		Brush:      r.palette[render.Classify(label)],
	})
	if err != nil {
		return err
	}

	stroke := render.LabelStroke(r.Style.FontSize)
	outline := r.Style.Colors.Outline.NRGBA()
	s := r.engine.Outlines(l)
	for s.Next() {
		g := s.Glyph()
		p, ok := render.FromOutline(g.Outline)
		if !ok {
			continue
		}
		m := render.GlyphTransform(float64(pos.X()), float64(pos.Y()), float64(g.X), float64(g.Y))
		c.Fill(p, g.Brush, m)
		c.Stroke(p, outline, stroke, m)
	}
	if err := s.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "outline label %q", label)
	}
	return nil
}

// Run reads an annotated PNG from in, draws its node map with opts and
// writes the result to out as an RGBA PNG of the same size. The input's
// alpha channel is kept.
func (r *Renderer) Run(ctx context.Context, in io.Reader, out io.Writer, opts DrawOptions) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "read image")
	}
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return errors.Malformed(err, "decode image")
	}
	nodes, err := nodemap.ReadPNG(bytes.NewReader(data))
	if err != nil {
		return err
	}

	b := src.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), src, b.Min, draw.Src)
	r.Logger.Debug("decoded image", "width", b.Dx(), "height", b.Dy(), "labels", len(nodes))

	if err := r.Draw(ctx, render.NewCanvas(img), nodes, opts); err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode image")
	}
	return nil
}
