package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/lobbymap/pkg/errors"
	"github.com/matzehuels/lobbymap/pkg/nodemap"
	"github.com/matzehuels/lobbymap/pkg/render"
)

// Options configures diagram generation.
type Options struct {
	// Path is drawn on top of the graph edges in the path color.
	Path []nodemap.Edge
	// Scale multiplies image coordinates into Graphviz points. Zero means 1.
	Scale float64
}

// ToDOT converts a node map and its edges to DOT. Every edge endpoint must
// be a label of nodes.
func ToDOT(nodes nodemap.NodeMap, edges []nodemap.Edge, opts Options) (string, error) {
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}

	var buf bytes.Buffer
	buf.WriteString("digraph lobby {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  node [shape=circle, style=filled, fontsize=24, fontname=\"Helvetica-Bold\", pin=true];\n")
	buf.WriteString("  edge [arrowsize=1.2];\n")
	buf.WriteString("\n")

	for _, label := range nodes.Labels() {
		p := nodes[label]
		attrs := []string{
			fmt.Sprintf("label=%q", label),
			fmt.Sprintf("pos=\"%s,%s!\"", fmtCoord(float64(p.X())*scale), fmtCoord(-float64(p.Y())*scale)),
			fmt.Sprintf("fillcolor=%q", hexColor(render.FillColor(render.Classify(label)))),
			fmt.Sprintf("color=%q", hexColor(render.LabelOutline)),
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", label, strings.Join(attrs, ", "))
	}

	if len(edges) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range edges {
		if _, _, err := nodes.Resolve(e); err != nil {
			return "", err
		}
		fmt.Fprintf(&buf, "  %q -> %q [color=%q, penwidth=2];\n", e.From, e.To, hexColor(render.EdgeColor))
	}

	if len(opts.Path) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range opts.Path {
		if _, _, err := nodes.Resolve(e); err != nil {
			return "", err
		}
		fmt.Fprintf(&buf, "  %q -> %q [color=%q, penwidth=4];\n", e.From, e.To, hexColor(render.PathColor))
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func fmtCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Format is an output format supported by [Render].
type Format string

const (
	FormatDOT Format = "dot"
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatDOT, FormatSVG, FormatPNG:
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unsupported format %q (want dot, svg or png)", s)
}

// Render lays out dot with neato, keeping pinned positions, and encodes it
// in format. FormatDOT returns dot unchanged.
func Render(ctx context.Context, dot string, format Format) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return RenderSVG(ctx, dot)
	case FormatPNG:
		return renderGraph(ctx, dot, graphviz.PNG)
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported format %q", format)
}

// RenderSVG renders DOT to SVG with a viewBox-sized root element.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	svg, err := renderGraph(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(svg), nil
}

func renderGraph(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="(-?[0-9.]+)\s+(-?[0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
