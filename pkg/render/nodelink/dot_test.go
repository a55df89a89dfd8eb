package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/lobbymap/pkg/errors"
	"github.com/matzehuels/lobbymap/pkg/nodemap"
)

func sampleNodes() nodemap.NodeMap {
	return nodemap.NodeMap{
		"↺": {40, 310},
		"1": {412, 96},
		"B": {130.5, 288},
	}
}

func TestToDOT(t *testing.T) {
	edges := []nodemap.Edge{{From: "↺", To: "1"}, {From: "1", To: "B"}}
	path := []nodemap.Edge{{From: "↺", To: "1"}}

	dot, err := ToDOT(sampleNodes(), edges, Options{Path: path})
	if err != nil {
		t.Fatalf("ToDOT: %v", err)
	}

	for _, want := range []string{
		"digraph lobby {",
		`"1" [label="1", pos="412,-96!", fillcolor="#ffafc3e6"`,
		`"B" [label="B", pos="130.5,-288!", fillcolor="#96afffe6"`,
		`"↺" [label="↺", pos="40,-310!", fillcolor="#fff064e6"`,
		`"↺" -> "1" [color="#bebefab4", penwidth=2];`,
		`"1" -> "B" [color="#bebefab4", penwidth=2];`,
		`"↺" -> "1" [color="#78fa78e6", penwidth=4];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}

	// Nodes appear in sorted label order.
	if strings.Index(dot, `"1" [`) > strings.Index(dot, `"B" [`) {
		t.Error("nodes are not sorted")
	}
}

func TestToDOTScale(t *testing.T) {
	dot, err := ToDOT(nodemap.NodeMap{"1": {10, 20}}, nil, Options{Scale: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(dot, `pos="5,-10!"`) {
		t.Errorf("scaled DOT = %s", dot)
	}
}

func TestToDOTUnresolved(t *testing.T) {
	tests := []struct {
		name  string
		edges []nodemap.Edge
		path  []nodemap.Edge
	}{
		{"edge", []nodemap.Edge{{From: "1", To: "Z"}}, nil},
		{"path", nil, []nodemap.Edge{{From: "Q", To: "1"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToDOT(sampleNodes(), tt.edges, Options{Path: tt.path})
			if !errors.Is(err, errors.ErrCodeUnresolvedReference) {
				t.Errorf("ToDOT() error = %v, want UNRESOLVED_REFERENCE", err)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"dot", "SVG", "png"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q): %v", s, err)
		}
	}
	if _, err := ParseFormat("pdf"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ParseFormat(pdf) error = %v", err)
	}
}

func TestRenderDOTPassthrough(t *testing.T) {
	out, err := Render(context.Background(), "digraph {}", FormatDOT)
	if err != nil || string(out) != "digraph {}" {
		t.Errorf("Render(dot) = %q, %v", out, err)
	}
}

func TestRenderSVG(t *testing.T) {
	dot, err := ToDOT(sampleNodes(), []nodemap.Edge{{From: "1", To: "B"}}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	svg, err := RenderSVG(context.Background(), dot)
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") || !strings.Contains(string(svg), "</svg>") {
		t.Errorf("RenderSVG() did not produce an svg document")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.50 200.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.50 200.00" width="100" height="200"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}
}
